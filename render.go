package hanami

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// drawCommand is a single draw instruction emitted during scene traversal.
type drawCommand struct {
	node      *Node
	transform [6]float64
	alpha     float64
}

// traverse walks the node tree depth-first in ZIndex order, updating
// transforms and emitting draw commands for visible sprite and text nodes.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	switch n.Type {
	case NodeTypeSprite:
		if n.worldAlpha > 0 {
			s.commands = append(s.commands, drawCommand{node: n, transform: n.worldTransform, alpha: n.worldAlpha})
		}
	case NodeTypeText:
		if n.Text != "" && n.Face != nil && n.worldAlpha > 0 {
			s.commands = append(s.commands, drawCommand{node: n, transform: n.worldTransform, alpha: n.worldAlpha})
		}
	}

	if len(n.children) == 0 {
		return
	}
	children := n.children
	if !n.childrenSorted {
		rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted.
func rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// submit draws the collected commands in order.
func (s *Scene) submit(target *ebiten.Image) {
	for i := range s.commands {
		cmd := &s.commands[i]
		n := cmd.node
		c := n.Color
		a := float32(c.A * cmd.alpha)
		r, g, b := float32(c.R)*a, float32(c.G)*a, float32(c.B)*a

		switch n.Type {
		case NodeTypeSprite:
			img := n.Image
			if img == nil {
				img = WhitePixel
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM = geoM(cmd.transform)
			op.ColorScale.Scale(r, g, b, a)
			op.Filter = ebiten.FilterLinear
			target.DrawImage(img, op)
		case NodeTypeText:
			op := &text.DrawOptions{}
			op.GeoM = geoM(cmd.transform)
			op.ColorScale.Scale(r, g, b, a)
			text.Draw(target, n.Text, n.Face, op)
		}
	}
}
