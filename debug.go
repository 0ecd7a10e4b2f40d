package hanami

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and scene metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	traverseTime time.Duration
	submitTime   time.Duration
	commandCount int
	entities     int
	batches      int
}

// debugLog logs timing and scene stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug().
		Dur("traverse", stats.traverseTime).
		Dur("submit", stats.submitTime).
		Dur("total", stats.traverseTime+stats.submitTime).
		Int("commands", stats.commandCount).
		Int("entities", stats.entities).
		Int("batches", stats.batches).
		Msg("frame")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("hanami debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn().
			Str("node", n.Name).
			Int("children", len(n.children)).
			Int("threshold", debugMaxChildCount).
			Msg("node has too many children")
	}
}
