package hanami

import "errors"

// Domain errors. None of them is surfaced to viewers: the animation loop
// treats them as signals to cancel or skip work.
var (
	// ErrTargetGone is returned by a Sink whose visual element no longer
	// exists. The scheduler cancels the entity's remaining ticks.
	ErrTargetGone = errors.New("hanami: render target no longer exists")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("hanami: invalid configuration")

	// ErrNoWords indicates a word list missing a syllable bucket a line needs.
	ErrNoWords = errors.New("hanami: no words for syllable count")

	// ErrUnknownEase indicates an easing name not present in the preset table.
	ErrUnknownEase = errors.New("hanami: unknown easing")

	// ErrEmptyScript indicates a scenario script without steps.
	ErrEmptyScript = errors.New("hanami: script has no steps")
)
