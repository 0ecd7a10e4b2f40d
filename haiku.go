package hanami

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed words.yaml
var wordsYAML []byte

// HaikuPattern is the syllable count of each haiku line.
var HaikuPattern = [3]int{5, 7, 5}

// syllableParts are the word sizes a line is built from.
var syllableParts = []int{1, 2, 3, 4}

const maxWordRetries = 32

// LineProducer produces one line of text with the given syllable count.
type LineProducer interface {
	ProduceLine(syllables int) string
}

// WordList maps a syllable count to the words having it.
type WordList map[int][]string

// ParseWords decodes a YAML word list keyed by syllable count.
func ParseWords(data []byte) (WordList, error) {
	var w WordList
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse word list: %w", err)
	}
	return w, nil
}

// LoadWords reads a YAML word list from disk.
func LoadWords(path string) (WordList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWords(data)
}

// DefaultWords returns the embedded word list.
func DefaultWords() WordList {
	w, err := ParseWords(wordsYAML)
	if err != nil {
		panic(err)
	}
	return w
}

// Partition splits total into word sizes drawn from {1, 2, 3, 4}. Each draw
// is uniform over the sizes that still fit, so the parts always sum to total.
func Partition(rng *Sampler, total int) []int {
	var parts []int
	fits := make([]int, 0, len(syllableParts))
	for remaining := total; remaining > 0; {
		fits = fits[:0]
		for _, p := range syllableParts {
			if p <= remaining {
				fits = append(fits, p)
			}
		}
		p := fits[rng.IntN(len(fits))]
		parts = append(parts, p)
		remaining -= p
	}
	return parts
}

// Composer builds lines from a word list.
type Composer struct {
	Words WordList
	rng   *Sampler
}

// NewComposer returns a composer over words. A nil rng uses the process-wide
// generator.
func NewComposer(words WordList, rng *Sampler) *Composer {
	if rng == nil {
		rng = NewSampler(nil)
	}
	return &Composer{Words: words, rng: rng}
}

// Line builds a line with the given syllable count. Words within a line are
// distinct as long as the list has enough of them. The first letter is
// capitalized and the line ends with a period.
func (c *Composer) Line(syllables int) (string, error) {
	parts := Partition(c.rng, syllables)
	words := make([]string, 0, len(parts))
	for _, n := range parts {
		bucket := c.Words[n]
		if len(bucket) == 0 {
			return "", fmt.Errorf("%w: %d", ErrNoWords, n)
		}
		w := bucket[c.rng.IntN(len(bucket))]
		for i := 0; i < maxWordRetries && contains(words, w); i++ {
			w = bucket[c.rng.IntN(len(bucket))]
		}
		words = append(words, w)
	}
	return capitalize(strings.Join(words, " ")) + ".", nil
}

// ProduceLine implements LineProducer. Errors yield an empty line.
func (c *Composer) ProduceLine(syllables int) string {
	line, err := c.Line(syllables)
	if err != nil {
		Logger().Warn().Err(err).Int("syllables", syllables).Msg("haiku line failed")
		return ""
	}
	return line
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Haiku is three lines following HaikuPattern.
type Haiku [3]string

// Compose produces a haiku from p.
func Compose(p LineProducer) Haiku {
	var h Haiku
	for i, n := range HaikuPattern {
		h[i] = p.ProduceLine(n)
	}
	return h
}

func (h Haiku) String() string { return strings.Join(h[:], "\n") }

// TextSink displays partially revealed haiku lines.
type TextSink interface {
	SetLine(index int, text string)
}

// TextSinkFunc adapts a function to TextSink.
type TextSinkFunc func(index int, text string)

// SetLine calls f.
func (f TextSinkFunc) SetLine(index int, text string) { f(index, text) }

// Typewriter reveals a haiku one line at a time, one scheduler entity per
// line. Line i starts once line i-1 has had its full duration.
type Typewriter struct {
	sched   *Scheduler
	haiku   Haiku
	sink    TextSink
	lineDur time.Duration
	ease    Timing

	ids      [3]EntityID
	finished int
}

// NewTypewriter prepares a typewriter. A nil ease reveals linearly.
func NewTypewriter(sched *Scheduler, h Haiku, sink TextSink, lineDur time.Duration, ease Timing) *Typewriter {
	if ease == nil {
		ease = EaseTiming{}
	}
	return &Typewriter{sched: sched, haiku: h, sink: sink, lineDur: lineDur, ease: ease}
}

// Start schedules all three lines at time now.
func (t *Typewriter) Start(now time.Duration) {
	for i := range t.haiku {
		e := Entity{
			Kind:     KindHaiku,
			Ease:     t.ease,
			Duration: t.lineDur,
			Delay:    time.Duration(i) * t.lineDur,
		}
		t.ids[i] = t.sched.Add(now, e, &lineSink{tw: t, index: i, runes: []rune(t.haiku[i])})
	}
}

// Done reports whether all three lines are fully revealed.
func (t *Typewriter) Done() bool { return t.finished == len(t.haiku) }

// Haiku returns the text being revealed.
func (t *Typewriter) Haiku() Haiku { return t.haiku }

// Cancel stops any line still revealing.
func (t *Typewriter) Cancel() {
	for _, id := range t.ids {
		t.sched.Cancel(id)
	}
}

type lineSink struct {
	tw    *Typewriter
	index int
	runes []rune
}

func (s *lineSink) Render(f Frame) error {
	n := int(clamp01(f.Progress) * float64(len(s.runes)))
	s.tw.sink.SetLine(s.index, string(s.runes[:n]))
	return nil
}

func (s *lineSink) Complete() { s.tw.finished++ }

// HaikuLoop composes a haiku, reveals it with a Typewriter, holds it and
// starts over. Call Update once per frame.
type HaikuLoop struct {
	Sched    *Scheduler
	Producer LineProducer
	Sink     TextSink
	LineDur  time.Duration
	Hold     time.Duration
	Ease     Timing

	tw      *Typewriter
	restart time.Duration
	held    bool
}

// NewHaikuLoop builds a loop from cfg.
func NewHaikuLoop(sched *Scheduler, p LineProducer, sink TextSink, cfg HaikuConfig) *HaikuLoop {
	fn, err := EaseByName(cfg.Ease)
	if err != nil {
		Logger().Warn().Err(err).Msg("haiku ease, using linear")
	}
	return &HaikuLoop{
		Sched:    sched,
		Producer: p,
		Sink:     sink,
		LineDur:  ms(cfg.LineMs),
		Hold:     ms(cfg.HoldMs),
		Ease:     EaseTiming{Fn: fn},
	}
}

// Update starts the first haiku, and each following one once the previous
// has been fully revealed and held.
func (l *HaikuLoop) Update(now time.Duration) {
	switch {
	case l.tw == nil:
	case !l.tw.Done():
		return
	case !l.held:
		l.held = true
		l.restart = now + l.Hold
		return
	case now < l.restart:
		return
	}
	for i := range HaikuPattern {
		l.Sink.SetLine(i, "")
	}
	l.tw = NewTypewriter(l.Sched, Compose(l.Producer), l.Sink, l.LineDur, l.Ease)
	l.tw.Start(now)
	l.held = false
}

// Current returns the haiku being shown, if any.
func (l *HaikuLoop) Current() (Haiku, bool) {
	if l.tw == nil {
		return Haiku{}, false
	}
	return l.tw.Haiku(), true
}

// Stop cancels the lines still revealing.
func (l *HaikuLoop) Stop() {
	if l.tw != nil {
		l.tw.Cancel()
	}
}
