package intent

import (
	"sort"
	"strings"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
)

// DefaultMaxInputRunes bounds how much text the scorers ever see. Longer
// input is truncated (multi-byte safe) before scoring so adversarial
// payload size cannot inflate classification cost.
const DefaultMaxInputRunes = 512

// ClassifierOptions configure a Classifier.
type ClassifierOptions struct {
	// MinScore is the minimum weighted score an intent must reach to be
	// a candidate. Zero means any positive score qualifies.
	MinScore int

	// MaxInputRunes truncates input before scoring. Defaults to
	// DefaultMaxInputRunes when <= 0.
	MaxInputRunes int

	// Observer, when set, receives every classification decision after
	// it is made. It has fire-and-continue semantics: whatever it does,
	// including panicking, cannot change the returned intent.
	Observer core.Observer

	Logger logging.Logger
}

// Classifier aggregates one scorer per intent and selects the winning
// intent for a piece of text. It is populated at boot and read-only at
// request time, so it carries no lock.
type Classifier struct {
	scorers  map[core.Intent]Scorer
	minScore int
	maxRunes int
	observer core.Observer
	logger   logging.Logger
}

// NewClassifier creates an empty classifier.
func NewClassifier(optFns ...func(o *ClassifierOptions)) *Classifier {
	opts := ClassifierOptions{MaxInputRunes: DefaultMaxInputRunes, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxInputRunes <= 0 {
		opts.MaxInputRunes = DefaultMaxInputRunes
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Classifier{
		scorers:  make(map[core.Intent]Scorer),
		minScore: opts.MinScore,
		maxRunes: opts.MaxInputRunes,
		observer: opts.Observer,
		logger:   opts.Logger,
	}
}

// Register adds a scorer, keyed by the intent it argues for. Registering
// a second scorer for the same intent replaces the first; that is logged
// but never an error.
func (c *Classifier) Register(s Scorer) {
	in := s.Intent()
	if _, exists := c.scorers[in]; exists {
		c.logger.Warn("classifier.scorer.overwrite", "intent", in.String())
	}
	c.scorers[in] = s
}

// Intents returns the intents with a registered scorer, alphabetically.
func (c *Classifier) Intents() []core.Intent {
	out := make([]core.Intent, 0, len(c.scorers))
	for in := range c.scorers {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Classify resolves the intent for the given input.
//
// An explicit intent carried by the request context that normalizes to a
// known value short-circuits scoring entirely. Blank input returns
// IntentUnknown without invoking a single scorer. Otherwise every
// registered scorer rates the (lowercased, trimmed, truncated) text and
// the best weighted score wins; exact ties resolve to the alphabetically
// earliest intent so classification is deterministic.
func (c *Classifier) Classify(input string, reqCtx core.Context) core.Intent {
	if override := reqCtx.IntentOverride(); override != "" {
		if in := core.NormalizeIntent(override); in.IsKnown() {
			return in
		}
	}

	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return core.IntentUnknown
	}
	text = truncateRunes(text, c.maxRunes)

	scores := c.scoreAll(text, reqCtx)
	best := c.selectBest(scores)

	c.notify(core.Decision{Intent: best, Scores: scores, Input: input, Ctx: reqCtx})

	return best
}

// scoreAll computes the weighted score map for one classification call.
// Weighted scores stay float64 end to end so fractional weights keep
// their ordering power. The map is built fresh per call and never
// persisted.
func (c *Classifier) scoreAll(text string, reqCtx core.Context) map[core.Intent]float64 {
	scores := make(map[core.Intent]float64, len(c.scorers))
	for in, s := range c.scorers {
		raw := s.Score(text, reqCtx)
		if raw < 0 {
			raw = 0
		}
		scores[in] = float64(raw) * s.Weight()
	}
	return scores
}

// selectBest scans candidates in alphabetical order, applying the minimum
// score threshold and keeping the first strictly-greatest weighted score
// seen, so exact ties resolve to the alphabetically earliest intent.
func (c *Classifier) selectBest(scores map[core.Intent]float64) core.Intent {
	candidates := make([]core.Intent, 0, len(scores))
	for in := range scores {
		candidates = append(candidates, in)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	threshold := float64(c.minScore)

	best := core.IntentUnknown
	bestScore := 0.0
	for _, in := range candidates {
		score := scores[in]
		if score <= 0 || score < threshold {
			continue
		}
		if score > bestScore {
			best = in
			bestScore = score
		}
	}
	return best
}

// notify delivers the decision to the observer. Observer failures are
// contained here; they must not affect the classification result.
func (c *Classifier) notify(decision core.Decision) {
	if c.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("classifier.observer.panic")
		}
	}()
	c.observer(decision)
}

// truncateRunes cuts the string to at most max runes without splitting a
// multi-byte sequence.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// ChannelObserver adapts a channel into an Observer with a non-blocking
// send; decisions are dropped when the channel is full so a slow consumer
// can never stall classification.
func ChannelObserver(ch chan<- core.Decision) core.Observer {
	return func(d core.Decision) {
		select {
		case ch <- d:
		default:
		}
	}
}
