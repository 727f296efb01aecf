// Package intent implements the deterministic intent classification
// pipeline: per-intent phrase scorers, a scorer registry and the
// classifier that turns free text into a member of the closed vocabulary.
package intent

import (
	"strings"

	"github.com/hupe1980/intentmesh/core"
)

// Scorer assigns an integer relevance score to one intent for a given
// text. Scores must be non-negative; the weight is applied only during
// classification, never inside Score.
type Scorer interface {
	// Intent returns the single intent this scorer argues for.
	Intent() core.Intent

	// Score rates the (already normalized and truncated) text. Higher
	// means more relevant; zero means no signal.
	Score(text string, reqCtx core.Context) int

	// Weight returns the multiplier applied to this scorer's raw score
	// during selection. The default is 1.0.
	Weight() float64
}

// PhraseScorer scores by whole-word phrase matching against a curated
// phrase list. Each phrase that occurs in the text on word boundaries
// contributes one point; raw substring hits (e.g. "status" inside
// "thermostatus") do not count.
type PhraseScorer struct {
	intent  core.Intent
	phrases []string
	weight  float64
}

// NewPhraseScorer builds a scorer for the intent from a phrase list.
// Phrases are normalized to lowercase single-spaced form at construction.
func NewPhraseScorer(in core.Intent, phrases []string, weight float64) *PhraseScorer {
	if weight <= 0 {
		weight = 1.0
	}
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if np := normalizeWords(p); np != "" {
			normalized = append(normalized, np)
		}
	}
	return &PhraseScorer{intent: in, phrases: normalized, weight: weight}
}

// Intent implements Scorer.
func (s *PhraseScorer) Intent() core.Intent { return s.intent }

// Weight implements Scorer.
func (s *PhraseScorer) Weight() float64 { return s.weight }

// Score implements Scorer. The incoming text is reduced to a
// space-delimited word sequence so phrase containment becomes a padded
// substring check with word-boundary semantics.
func (s *PhraseScorer) Score(text string, _ core.Context) int {
	haystack := " " + normalizeWords(text) + " "
	score := 0
	for _, phrase := range s.phrases {
		if strings.Contains(haystack, " "+phrase+" ") {
			score++
		}
	}
	return score
}

// normalizeWords lowercases the text and collapses every non-alphanumeric
// run into a single space, yielding a canonical word sequence.
func normalizeWords(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
