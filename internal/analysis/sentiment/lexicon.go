package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// ------------------------------------------------------------------
// Lexicon model (offline, no trained model needed).
// Word valences use a -4..+4 scale and the compound score is
// normalized as sum/sqrt(sum²+alpha), so output stays in (-1, 1).
// ------------------------------------------------------------------

const (
	normalizationAlpha = 15.0
	negationScalar     = -0.74
)

// lexiconValence holds single-word valences (lowercase).
var lexiconValence = map[string]float64{
	// bullish
	"bullish": 2.9, "rally": 2.2, "rallies": 2.2, "surge": 2.4, "surges": 2.4,
	"soar": 2.6, "soars": 2.6, "jump": 1.8, "jumps": 1.8, "climb": 1.5,
	"climbs": 1.5, "gain": 1.8, "gains": 1.8, "rise": 1.4, "rises": 1.4,
	"beat": 1.9, "beats": 1.9, "upbeat": 2.0, "strong": 1.9, "stronger": 2.0,
	"record": 1.2, "growth": 1.9, "profit": 1.9, "profits": 1.9,
	"upgrade": 2.1, "upgraded": 2.1, "outperform": 2.0, "buy": 1.2,
	"recovery": 1.7, "recover": 1.5, "boost": 1.8, "boosts": 1.8,
	"optimism": 2.2, "optimistic": 2.2, "positive": 2.2, "good": 1.9,
	"great": 3.1, "success": 2.7, "win": 2.8, "wins": 2.8, "approval": 1.9,
	"dividend": 1.0, "expansion": 1.4, "breakout": 1.8, "exceeds": 1.8,

	// bearish
	"bearish": -2.9, "crash": -3.0, "crashes": -3.0, "plunge": -2.8,
	"plunges": -2.8, "slump": -2.3, "slumps": -2.3, "tumble": -2.3,
	"tumbles": -2.3, "fall": -1.4, "falls": -1.4, "drop": -1.5,
	"drops": -1.5, "decline": -1.6, "declines": -1.6, "slide": -1.5,
	"slides": -1.5, "loss": -2.0, "losses": -2.0, "miss": -1.7,
	"misses": -1.7, "weak": -1.9, "weaker": -2.0, "downgrade": -2.1,
	"downgraded": -2.1, "underperform": -2.0, "sell": -1.0, "selloff": -2.4,
	"warning": -1.9, "warns": -1.9, "risk": -1.1, "risks": -1.1,
	"concern": -1.4, "concerns": -1.4, "fear": -2.2, "fears": -2.2,
	"investigation": -1.8, "probe": -1.6, "lawsuit": -1.8, "fraud": -3.0,
	"default": -2.4, "bankruptcy": -3.2, "layoffs": -2.2, "cut": -1.1,
	"cuts": -1.1, "negative": -2.3, "bad": -2.5, "recession": -2.6,
}

// negators flip the polarity of a valence word within the three
// preceding tokens.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true, "nor": true,
	"without": true, "isn't": true, "wasn't": true, "aren't": true,
	"weren't": true, "don't": true, "doesn't": true, "didn't": true,
	"won't": true, "can't": true, "cannot": true, "hardly": true,
	"fails": true, "failed": true,
}

// intensifiers scale a valence word within the two preceding tokens.
var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "sharply": 1.4,
	"significantly": 1.3, "strongly": 1.3, "massive": 1.4, "huge": 1.4,
	"slightly": 0.7, "somewhat": 0.8, "modestly": 0.8, "marginally": 0.7,
}

// LexiconModel is a dictionary-based Model. It is deterministic, needs no
// network and never fails.
type LexiconModel struct {
	valence      map[string]float64
	negators     map[string]bool
	intensifiers map[string]float64
}

// NewLexiconModel returns a LexiconModel with the built-in dictionaries.
func NewLexiconModel() *LexiconModel {
	return &LexiconModel{
		valence:      lexiconValence,
		negators:     negators,
		intensifiers: intensifiers,
	}
}

func (m *LexiconModel) Name() string { return "lexicon" }

// Score returns the normalized compound valence of text.
func (m *LexiconModel) Score(_ context.Context, text string) (float64, error) {
	return m.Compound(text), nil
}

// Compound computes the score without the Model plumbing.
func (m *LexiconModel) Compound(text string) float64 {
	words := tokenize(text)
	sum := 0.0
	for i, w := range words {
		v, ok := m.valence[w]
		if !ok {
			continue
		}
		v *= m.intensity(words, i)
		if m.negated(words, i) {
			v *= negationScalar
		}
		sum += v
	}
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normalizationAlpha)
}

func (m *LexiconModel) negated(words []string, i int) bool {
	for j := max(0, i-3); j < i; j++ {
		if m.negators[words[j]] {
			return true
		}
	}
	return false
}

func (m *LexiconModel) intensity(words []string, i int) float64 {
	for j := max(0, i-2); j < i; j++ {
		if mult, ok := m.intensifiers[words[j]]; ok {
			return mult
		}
	}
	return 1.0
}

// tokenize lowercases text and splits it into words, keeping apostrophes
// so contractions like "didn't" survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}
