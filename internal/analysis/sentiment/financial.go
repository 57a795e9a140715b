package sentiment

import "strings"

// financialTerm is one entry of the financial keyword lexicon.
type financialTerm struct {
	term     string
	polarity float64
}

// financialLexicon is the fixed table used by the keyword blend. Terms are
// matched as lowercase substrings, so "loss" also counts inside "losses".
var financialLexicon = [...]financialTerm{
	// bullish
	{"profit", 0.8},
	{"growth", 0.7},
	{"upside", 0.6},
	{"bullish", 0.9},
	{"outperform", 0.8},
	{"beat", 0.7},
	{"strong", 0.6},
	{"upgrade", 0.8},
	{"opportunity", 0.6},
	{"recovery", 0.6},
	{"gains", 0.7},
	{"positive", 0.7},
	{"exceeded expectations", 0.9},
	{"dividend", 0.6},
	{"expansion", 0.7},

	// bearish
	{"loss", -0.8},
	{"decline", -0.7},
	{"downside", -0.6},
	{"bearish", -0.9},
	{"underperform", -0.8},
	{"miss", -0.7},
	{"weak", -0.6},
	{"downgrade", -0.8},
	{"risk", -0.6},
	{"warning", -0.7},
	{"losses", -0.7},
	{"negative", -0.7},
	{"below expectations", -0.9},
	{"investigation", -0.8},
	{"contraction", -0.7},
}

// FinancialScore returns the occurrence-weighted mean polarity of the
// lexicon terms found in text, and the number of occurrences counted.
// With no matches it returns (0, 0).
func FinancialScore(text string) (float64, int) {
	lower := strings.ToLower(text)
	var weighted float64
	var matches int
	for _, ft := range financialLexicon {
		n := strings.Count(lower, ft.term)
		if n == 0 {
			continue
		}
		weighted += float64(n) * ft.polarity
		matches += n
	}
	if matches == 0 {
		return 0, 0
	}
	return weighted / float64(matches), matches
}
