// Package ner finds organization mentions in free text.
//
// Recognizer is the collaborator consumed by the ticker resolver. Heuristic is
// a dependency-free recognizer based on capitalized word runs; Nop disables
// organization matching entirely.
package ner

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Recognizer returns the organization-labeled spans found in text.
// Implementations must not panic on arbitrary input and may return nil.
type Recognizer interface {
	Organizations(text string) []string
}

// Nop finds no organizations.
type Nop struct{}

// Organizations always returns nil.
func (Nop) Organizations(string) []string { return nil }

// Func adapts a plain function to the Recognizer interface.
type Func func(text string) []string

// Organizations calls f(text).
func (f Func) Organizations(text string) []string { return f(text) }

// ════════════════════════════════════════════════════════════════════
// Heuristic recognizer
// ════════════════════════════════════════════════════════════════════

// minSpanLen filters out spans too short to be a useful company mention.
const minSpanLen = 3

// corporateTokens keep their trailing period ("Inc.") without ending the run.
var corporateTokens = map[string]bool{
	"inc": true, "corp": true, "co": true, "ltd": true, "llc": true,
	"plc": true, "corporation": true, "company": true, "limited": true,
}

// stopwords are capitalized words that start sentences or headlines far more
// often than they name a company. They are never emitted on their own and are
// trimmed from the edges of a run.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "of": true, "in": true,
	"on": true, "at": true, "for": true, "to": true, "by": true, "with": true,
	"as": true, "is": true, "it": true, "its": true, "this": true, "that": true,
	"why": true, "how": true, "what": true, "when": true, "who": true,
	"after": true, "before": true, "over": true, "amid": true, "from": true,
	"shares": true, "stock": true, "stocks": true, "market": true,
	"markets": true, "update": true, "breaking": true, "exclusive": true,
	"analysis": true, "report": true, "reports": true, "news": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"inc": true, "corp": true, "co": true, "ltd": true, "llc": true,
	"plc": true, "corporation": true, "company": true, "limited": true,
	"group": true, "holdings": true,
}

// Heuristic treats runs of capitalized words as organization candidates.
// "&" may join words inside a run ("Procter & Gamble"). A run is split at
// capitalized stopwords, so "Tesla Shares Rally" yields "Tesla" and "Rally".
//
// A lone capitalized word that opens a sentence is dropped unless its
// lowercase form is a key of Known, since title-cased headlines and
// sentence starts would otherwise read as company names.
type Heuristic struct {
	Known map[string]string // lowercase company variants, e.g. tickers.Registry.CompanyVariants()
}

// Organizations returns the candidate spans in first-seen order, de-duplicated.
func (h Heuristic) Organizations(text string) []string {
	var (
		out        []string
		seen       = make(map[string]bool)
		run        []string
		runInitial bool // run began a sentence
		sentence   = true
	)
	emit := func(words []string, initial bool) {
		words = trimRun(words)
		if len(words) == 0 {
			return
		}
		span := strings.Join(words, " ")
		if utf8.RuneCountInString(span) < minSpanLen || seen[span] || isStopword(span) {
			return
		}
		if initial && len(words) == 1 {
			if _, ok := h.Known[strings.ToLower(span)]; !ok {
				return
			}
		}
		seen[span] = true
		out = append(out, span)
	}
	flush := func() {
		initial := runInitial
		segStart := 0
		for i, w := range run {
			if w != "&" && isStopword(w) && !corporateTokens[strings.ToLower(strings.TrimRight(w, "."))] {
				emit(run[segStart:i], initial && onlyStopwords(run[:segStart]))
				segStart = i + 1
			}
		}
		emit(run[segStart:], initial && onlyStopwords(run[:segStart]))
		run = run[:0]
	}

	for _, raw := range strings.Fields(text) {
		word, closes := cleanToken(raw)
		starts := sentence
		sentence = endsSentence(raw, word)
		switch {
		case word == "&" && len(run) > 0:
			run = append(run, word)
		case isCapitalized(word):
			if len(run) == 0 {
				runInitial = starts
			}
			run = append(run, word)
		default:
			flush()
			continue
		}
		if closes {
			flush()
		}
	}
	flush()
	return out
}

// endsSentence reports whether raw closes a sentence. A period kept on a
// corporate designator ("Inc.") does not.
func endsSentence(raw, word string) bool {
	t := strings.TrimRight(raw, "\"')]")
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '!', '?':
		return true
	case '.':
		return !strings.HasSuffix(word, ".")
	}
	return false
}

func onlyStopwords(words []string) bool {
	for _, w := range words {
		if w != "&" && !isStopword(w) {
			return false
		}
	}
	return true
}

// cleanToken strips surrounding punctuation and reports whether the raw token
// ended a clause (comma, colon, sentence terminator). Trailing periods on
// corporate designators like "Inc." are kept and do not close the run.
func cleanToken(raw string) (string, bool) {
	closes := false
	if r, _ := utf8.DecodeLastRuneInString(raw); strings.ContainsRune(",;:!?\"')]", r) {
		closes = true
	}
	word := strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '&' && r != '.'
	})
	word = strings.TrimLeft(word, ".")
	if strings.HasSuffix(word, ".") {
		base := strings.TrimRight(word, ".")
		if corporateTokens[strings.ToLower(base)] {
			return word, closes
		}
		// "Amazon.com" keeps its inner dot; a trailing one ends the sentence.
		return base, true
	}
	return word, closes
}

func isStopword(word string) bool {
	return stopwords[strings.ToLower(strings.TrimRight(word, "."))]
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

// trimRun drops leading stopwords and a dangling "&" from either end.
func trimRun(run []string) []string {
	start, end := 0, len(run)
	for start < end && (run[start] == "&" || isStopword(run[start])) {
		start++
	}
	for end > start && run[end-1] == "&" {
		end--
	}
	return run[start:end]
}
