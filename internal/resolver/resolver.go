// Package resolver maps free text to the ticker symbols it mentions.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/internal/ner"
	"github.com/seenimoa/newspulse/internal/tickers"
	"github.com/seenimoa/newspulse/pkg/models"
	"github.com/seenimoa/newspulse/pkg/utils"
)

// Resolver combines exact symbol matching with organization-name matching
// against a ticker registry. It holds no mutable state and is safe for
// concurrent use when its recognizer is.
type Resolver struct {
	reg    *tickers.Registry
	orgs   ner.Recognizer
	logger arbor.ILogger

	symbols   []string
	companies []company // lowercased names, sorted for stable iteration
}

type company struct {
	lower  string
	symbol string
}

// New builds a Resolver. A nil recognizer disables organization matching.
func New(reg *tickers.Registry, orgs ner.Recognizer, logger arbor.ILogger) *Resolver {
	if orgs == nil {
		orgs = ner.Nop{}
	}
	r := &Resolver{
		reg:     reg,
		orgs:    orgs,
		logger:  logger,
		symbols: reg.Symbols(),
	}
	for name, sym := range reg.Companies() {
		r.companies = append(r.companies, company{lower: strings.ToLower(name), symbol: sym})
	}
	sort.Slice(r.companies, func(i, j int) bool { return r.companies[i].lower < r.companies[j].lower })
	return r
}

// Resolve returns the sorted set of symbols mentioned in text.
//
// A symbol matches when it appears as a standalone, case-sensitive token.
// Each organization span is then looked up as a company variant, falling
// back to every company whose name contains the span. Empty text yields an
// empty (nil) result.
func (r *Resolver) Resolve(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	found := make(map[string]struct{})

	for _, sym := range r.symbols {
		if utils.ContainsToken(text, sym) {
			found[sym] = struct{}{}
		}
	}

	variants := r.reg.CompanyVariants()
	for _, span := range r.organizations(text) {
		span = strings.ToLower(strings.TrimSpace(span))
		if span == "" {
			continue
		}
		if sym, ok := variants[span]; ok {
			found[sym] = struct{}{}
			continue
		}
		for _, c := range r.companies {
			if strings.Contains(c.lower, span) {
				found[c.symbol] = struct{}{}
			}
		}
	}

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for sym := range found {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// organizations calls the recognizer, treating a panic as "no organizations".
func (r *Resolver) organizations(text string) (spans []string) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &models.CollaboratorError{
				Collaborator: "ner",
				Item:         truncate(text, 60),
				Err:          fmt.Errorf("recognizer panic: %v", rec),
			}
			r.logger.Warn().Err(err).Msg("Organization recognition failed")
			spans = nil
		}
	}()
	return r.orgs.Organizations(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
