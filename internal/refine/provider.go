// Package refine turns raw role lines ("Jane Doe, Co-Founder & CEO of
// Acme") into clean person names. The pipeline stores raw line text by
// default; refinement is an optional post-step and never a requirement
// for a record to exist.
package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmaksimov/founderscout/internal/model"
)

// Name is one extracted person with a best-effort role label
type Name struct {
	Person string
	Role   string
}

// Provider extracts person names from one raw role line
type Provider interface {
	Name() string
	ExtractNames(ctx context.Context, line string) ([]Name, error)
}

// NewProvider builds a provider from configuration. An empty provider
// name disables refinement (nil, nil).
func NewProvider(cfg model.RefineConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "pattern":
		return NewPatternProvider(), nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown refine provider %q", cfg.Provider)
	}
}

// Apply refines every record in place. A provider failure on one line
// leaves that line as-is; refinement never drops a record.
func Apply(ctx context.Context, provider Provider, records []*model.Record) {
	if provider == nil {
		return
	}

	for _, record := range records {
		refined := make([]string, 0, len(record.PersonNames))
		seen := make(map[string]bool)

		for _, line := range record.PersonNames {
			names, err := provider.ExtractNames(ctx, line)
			if err != nil || len(names) == 0 {
				if !seen[line] {
					seen[line] = true
					refined = append(refined, line)
				}
				continue
			}
			for _, n := range names {
				if seen[n.Person] {
					continue
				}
				seen[n.Person] = true
				refined = append(refined, n.Person)
				record.SetRole(n.Person, n.Role)
			}
		}

		record.PersonNames = refined
	}
}

// roleLabel returns the first role keyword present in a line,
// lowercased, or "" when none is found
func roleLabel(line string) string {
	lower := strings.ToLower(line)
	for _, kw := range model.DefaultRoleKeywords() {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
