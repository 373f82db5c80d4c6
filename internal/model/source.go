package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FetchMode selects how a source's pages are retrieved
type FetchMode string

const (
	ModeStatic   FetchMode = "static"   // Plain HTTP GET
	ModeRendered FetchMode = "rendered" // Headless browser, script-rendered content
)

// StrategyKind identifies one way of locating candidate entries on a page
type StrategyKind string

const (
	StrategySelector     StrategyKind = "selector"      // CSS selector match
	StrategyClassPattern StrategyKind = "class_pattern" // class attribute regexp match
	StrategyMarker       StrategyKind = "marker"        // elements containing marker text
)

// Strategy is one candidate-locator rule. Strategies are tried in
// declaration order; the first that yields a non-trivial candidate wins.
type Strategy struct {
	Kind  StrategyKind `yaml:"kind" json:"kind"`
	Value string       `yaml:"value" json:"value"`
}

// Source configures one directory site for a pipeline run
type Source struct {
	Label         string     `yaml:"label" json:"label"`
	URL           string     `yaml:"url" json:"url"`
	Mode          FetchMode  `yaml:"mode" json:"mode"`
	Strategies    []Strategy `yaml:"strategies" json:"strategies"`
	PlaceKeywords []string   `yaml:"place_keywords" json:"place_keywords"`
	RoleKeywords  []string   `yaml:"role_keywords" json:"role_keywords"`
	StopWords     []string   `yaml:"stop_words" json:"stop_words"`
	CategoryTags  []string   `yaml:"category_tags" json:"category_tags"`

	// FollowDetails fetches each candidate's first same-site link as a
	// detail page and classifies it too (directory card -> company page).
	FollowDetails bool `yaml:"follow_details" json:"follow_details"`
	MaxDetails    int  `yaml:"max_details" json:"max_details"`

	// MinJoinYear drops entries whose best-effort join year is known and
	// earlier than this. 0 disables the filter. The year heuristic is
	// unreliable; entries with no detectable year are always kept.
	MinJoinYear int `yaml:"min_join_year" json:"min_join_year"`
}

// SourceFile is the on-disk YAML shape consumed by the run command
type SourceFile struct {
	Sources        []Source `yaml:"sources"`
	RegionKeywords []string `yaml:"region_keywords"`
}

// LoadSources reads and validates a source configuration file
func LoadSources(path string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var sf SourceFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if len(sf.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for i := range sf.Sources {
		src := &sf.Sources[i]
		if src.URL == "" {
			return nil, fmt.Errorf("source %d: url is required", i)
		}
		if src.Label == "" {
			src.Label = src.URL
		}
		if src.Mode == "" {
			src.Mode = ModeStatic
		}
		if src.Mode != ModeStatic && src.Mode != ModeRendered {
			return nil, fmt.Errorf("source %q: unknown mode %q", src.Label, src.Mode)
		}
		for _, st := range src.Strategies {
			switch st.Kind {
			case StrategySelector, StrategyClassPattern, StrategyMarker:
			default:
				return nil, fmt.Errorf("source %q: unknown strategy kind %q", src.Label, st.Kind)
			}
		}
		if src.RoleKeywords == nil {
			src.RoleKeywords = DefaultRoleKeywords()
		}
		if src.StopWords == nil {
			src.StopWords = DefaultStopWords()
		}
		if src.CategoryTags == nil {
			src.CategoryTags = DefaultCategoryTags()
		}
		if src.FollowDetails && src.MaxDetails <= 0 {
			src.MaxDetails = 25
		}
	}

	return &sf, nil
}

// DefaultRoleKeywords returns the role substrings used when a source
// does not configure its own
func DefaultRoleKeywords() []string {
	return []string{"founder", "co-founder", "ceo", "president", "owner", "director"}
}

// DefaultStopWords returns line values skipped outright during classification
func DefaultStopWords() []string {
	return []string{"current", "alumni", "acquired", "visit company", "our team"}
}

// DefaultCategoryTags returns tag tokens rejected as organization names
func DefaultCategoryTags() []string {
	return []string{"b2b", "b2c", "saas", "ai", "fintech", "healthtech", "edtech"}
}
