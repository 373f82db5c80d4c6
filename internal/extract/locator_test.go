package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/rmaksimov/founderscout/internal/fetch"
	"github.com/rmaksimov/founderscout/internal/model"
)

func mustPage(t *testing.T, raw, url string) *fetch.Page {
	t.Helper()
	page, err := fetch.NewPage(raw, url, fetch.Meta{})
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return page
}

const directoryHTML = `
<html><body>
<div class="grid">
	<div class="company-card">
		<h3>Acme Robotics</h3>
		<p>Waterloo, ON</p>
		<p>Jane Doe, Co-Founder &amp; CEO</p>
		<a href="/company/acme">Visit Company</a>
	</div>
	<div class="company-card">
		<h3>Brightloop Analytics</h3>
		<p>Kitchener, ON</p>
		<a href="https://www.linkedin.com/company/brightloop">LinkedIn</a>
	</div>
	<div class="company-card"><span>★</span></div>
</div>
</body></html>`

func TestLocator_SelectorStrategy(t *testing.T) {
	page := mustPage(t, directoryHTML, "https://directory.example/companies")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategySelector, Value: "div.company-card"},
	})

	candidates, err := locator.Candidates(page)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}

	// The near-empty third card fails the text threshold
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Lines[0] != "Acme Robotics" {
		t.Errorf("first candidate: got %v", candidates[0].Lines)
	}

	// Relative hrefs resolve against the page URL
	found := false
	for _, link := range candidates[0].Links {
		if link.Href == "https://directory.example/company/acme" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected resolved detail link, got %v", candidates[0].Links)
	}
}

func TestLocator_FirstStrategyWins(t *testing.T) {
	page := mustPage(t, directoryHTML, "https://directory.example/companies")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategySelector, Value: "div.company-card"},
		{Kind: model.StrategySelector, Value: "div.grid"}, // would match the whole grid
	})

	candidates, err := locator.Candidates(page)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("lower-priority strategy must not add candidates, got %d", len(candidates))
	}
}

func TestLocator_ClassPatternStrategy(t *testing.T) {
	page := mustPage(t, directoryHTML, "https://directory.example/companies")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategyClassPattern, Value: "company|startup|card"},
	})

	candidates, err := locator.Candidates(page)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestLocator_ClassPatternDropsNestedMatches(t *testing.T) {
	raw := `
	<html><body>
	<div class="startup-list">
		<div class="startup">Acme Robotics, Waterloo ON, founded by Jane Doe</div>
	</div>
	</body></html>`
	page := mustPage(t, raw, "https://directory.example")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategyClassPattern, Value: "startup"},
	})

	candidates, err := locator.Candidates(page)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	// Both the list and the card match the pattern; only the outermost
	// should survive to avoid double-counting.
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestLocator_MarkerStrategy(t *testing.T) {
	page := mustPage(t, directoryHTML, "https://directory.example/companies")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategyMarker, Value: "Visit Company"},
	})

	candidates, err := locator.Candidates(page)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	joined := strings.Join(candidates[0].Lines, "\n")
	if !strings.Contains(joined, "Acme Robotics") {
		t.Errorf("marker candidate should include the enclosing card, got %v", candidates[0].Lines)
	}
}

func TestLocator_Exhausted(t *testing.T) {
	page := mustPage(t, `<html><body><p>nothing here</p></body></html>`, "https://directory.example")
	locator := NewLocator([]model.Strategy{
		{Kind: model.StrategySelector, Value: "div.company-card"},
	})

	_, err := locator.Candidates(page)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestFallbackCandidates(t *testing.T) {
	raw := `<html><body>
	<p>Acme Robotics</p>
	<p>Waterloo, ON</p>
	<p># skipped heading marker</p>
	<p>ok</p>
	</body></html>`
	page := mustPage(t, raw, "https://directory.example")

	candidates := FallbackCandidates(page)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 fallback candidates, got %d", len(candidates))
	}
	for _, cand := range candidates {
		if !cand.Fallback {
			t.Error("fallback candidates must be marked")
		}
	}
	if candidates[0].Lines[0] != "Acme Robotics" {
		t.Errorf("window should start at the name line, got %v", candidates[0].Lines)
	}
	if len(candidates[0].Lines) < 2 || candidates[0].Lines[1] != "Waterloo, ON" {
		t.Errorf("window should include following lines, got %v", candidates[0].Lines)
	}
}

func TestCandidate_DetailHref(t *testing.T) {
	cand := Candidate{Links: []Link{
		{Href: "https://www.linkedin.com/company/acme"},
		{Href: "https://directory.example/company/acme"},
	}}

	got := cand.DetailHref("https://directory.example/companies")
	if got != "https://directory.example/company/acme" {
		t.Errorf("expected same-host detail link, got %q", got)
	}
}
