package extract

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rmaksimov/founderscout/internal/fetch"
	"github.com/rmaksimov/founderscout/internal/model"
	"golang.org/x/net/html"
)

// ErrNoCandidates is returned when no locator strategy produced a
// candidate. The pipeline then switches to the line-scan fallback; it
// is not a run failure.
var ErrNoCandidates = errors.New("no locator strategy produced candidates")

const (
	// minCandidateText is the non-trivial threshold: a structural match
	// must hold strictly more visible text than this after trimming,
	// which filters out icons, badges and empty containers.
	minCandidateText = 20

	// fallbackWindow is how many lines after a plausible name line the
	// fallback scan hands to the classifier.
	fallbackWindow = 10
)

// Locator derives candidate entries from a fetched page. Strategies
// are tried in priority order; the first one that yields a non-trivial
// candidate wins for the page, so overlapping generic selectors never
// double-count.
type Locator struct {
	strategies []model.Strategy
	minText    int
}

// NewLocator creates a locator with the source's strategy list
func NewLocator(strategies []model.Strategy) *Locator {
	return &Locator{strategies: strategies, minText: minCandidateText}
}

// Candidates produces the page's candidate set. The slice is finite
// and derived once; re-deriving requires a fresh fetch.
func (l *Locator) Candidates(page *fetch.Page) ([]Candidate, error) {
	for _, strategy := range l.strategies {
		sel, err := l.apply(page.Doc, strategy)
		if err != nil {
			return nil, fmt.Errorf("strategy %s(%q): %w", strategy.Kind, strategy.Value, err)
		}

		candidates := l.collect(sel, page.FinalURL)
		if len(candidates) > 0 {
			return candidates, nil
		}
	}

	return nil, ErrNoCandidates
}

// apply evaluates one strategy against the document
func (l *Locator) apply(doc *goquery.Document, strategy model.Strategy) (*goquery.Selection, error) {
	switch strategy.Kind {
	case model.StrategySelector:
		return doc.Find(strategy.Value), nil

	case model.StrategyClassPattern:
		pattern, err := regexp.Compile("(?i)" + strategy.Value)
		if err != nil {
			return nil, fmt.Errorf("compile class pattern: %w", err)
		}
		sel := doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return pattern.MatchString(class)
		})
		return dropNested(sel), nil

	case model.StrategyMarker:
		marker := strings.ToLower(strategy.Value)
		sel := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(ownText(s)), marker)
		})
		// The marker sits on a leaf ("Visit Company" button text); the
		// entry is its nearest enclosing container.
		var out *goquery.Selection
		sel.Each(func(_ int, s *goquery.Selection) {
			container := s.Closest("div, article, section, li")
			if container.Length() == 0 {
				container = s
			}
			if out == nil {
				out = container
			} else {
				out = out.AddSelection(container)
			}
		})
		if out == nil {
			return doc.Find("nothing-matches"), nil
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown strategy kind %q", strategy.Kind)
	}
}

// collect converts a selection into candidates, applying the
// non-trivial text threshold
func (l *Locator) collect(sel *goquery.Selection, pageURL string) []Candidate {
	base, _ := url.Parse(pageURL)

	var candidates []Candidate
	sel.Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node == nil {
			return
		}

		text := fetch.VisibleText(node)
		lines := splitLines(text)

		cand := Candidate{Lines: lines}
		if cand.TextLength() <= l.minText {
			return
		}

		links := s.Find("a[href]")
		if goquery.NodeName(s) == "a" {
			links = links.AddSelection(s)
		}
		links.Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			href = strings.TrimSpace(href)
			if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
				return
			}
			cand.Links = append(cand.Links, Link{
				Href: resolveHref(base, href),
				Text: model.CollapseWhitespace(a.Text()),
			})
		})

		candidates = append(candidates, cand)
	})

	return candidates
}

// FallbackCandidates implements the full-page line-scan mode used when
// every structural strategy came up empty: each plausible name line
// starts a window of whole-page lines handed to the classifier as one
// candidate.
func FallbackCandidates(page *fetch.Page) []Candidate {
	lines := splitLines(page.Text)

	var candidates []Candidate
	for i, line := range lines {
		if !plausibleNameLine(line) {
			continue
		}

		end := i + fallbackWindow
		if end > len(lines) {
			end = len(lines)
		}

		candidates = append(candidates, Candidate{
			Lines:    lines[i:end],
			Fallback: true,
		})
	}

	return candidates
}

// plausibleNameLine is the cheap pre-filter for the fallback scan
func plausibleNameLine(line string) bool {
	if len(line) <= 3 || len(line) >= 100 {
		return false
	}
	if strings.HasPrefix(line, "#") {
		return false
	}
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// resolveHref resolves a possibly relative href against the page URL
func resolveHref(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

// ownText returns the text of a selection's direct text-node children
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, node := range s.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// dropNested removes selections fully contained in another selected
// element, so a generic class pattern does not yield both a grid and
// every card inside it.
func dropNested(sel *goquery.Selection) *goquery.Selection {
	selected := make(map[*html.Node]bool, len(sel.Nodes))
	for _, n := range sel.Nodes {
		selected[n] = true
	}

	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		node := s.Get(0)
		if node == nil {
			return false
		}
		for p := node.Parent; p != nil; p = p.Parent {
			if selected[p] {
				return false
			}
		}
		return true
	})
}
