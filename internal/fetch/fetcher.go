package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Fetcher retrieves a directory or detail page. Implementations:
// StaticFetcher (plain HTTP) and RenderedFetcher (headless browser).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
	Close() error
}

// Page is the opaque structured document handed to the locator: a
// parsed DOM plus the page's visible text, one line per block element.
type Page struct {
	Doc      *goquery.Document
	Text     string
	FinalURL string
	Meta     Meta
}

// Meta carries HTTP metadata for the fetch
type Meta struct {
	StatusCode  int
	ContentType string
	FromCache   bool
	Rendered    bool
}

// ErrorKind classifies a FetchError
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"     // Connection/DNS failure
	KindStatus      ErrorKind = "status"      // Non-2xx HTTP status
	KindTimeout     ErrorKind = "timeout"     // Deadline exceeded
	KindNavigation  ErrorKind = "navigation"  // Browser navigation failure
	KindRobots      ErrorKind = "robots"      // Disallowed by robots.txt
	KindUnavailable ErrorKind = "unavailable" // Fetcher itself cannot operate (fatal for the run)
)

// FetchError is the error type for failed page retrievals. A FetchError
// on one source aborts only that source; KindUnavailable aborts the run.
type FetchError struct {
	URL  string
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error means no further fetching is
// possible at all (e.g. the browser engine failed to start).
func IsFatal(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindUnavailable
}

// NewPage parses raw HTML into a Page
func NewPage(rawHTML, finalURL string, meta Meta) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := ""
	if root := doc.Get(0); root != nil {
		text = VisibleText(root)
	}

	return &Page{
		Doc:      doc,
		Text:     text,
		FinalURL: finalURL,
		Meta:     meta,
	}, nil
}

// blockTags are elements that terminate a visible text line
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true, "td": true, "th": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true,
	"main": true, "aside": true, "figcaption": true, "blockquote": true,
}

// VisibleText extracts the visible text of a node tree, one line per
// block-level element, skipping scripts and styles. This is the text
// form both the line-scan fallback and the classifier operate on.
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}
