package extract

import (
	"net/url"
	"strings"

	"github.com/rmaksimov/founderscout/internal/model"
)

// Link is a hyperlink found inside a candidate element, href already
// resolved against the page URL.
type Link struct {
	Href string
	Text string
}

// Candidate is one page element provisionally identified as a single
// organization/person entry. It is a transient view: owned by one
// locate-classify pass and discarded afterwards.
type Candidate struct {
	Lines []string // Trimmed, non-empty visible text lines
	Links []Link
	// Fallback marks candidates derived from the full-page line scan
	// rather than a structural element.
	Fallback bool
}

// TextLength returns the total visible text length, used for the
// non-trivial threshold check.
func (c Candidate) TextLength() int {
	n := 0
	for _, line := range c.Lines {
		n += len(line)
	}
	return n
}

// DetailHref returns the first same-host link of the candidate, the
// one followed when a source enables detail pages. Contact-channel
// hosts are never detail pages.
func (c Candidate) DetailHref(pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	for _, link := range c.Links {
		parsed, err := url.Parse(link.Href)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			continue
		}
		if parsed.Host != base.Host {
			continue
		}
		if parsed.Path == "" || parsed.Path == "/" || parsed.String() == pageURL {
			continue
		}
		return parsed.String()
	}
	return ""
}

// splitLines decomposes visible text into trimmed non-empty lines with
// whitespace runs collapsed, the form every classifier rule matches on.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = model.CollapseWhitespace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
