package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
)

const (
	// minOrgLen / maxOrgLen bound organization-name lines: too short is
	// noise, too long is paragraph text.
	minOrgLen = 2
	maxOrgLen = 100
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|mailto:)[^\s<>"']+`)

// Classifier assigns a candidate's text lines to semantic fields using
// the source's keyword tables. All rule tables are data, not code: the
// same classifier serves every site.
type Classifier struct {
	sourceLabel   string
	placeKeywords []string
	roleKeywords  []string
	stopWords     map[string]bool
	categoryTags  map[string]bool
	now           func() time.Time
}

// NewClassifier builds a classifier from one source's rule tables
func NewClassifier(src model.Source) *Classifier {
	c := &Classifier{
		sourceLabel:  src.Label,
		stopWords:    make(map[string]bool),
		categoryTags: make(map[string]bool),
		now:          time.Now,
	}

	for _, kw := range src.PlaceKeywords {
		c.placeKeywords = append(c.placeKeywords, strings.ToLower(kw))
	}
	for _, kw := range src.RoleKeywords {
		c.roleKeywords = append(c.roleKeywords, strings.ToLower(kw))
	}
	for _, w := range src.StopWords {
		c.stopWords[strings.ToLower(w)] = true
	}
	for _, tag := range src.CategoryTags {
		c.categoryTags[strings.ToLower(tag)] = true
	}

	return c
}

// Classify runs the ordered per-line rules over one candidate and
// returns at most one Record. ok is false when the candidate yields no
// identifying information (a skip, not an error).
func (c *Classifier) Classify(cand Candidate) (*model.Record, bool) {
	record := &model.Record{
		SourceLabel: c.sourceLabel,
		CapturedAt:  c.now().UTC(),
	}

	for _, line := range cand.Lines {
		lower := strings.ToLower(line)

		// Stop words skip the line entirely
		if c.stopWords[lower] {
			continue
		}

		// Rule 1: organization name. Assigned once, first match wins.
		if record.OrganizationName == "" &&
			len(line) > minOrgLen && len(line) < maxOrgLen &&
			!c.categoryTags[lower] {
			record.OrganizationName = line
			continue
		}

		// Rule 2: location, first match wins
		if record.Location == "" {
			if matched := containsAny(lower, c.placeKeywords); matched != "" {
				record.Location = line
				continue
			}
		}

		// Rule 3: person/role. Every matching line is collected; the
		// raw line text is the accepted field value.
		if matched := containsAny(lower, c.roleKeywords); matched != "" {
			record.PersonNames = append(record.PersonNames, line)
			record.SetRole(line, matched)
		}
	}

	// Rule 4: contact channels, independent of line classification
	for _, link := range cand.Links {
		c.classifyContact(record, link.Href)
	}
	for _, line := range cand.Lines {
		for _, raw := range urlPattern.FindAllString(line, -1) {
			c.classifyContact(record, raw)
		}
	}

	if !record.HasIdentity() {
		return nil, false
	}

	return record, true
}

// classifyContact buckets one URL into a channel kind. First found
// wins per kind; later matches of the same kind are dropped.
func (c *Classifier) classifyContact(record *model.Record, raw string) {
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, "mailto:"):
		record.SetContact(model.ChannelEmail, strings.TrimPrefix(raw, "mailto:"))
	case !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://"):
		// Relative or non-web URL: not a contact channel
	case hostContains(lower, "linkedin.com"):
		record.SetContact(model.ChannelLinkedIn, raw)
	case hostContains(lower, "twitter.com") || hostContains(lower, "x.com"):
		record.SetContact(model.ChannelTwitter, raw)
	default:
		record.SetContact(model.ChannelWebsite, raw)
	}
}

// containsAny returns the first keyword found as a substring of s
func containsAny(s string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return kw
		}
	}
	return ""
}

// hostContains reports whether the URL's host part contains needle
func hostContains(lowerURL, needle string) bool {
	rest := lowerURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	host := rest
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		host = rest[:i]
	}
	return strings.Contains(host, needle)
}
