package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rmaksimov/founderscout/internal/fetch"
	"github.com/rmaksimov/founderscout/internal/model"
)

// EnrichFromDetail fills a record's gaps from its detail page: contact
// channels from the page's links, location and people from its text,
// and the join year when the card itself had none. Fields already set
// on the record always win.
func (c *Classifier) EnrichFromDetail(record *model.Record, page *fetch.Page) {
	base, _ := url.Parse(page.FinalURL)

	page.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		c.classifyContact(record, resolveHref(base, href))
	})

	for _, line := range splitLines(page.Text) {
		lower := strings.ToLower(line)
		if c.stopWords[lower] {
			continue
		}
		if record.Location == "" && containsAny(lower, c.placeKeywords) != "" {
			record.Location = line
			continue
		}
		if matched := containsAny(lower, c.roleKeywords); matched != "" &&
			len(line) < maxOrgLen && !containsPerson(record, line) {
			record.PersonNames = append(record.PersonNames, line)
			record.SetRole(line, matched)
		}
	}

	if record.JoinYear == 0 {
		record.JoinYear = ExtractJoinYear(page.Text)
	}
}

func containsPerson(record *model.Record, line string) bool {
	for _, name := range record.PersonNames {
		if name == line {
			return true
		}
	}
	return false
}
