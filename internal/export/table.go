package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rmaksimov/founderscout/internal/model"
)

// PrintSummary renders a terminal table of the result set
func PrintSummary(w io.Writer, records []*model.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Organization", "People", "Location", "Contacts", "Source"})
	for i, r := range records {
		org := r.OrganizationName
		if org == "" {
			org = "(unknown)"
		}
		t.AppendRow(table.Row{
			i + 1,
			truncate(org, 32),
			truncate(JoinMulti(r.PersonNames), 40),
			truncate(r.Location, 24),
			len(r.ContactChannels),
			r.SourceLabel,
		})
	}
	t.AppendFooter(table.Row{"", "Total", len(records), "", "", ""})

	t.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
