package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
)

// WriteText writes a human-readable report, one block per record
func WriteText(path string, records []*model.Record) error {
	var b strings.Builder

	b.WriteString("Founder directory report\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Records: %d\n", len(records))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, r := range records {
		name := r.OrganizationName
		if name == "" {
			name = "(unknown organization)"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)

		if len(r.PersonNames) > 0 {
			fmt.Fprintf(&b, "   People:   %s\n", JoinMulti(r.PersonNames))
		}
		if roles := rolesSummary(r); roles != "" {
			fmt.Fprintf(&b, "   Roles:    %s\n", roles)
		}
		if r.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", r.Location)
		}
		for _, kind := range model.ChannelKinds {
			if url, ok := r.ContactChannels[kind]; ok {
				fmt.Fprintf(&b, "   %-9s %s\n", titleKind(kind)+":", url)
			}
		}
		if r.JoinYear != 0 {
			fmt.Fprintf(&b, "   Joined:   %d\n", r.JoinYear)
		}
		fmt.Fprintf(&b, "   Source:   %s\n", r.SourceLabel)

		for _, cv := range r.Validation {
			status := "dead"
			if cv.IsAccessible {
				status = "ok"
			}
			fmt.Fprintf(&b, "   Check:    %s %s (%s)\n", cv.Kind, cv.URL, status)
		}

		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func titleKind(kind model.ChannelKind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
