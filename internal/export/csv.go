package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
)

// csvHeader is the stable column order of the CSV output
var csvHeader = []string{
	"organization",
	"person_names",
	"roles",
	"location",
	"email",
	"linkedin",
	"twitter",
	"website",
	"join_year",
	"source",
	"captured_at",
}

// WriteCSV writes all records to path, overwriting any existing file
func WriteCSV(path string, records []*model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		joinYear := ""
		if r.JoinYear != 0 {
			joinYear = strconv.Itoa(r.JoinYear)
		}
		row := []string{
			r.OrganizationName,
			JoinMulti(r.PersonNames),
			rolesSummary(r),
			r.Location,
			r.ContactChannels[model.ChannelEmail],
			r.ContactChannels[model.ChannelLinkedIn],
			r.ContactChannels[model.ChannelTwitter],
			r.ContactChannels[model.ChannelWebsite],
			joinYear,
			r.SourceLabel,
			r.CapturedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
