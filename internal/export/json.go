package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
)

// jsonDocument is the top-level shape of the JSON output
type jsonDocument struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Count       int             `json:"count"`
	Records     []*model.Record `json:"records"`
}

// WriteJSON writes all records to path as a single indented document
func WriteJSON(path string, records []*model.Record) error {
	doc := jsonDocument{
		GeneratedAt: time.Now().UTC(),
		Count:       len(records),
		Records:     records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
