// Package export renders the final result set to files and to the
// terminal. Every writer overwrites its target in full; incremental
// flushes after each source simply rewrite the files with the set so
// far, so a crash mid-run loses at most the current source.
package export

import (
	"fmt"
	"strings"

	"github.com/rmaksimov/founderscout/internal/model"
)

// multiSeparator joins multi-valued fields in flat formats
const multiSeparator = "; "

// JoinMulti flattens a multi-valued field for CSV and text output
func JoinMulti(values []string) string {
	return strings.Join(values, multiSeparator)
}

// SplitMulti reverses JoinMulti
func SplitMulti(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, multiSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Flush writes the records to every configured output target
func Flush(cfg model.OutputConfig, records []*model.Record) error {
	if cfg.CSVPath != "" {
		if err := WriteCSV(cfg.CSVPath, records); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if cfg.JSONPath != "" {
		if err := WriteJSON(cfg.JSONPath, records); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if cfg.TextPath != "" {
		if err := WriteText(cfg.TextPath, records); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}

// rolesSummary flattens the role map into "person (role)" pairs in
// person-name order within the record
func rolesSummary(r *model.Record) string {
	if len(r.Roles) == 0 {
		return ""
	}
	var parts []string
	for _, person := range r.PersonNames {
		if role, ok := r.Roles[person]; ok {
			parts = append(parts, fmt.Sprintf("%s (%s)", person, role))
		}
	}
	return JoinMulti(parts)
}
