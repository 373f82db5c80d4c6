package extract

import (
	"regexp"
	"strconv"
	"time"
)

// Join-year detection scans free page text for a 4-digit year near
// joining-related keywords. It is a best-effort, low-confidence
// heuristic: directory pages rarely state the year in a stable form,
// so callers must treat 0 (unknown) as "keep the entry".

var joinYearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)year\s+joined[:\s]+(\d{4})`),
	regexp.MustCompile(`(?i)joined[:\s]+(\d{4})`),
	regexp.MustCompile(`(?i)since[:\s]+(\d{4})`),
	regexp.MustCompile(`(?i)cohort[:\s]+(\d{4})`),
	regexp.MustCompile(`(?i)(\d{4})[:\s]*(?:joined|cohort|program)`),
}

var anyRecentYear = regexp.MustCompile(`\b(20\d{2})\b`)

// ExtractJoinYear returns the first plausible join year found in text,
// or 0 when none is detectable.
func ExtractJoinYear(text string) int {
	maxYear := time.Now().Year() + 1

	for _, pattern := range joinYearPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if year := parseYear(match[1], maxYear); year != 0 {
				return year
			}
		}
	}

	// Fallback: the earliest recent year mentioned anywhere. Weak
	// signal, but directory pages list little else in 20xx form.
	best := 0
	for _, match := range anyRecentYear.FindAllStringSubmatch(text, -1) {
		year := parseYear(match[1], maxYear)
		if year != 0 && (best == 0 || year < best) {
			best = year
		}
	}
	return best
}

func parseYear(s string, maxYear int) int {
	year, err := strconv.Atoi(s)
	if err != nil || year < 2000 || year > maxYear {
		return 0
	}
	return year
}
