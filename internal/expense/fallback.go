// fallback.go - Deterministic regex extraction used when no AI is available

package expense

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDescription is used when no description pattern matches.
const DefaultDescription = "Processed Receipt"

// Each field is resolved by an ordered list of independent matchers; the
// first one that yields a value wins. A miss on one field never affects the
// others.
var (
	amountMatchers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:total|amount|rs\.?|inr)\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)(?:payment|paid)\s*:?\s*([\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)\b([\d,]+\.\d{2})\s*(?:rs|inr)?\b`),
	}

	dateMatchers = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
		regexp.MustCompile(`(?i)(?:date|on)\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	}

	descriptionMatchers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:at|from|store|vendor)\b\s*:?\s*([^\n]{5,50})`),
		regexp.MustCompile(`(?i)\b(?:description|item)\b\s*:?\s*([^\n]{5,50})`),
		regexp.MustCompile(`^([^\n]{10,50})(?:\n|$)`),
	}
)

// Numeric dates of ambiguous day/month order are tried day-first, then
// month-first, matching how most receipts in the target locale print dates.
var fallbackDateFormats = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"1/2/2006",
	"1-2-2006",
	"2/1/06",
	"2-1-06",
	"1/2/06",
	"1-2-06",
}

// FallbackExtract applies local pattern heuristics to receipt text. It is
// purely local and deterministic, used both when no AI credential exists and
// as the degradation path for any remote failure.
func FallbackExtract(text string) Data {
	data := Data{Category: MatchCategory(text)}

	if amount, ok := fallbackAmount(text); ok {
		data.Amount = &amount
	}

	// Unlike the remote path, the fallback guarantees a non-absent date:
	// no recognizable date defaults to the current processing date.
	date := fallbackDate(text)
	data.Date = &date

	description := fallbackDescription(text)
	data.Description = &description

	return data
}

func fallbackAmount(text string) (float64, bool) {
	for _, re := range amountMatchers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			return amount, true
		}
	}
	return 0, false
}

func fallbackDate(text string) string {
	for _, re := range dateMatchers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// Re-parse as a calendar date; an unparseable match silently
		// falls through to the next pattern.
		if parsed, ok := parseCalendarDate(m[1]); ok {
			return parsed
		}
	}
	return time.Now().Format("2006-01-02")
}

func parseCalendarDate(raw string) (string, bool) {
	for _, layout := range fallbackDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func fallbackDescription(text string) string {
	for _, re := range descriptionMatchers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		description := strings.TrimSpace(m[1])
		if description != "" {
			return truncate(description, maxDescriptionLength)
		}
	}
	return DefaultDescription
}

// truncate limits s to max characters, never splitting a multibyte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
