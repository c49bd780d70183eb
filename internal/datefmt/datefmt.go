// Package datefmt normalizes the date values clients send into the canonical
// YYYY-MM-DD form used for storage and range comparisons.
package datefmt

import (
	"regexp"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const Layout = "2006-01-02"

var (
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// A four digit year is required; time-only input would otherwise be
	// filled in with today's date.
	hasYear = regexp.MustCompile(`\d{4}`)
)

// lenient parses free-form date strings in UTC. The extra layouts cover what
// browsers and spreadsheets commonly produce.
var lenient = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: append([]string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		time.RFC1123,
		time.RFC1123Z,
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"January 2 2006",
		"2 Jan 2006",
		"2 January 2006",
		"Mon Jan 2 2006",
		"Mon, Jan 2, 2006",
		"01/02/2006",
		"2006/01/02",
	}, now.TimeFormats...),
}

// Normalize converts v into a YYYY-MM-DD string. It accepts strings,
// time.Time and *time.Time. The second result is false when v is absent,
// empty or cannot be parsed.
//
// Strings already in YYYY-MM-DD form are returned untouched so a calendar
// date is never shifted by a timezone conversion. Everything else is
// interpreted (in UTC when no offset is given) and reduced to its UTC date.
func Normalize(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return normalizeString(x)
	case *string:
		if x == nil {
			return "", false
		}
		return normalizeString(*x)
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.UTC().Format(Layout), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return "", false
		}
		return x.UTC().Format(Layout), true
	}
	return "", false
}

func normalizeString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if isoDate.MatchString(s) {
		return s, true
	}
	if !hasYear.MatchString(s) {
		return "", false
	}

	t, err := lenient.Parse(s)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(Layout), true
}

// Overlaps reports whether [start, end] intersects the inclusive window
// [from, to]. An empty end means open-ended. All values are YYYY-MM-DD.
func Overlaps(start, end, from, to string) bool {
	if start > to {
		return false
	}
	return end == "" || end >= from
}
