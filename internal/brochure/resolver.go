package brochure

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrUnrecognized is matched by every resolver failure
var ErrUnrecognized = errors.New("unrecognized date range")

var (
	ErrNoPattern     = fmt.Errorf("%w: no known pattern", ErrUnrecognized)
	ErrInvalidDate   = fmt.Errorf("%w: invalid calendar date", ErrUnrecognized)
	ErrUnknownMonth  = fmt.Errorf("%w: unknown month name", ErrUnrecognized)
	ErrInvertedRange = fmt.Errorf("%w: start is after end", ErrUnrecognized)
)

// RecognitionError reports text that could not be turned into a DateRange.
// Text is the input exactly as received.
type RecognitionError struct {
	Text    string
	Pattern string // name of the matching pattern, empty when none matched
	Err     error
}

func (e *RecognitionError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("parsing date range %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("parsing date range %q (%s): %v", e.Text, e.Pattern, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// dateParts holds the raw numeric components pulled out of a match
type dateParts struct {
	startDay, startMonth, startYear int
	endDay, endMonth, endYear       int
}

// Pattern is one recognised date-range layout
type Pattern struct {
	Name    string
	re      *regexp.Regexp
	extract func(groups []string) (dateParts, error)
}

const (
	// ws also covers no-break spaces, which HTML "&nbsp;" decodes to
	ws = `[\s\p{Zs}]*`
	// dash accepts "-", en dash and em dash
	dash = ws + `[-\x{2013}\x{2014}]` + ws
)

// patterns are tried in order; later ones are more permissive
var patterns = []Pattern{
	{
		Name:    "full-numeric",
		re:      regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})` + dash + `(\d{2})\.(\d{2})\.(\d{4})`),
		extract: extractFullNumeric,
	},
	{
		Name:    "partial-numeric",
		re:      regexp.MustCompile(`(\d{2})\.(\d{2})` + dash + `(\d{2})\.(\d{2})\.(\d{4})`),
		extract: extractPartialNumeric,
	},
	{
		Name:    "named-month",
		re:      regexp.MustCompile(`([A-Za-z]+)` + ws + `(\d{1,2}),` + ws + `(\d{4})` + dash + `([A-Za-z]+)` + ws + `(\d{1,2}),` + ws + `(\d{4})`),
		extract: extractNamedMonth,
	},
}

// Patterns returns the recognised layouts in the order they are tried
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// Matches reports whether text contains this layout
func (p Pattern) Matches(text string) bool {
	return p.re.MatchString(text)
}

// monthNames maps full English month names to months. Lookup is case-sensitive.
var monthNames = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for month := time.January; month <= time.December; month++ {
		m[month.String()] = month
	}
	return m
}()

// Resolver converts validity text into date ranges in a fixed location
type Resolver struct {
	loc *time.Location
}

// NewResolver creates a Resolver building dates in loc.
// A nil loc means time.Local.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{loc: loc}
}

// Location returns the location dates are built in
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve parses text into a DateRange.
// Failures are always *RecognitionError and match ErrUnrecognized.
func (r *Resolver) Resolve(text string) (DateRange, error) {
	dr, _, err := r.Match(text)
	return dr, err
}

// Match is Resolve that also returns the name of the pattern that recognised text
func (r *Resolver) Match(text string) (DateRange, string, error) {
	for _, p := range patterns {
		groups := p.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		// First matching pattern decides, even if its components are invalid
		dr, err := r.build(groups[1:], p)
		if err != nil {
			return DateRange{}, p.Name, &RecognitionError{Text: text, Pattern: p.Name, Err: err}
		}
		return dr, p.Name, nil
	}

	return DateRange{}, "", &RecognitionError{Text: text, Err: ErrNoPattern}
}

func (r *Resolver) build(groups []string, p Pattern) (DateRange, error) {
	parts, err := p.extract(groups)
	if err != nil {
		return DateRange{}, err
	}

	start, err := calendarDate(parts.startYear, parts.startMonth, parts.startDay, r.loc)
	if err != nil {
		return DateRange{}, err
	}
	end, err := calendarDate(parts.endYear, parts.endMonth, parts.endDay, r.loc)
	if err != nil {
		return DateRange{}, err
	}

	return NewDateRange(start, end)
}

// calendarDate returns midnight of the given day, rejecting dates that
// time.Date would silently normalise (31.02 becoming 03.03)
func calendarDate(year, month, day int, loc *time.Location) (time.Time, error) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// atoi converts every group, in order
func atoi(groups ...string) ([]int, error) {
	out := make([]int, len(groups))
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, ErrInvalidDate
		}
		out[i] = n
	}
	return out, nil
}

// DD.MM.YYYY - DD.MM.YYYY
func extractFullNumeric(g []string) (dateParts, error) {
	n, err := atoi(g...)
	if err != nil {
		return dateParts{}, err
	}
	return dateParts{
		startDay: n[0], startMonth: n[1], startYear: n[2],
		endDay: n[3], endMonth: n[4], endYear: n[5],
	}, nil
}

// DD.MM - DD.MM.YYYY; the start year is taken from the end date
func extractPartialNumeric(g []string) (dateParts, error) {
	n, err := atoi(g...)
	if err != nil {
		return dateParts{}, err
	}
	return dateParts{
		startDay: n[0], startMonth: n[1], startYear: n[4],
		endDay: n[2], endMonth: n[3], endYear: n[4],
	}, nil
}

// <MonthName> D, YYYY - <MonthName> D, YYYY
func extractNamedMonth(g []string) (dateParts, error) {
	startMonth, ok := monthNames[g[0]]
	if !ok {
		return dateParts{}, ErrUnknownMonth
	}
	endMonth, ok := monthNames[g[3]]
	if !ok {
		return dateParts{}, ErrUnknownMonth
	}

	n, err := atoi(g[1], g[2], g[4], g[5])
	if err != nil {
		return dateParts{}, err
	}
	return dateParts{
		startDay: n[0], startMonth: int(startMonth), startYear: n[1],
		endDay: n[2], endMonth: int(endMonth), endYear: n[3],
	}, nil
}
