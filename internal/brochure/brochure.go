package brochure

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// NotAvailable marks a field the brochure block did not provide
	NotAvailable = "N/A"

	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Brochure is one currently valid brochure listing
type Brochure struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail"`
	ShopName   string    `json:"shop_name"`
	ValidFrom  Date      `json:"valid_from"`
	ValidTo    Date      `json:"valid_to"`
	ParsedTime Timestamp `json:"parsed_time"`
}

// NewBrochure creates a Brochure for an accepted validity window.
// ValidFrom and ValidTo are the calendar days of r; parsedAt is when the page was read.
func NewBrochure(title, thumbnail, shopName string, r DateRange, parsedAt time.Time) *Brochure {
	from := DateOf(r.Start())
	to := DateOf(r.End())
	return &Brochure{
		ID:         GenerateID(shopName, title, from, to),
		Title:      title,
		Thumbnail:  thumbnail,
		ShopName:   shopName,
		ValidFrom:  from,
		ValidTo:    to,
		ParsedTime: Timestamp{parsedAt},
	}
}

// idNamespace scopes brochure IDs so they cannot collide with other name-based UUIDs
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.prospektmaschine.de/"))

// GenerateID creates a deterministic name-based (version 5) UUID from the
// fields that identify a brochure
func GenerateID(shopName, title string, from, to Date) string {
	key := strings.ToLower(shopName) + "|" + title + "|" + from.String() + "|" + to.String()
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Date is a calendar date without time of day, encoded as "2006-01-02"
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "2006-01-02" string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// In returns midnight of d in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is an earlier day than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Timestamp is a wall-clock instant encoded as "2006-01-02 15:04:05"
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
