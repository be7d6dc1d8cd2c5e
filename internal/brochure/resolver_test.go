package brochure

import (
	"errors"
	"testing"
	"time"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name        string
		text        string
		wantPattern string
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{
			name:        "full numeric",
			text:        "17.03.2025 - 22.03.2025",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "full numeric without spaces",
			text:        "01.12.2024-05.01.2025",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "full numeric with surrounding text",
			text:        "  Gültig 17.03.2025 - 22.03.2025 \n",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "full numeric with en dash",
			text:        "17.03.2025 – 22.03.2025",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "no-break spaces around separator",
			text:        "17.03.2025\u00a0-\u00a022.03.2025",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "partial numeric infers start year",
			text:        "17.03 - 22.03.2025",
			wantPattern: "partial-numeric",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "partial numeric across months",
			text:        "28.02 - 02.03.2024",
			wantPattern: "partial-numeric",
			wantStart:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "named month",
			text:        "March 17, 2025 - March 22, 2025",
			wantPattern: "named-month",
			wantStart:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "named month single digit days",
			text:        "September 1, 2025 - October 5, 2025",
			wantPattern: "named-month",
			wantStart:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 10, 5, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "leap day",
			text:        "29.02.2024 - 01.03.2024",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "single day range",
			text:        "22.03.2025 - 22.03.2025",
			wantPattern: "full-numeric",
			wantStart:   time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pattern, err := r.Match(tt.text)
			if err != nil {
				t.Fatalf("Match(%q) unexpected error: %v", tt.text, err)
			}
			if pattern != tt.wantPattern {
				t.Errorf("Match(%q) pattern = %q, want %q", tt.text, pattern, tt.wantPattern)
			}
			if !got.Start().Equal(tt.wantStart) {
				t.Errorf("Match(%q).Start() = %v, want %v", tt.text, got.Start(), tt.wantStart)
			}
			if !got.End().Equal(tt.wantEnd) {
				t.Errorf("Match(%q).End() = %v, want %v", tt.text, got.End(), tt.wantEnd)
			}
		})
	}
}

func TestResolver_ResolveFailures(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name        string
		text        string
		wantErr     error
		wantPattern string
	}{
		{"unparseable text", "Coming soon!", ErrNoPattern, ""},
		{"empty text", "", ErrNoPattern, ""},
		{"not available sentinel", NotAvailable, ErrNoPattern, ""},
		{"single date", "17.03.2025", ErrNoPattern, ""},
		{"single digit numeric day", "7.03.2025 - 22.03.2025", ErrNoPattern, ""},
		{"february 31st", "31.02.2025 - 01.03.2025", ErrInvalidDate, "full-numeric"},
		{"april 31st", "01.04.2025 - 31.04.2025", ErrInvalidDate, "full-numeric"},
		{"month 13", "01.13.2025 - 02.13.2025", ErrInvalidDate, "full-numeric"},
		{"day zero", "00.03 - 22.03.2025", ErrInvalidDate, "partial-numeric"},
		{"year zero", "01.01.0000 - 02.01.0000", ErrInvalidDate, "full-numeric"},
		{"year zero inferred", "01.01 - 02.01.0000", ErrInvalidDate, "partial-numeric"},
		{"non leap year", "29.02.2025 - 01.03.2025", ErrInvalidDate, "full-numeric"},
		{"lowercase month name", "march 17, 2025 - march 22, 2025", ErrUnknownMonth, "named-month"},
		{"abbreviated month name", "Mar 17, 2025 - Mar 22, 2025", ErrUnknownMonth, "named-month"},
		{"german start month name", "März 17, 2025 - March 22, 2025", ErrUnknownMonth, "named-month"},
		{"german month names", "März 17, 2025 - März 22, 2025", ErrNoPattern, ""},
		{"named month invalid day", "June 31, 2025 - July 2, 2025", ErrInvalidDate, "named-month"},
		{"inverted full numeric", "22.03.2025 - 17.03.2025", ErrInvertedRange, "full-numeric"},
		{"year boundary with inferred start year", "28.12 - 03.01.2026", ErrInvertedRange, "partial-numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.text)
			if err == nil {
				t.Fatalf("Resolve(%q) = %v, want error", tt.text, got)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
			if !errors.Is(err, ErrUnrecognized) {
				t.Errorf("Resolve(%q) error = %v, should match ErrUnrecognized", tt.text, err)
			}

			var recErr *RecognitionError
			if !errors.As(err, &recErr) {
				t.Fatalf("Resolve(%q) error type = %T, want *RecognitionError", tt.text, err)
			}
			if recErr.Text != tt.text {
				t.Errorf("RecognitionError.Text = %q, want %q", recErr.Text, tt.text)
			}
			if recErr.Pattern != tt.wantPattern {
				t.Errorf("RecognitionError.Pattern = %q, want %q", recErr.Pattern, tt.wantPattern)
			}
			if !got.IsZero() {
				t.Errorf("Resolve(%q) returned non-zero range %v on error", tt.text, got)
			}
		})
	}
}

func TestResolver_PartialNumericStartYearEqualsEndYear(t *testing.T) {
	r := NewResolver(time.UTC)

	for _, text := range []string{
		"01.01 - 31.01.1999",
		"17.03 - 22.03.2025",
		"01.06 - 30.06.2030",
		"15.11 - 31.12.2026",
	} {
		t.Run(text, func(t *testing.T) {
			got, err := r.Resolve(text)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", text, err)
			}
			if got.Start().Year() != got.End().Year() {
				t.Errorf("start year %d != end year %d", got.Start().Year(), got.End().Year())
			}
		})
	}
}

func TestResolver_MonthNameTable(t *testing.T) {
	r := NewResolver(time.UTC)

	for month := time.January; month <= time.December; month++ {
		t.Run(month.String(), func(t *testing.T) {
			text := month.String() + " 1, 2025 - " + month.String() + " 2, 2025"
			got, err := r.Resolve(text)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", text, err)
			}
			if got.Start().Month() != month || got.End().Month() != month {
				t.Errorf("Resolve(%q) months = %v/%v, want %v", text, got.Start().Month(), got.End().Month(), month)
			}
		})
	}
}

func TestResolver_PatternPrecedence(t *testing.T) {
	ps := Patterns()

	wantOrder := []string{"full-numeric", "partial-numeric", "named-month"}
	if len(ps) != len(wantOrder) {
		t.Fatalf("Patterns() returned %d patterns, want %d", len(ps), len(wantOrder))
	}
	for i, name := range wantOrder {
		if ps[i].Name != name {
			t.Errorf("Patterns()[%d] = %q, want %q", i, ps[i].Name, name)
		}
	}

	// Only the matching layout claims each input
	tests := []struct {
		text string
		want []bool
	}{
		{"17.03.2025 - 22.03.2025", []bool{true, false, false}},
		{"17.03 - 22.03.2025", []bool{false, true, false}},
		{"March 17, 2025 - March 22, 2025", []bool{false, false, true}},
		{"Coming soon!", []bool{false, false, false}},
	}
	for _, tt := range tests {
		for i, p := range ps {
			if got := p.Matches(tt.text); got != tt.want[i] {
				t.Errorf("%s.Matches(%q) = %v, want %v", p.Name, tt.text, got, tt.want[i])
			}
		}
	}
}

func TestResolver_DoesNotModifyPatterns(t *testing.T) {
	ps := Patterns()
	ps[0] = Pattern{Name: "changed"}

	if Patterns()[0].Name != "full-numeric" {
		t.Error("modifying the Patterns() result changed resolver order")
	}
}

func TestResolver_Location(t *testing.T) {
	if loc := NewResolver(nil).Location(); loc != time.Local {
		t.Errorf("NewResolver(nil).Location() = %v, want Local", loc)
	}

	berlin := time.FixedZone("CET", 3600)
	r := NewResolver(berlin)
	got, err := r.Resolve("17.03.2025 - 22.03.2025")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Start().Location() != berlin {
		t.Errorf("Start() location = %v, want %v", got.Start().Location(), berlin)
	}
	want := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	if !got.Start().Equal(want) {
		t.Errorf("Start() = %v, want %v", got.Start().UTC(), want)
	}
}

func TestResolveAndFilter_EndToEnd(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name       string
		text       string
		now        time.Time
		wantStart  time.Time
		wantEnd    time.Time
		wantActive bool
	}{
		{
			name:       "full numeric active",
			text:       "17.03.2025 - 22.03.2025",
			now:        time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
			wantStart:  time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
			wantActive: true,
		},
		{
			name:       "partial numeric in the future",
			text:       "17.03 - 22.03.2025",
			now:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantStart:  time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
			wantActive: false,
		},
		{
			name:       "named month inclusive upper bound",
			text:       "March 17, 2025 - March 22, 2025",
			now:        time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
			wantStart:  time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 3, 22, 23, 59, 59, 0, time.UTC),
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.text)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.text, err)
			}
			if !got.Start().Equal(tt.wantStart) || !got.End().Equal(tt.wantEnd) {
				t.Errorf("Resolve(%q) = [%v, %v], want [%v, %v]", tt.text, got.Start(), got.End(), tt.wantStart, tt.wantEnd)
			}
			if active := IsActive(got, tt.now); active != tt.wantActive {
				t.Errorf("IsActive(%v, %v) = %v, want %v", got, tt.now, active, tt.wantActive)
			}
		})
	}
}
