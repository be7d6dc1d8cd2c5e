// Package calendar renders brochure validity windows as iCalendar (RFC 5545) data.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// GenerateICS returns a calendar with one all-day event per brochure, spanning
// its validity window. An empty brochure list yields an empty string.
func GenerateICS(brochures []*brochure.Brochure, calendarName string, now time.Time) string {
	if len(brochures) == 0 {
		return ""
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//letaky//letaky//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}

	stamp := formatICSTime(now)
	for _, b := range brochures {
		writeEvent(&ics, b, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, b *brochure.Brochure, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@letaky\r\n", b.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	// All-day events; DTEND is exclusive so it is the day after ValidTo
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(b.ValidFrom)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(nextDay(b.ValidTo))))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(fmt.Sprintf("%s - %s", b.ShopName, b.Title))))

	description := fmt.Sprintf("Valid %s to %s", b.ValidFrom, b.ValidTo)
	if b.Thumbnail != "" && b.Thumbnail != brochure.NotAvailable {
		description += "\nThumbnail: " + b.Thumbnail
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func nextDay(d brochure.Date) brochure.Date {
	return brochure.DateOf(d.In(time.UTC).AddDate(0, 0, 1))
}

// formatICSDate formats a calendar date as an iCalendar DATE value
func formatICSDate(d brochure.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
