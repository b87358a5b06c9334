package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// GenerateICS renders a set of event records as one iCalendar document.
// Records without an extracted date are skipped: a calendar entry with a
// guessed date is worse than none.
func GenerateICS(recs []event.Record) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Rommelmarkt Events//rommelmarkt-events//NL\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for i := range recs {
		writeEvent(&ics, &recs[i])
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, rec *event.Record) {
	if rec.EventDate.IsZero() {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%d@rommelmarkten.be\r\n", rec.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z"))

	start, end := eventWindow(rec)
	fmt.Fprintf(ics, "DTSTART:%s\r\n", start.Format("20060102T150405"))
	fmt.Fprintf(ics, "DTEND:%s\r\n", end.Format("20060102T150405"))

	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(rec.Name))

	if location := formatLocation(rec); location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(location))
	}
	if rec.Description != "" {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(rec.Description))
	}
	if rec.SourceURL != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", rec.SourceURL)
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// eventWindow derives the calendar window from the extracted times. Markets
// without usable times get the customary 8:00-17:00 window.
func eventWindow(rec *event.Record) (start, end time.Time) {
	date := rec.EventDate

	start = clockOn(date, rec.StartTime, 8, 0)
	end = clockOn(date, rec.EndTime, 17, 0)
	if !end.After(start) {
		end = start.Add(4 * time.Hour)
	}
	return start, end
}

// clockOn places an "H:MM" token on the given date, tolerating tokens that
// never parsed cleanly during extraction.
func clockOn(date time.Time, token string, defaultHour, defaultMinute int) time.Time {
	hour, minute := defaultHour, defaultMinute
	if parts := strings.SplitN(token, ":", 2); len(parts) == 2 {
		if h, err := strconv.Atoi(parts[0]); err == nil && h >= 0 && h < 24 {
			if m, err := strconv.Atoi(parts[1]); err == nil && m >= 0 && m < 60 {
				hour, minute = h, m
			}
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

func formatLocation(rec *event.Record) string {
	parts := make([]string, 0, 3)
	if rec.VenueName != "" {
		parts = append(parts, rec.VenueName)
	}
	if rec.StreetAddress != "" {
		parts = append(parts, rec.StreetAddress)
	}
	if rec.Municipality != "" {
		place := rec.Municipality
		if rec.PostalCode != "" {
			place = rec.PostalCode + " " + place
		}
		parts = append(parts, place)
	}
	return strings.Join(parts, ", ")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
