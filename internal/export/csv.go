// Package export encodes registration lists as CSV downloads.
package export

import (
	"regexp"
	"strings"
	"time"

	"campus-events/internal/model"
)

const ContentType = "text/csv; charset=utf-8"

var (
	AttendeeHeader = []string{"Name", "Email", "UID", "Registered At"}
	TicketHeader   = []string{"Event Title", "Date", "Time", "Venue", "Ticket Code"}
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Attendees renders one row per registration under AttendeeHeader.
// An empty list yields the header only.
func Attendees(regs []*model.Registration) string {
	rows := make([][]string, 0, len(regs)+1)
	rows = append(rows, AttendeeHeader)
	for _, r := range regs {
		registeredAt := ""
		if !r.RegisteredAt.IsZero() {
			registeredAt = r.RegisteredAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{r.Name, r.Email, r.AttendeeID, registeredAt})
	}
	return Encode(rows)
}

// Tickets renders the attendee-side list under TicketHeader.
func Tickets(tickets []*model.Ticket) string {
	rows := make([][]string, 0, len(tickets)+1)
	rows = append(rows, TicketHeader)
	for _, t := range tickets {
		if t.Event == nil || t.Registration == nil {
			continue
		}
		rows = append(rows, []string{t.Event.Title, t.Event.Date, t.Event.Time, t.Event.Venue, t.Registration.TicketCode})
	}
	return Encode(rows)
}

// Encode quotes every field, doubles embedded quotes and joins rows with
// "\n" without a trailing newline.
func Encode(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// Filename derives the download name from an event title.
func Filename(title string) string {
	name := nonAlphanumeric.ReplaceAllString(title, "_")
	if strings.Trim(name, "_") == "" {
		name = "attendees"
	}
	return name + ".csv"
}
