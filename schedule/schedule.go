// Package schedule answers room queries against the record catalog.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"classroom-scout/catalog"
)

// dayCodes maps weekdays to the single-letter codes used in the source
// data. Saturday and Sunday carry no code, so weekend dates never match.
var dayCodes = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "R",
	time.Friday:    "F",
}

const (
	dateLayout = "1/2/06"
	timeLayout = "3:04 pm"
)

// ErrUnknownRoom is returned when a queried room code appears nowhere in
// the catalog.
var ErrUnknownRoom = errors.New("room code not recognized")

// ParseDate parses a calendar date like "1/8/25".
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// ParseTime parses a clock time like "10:00 am", case-insensitively.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, strings.ToLower(strings.TrimSpace(s)))
}

// ResolveDate turns a user-supplied date token into a calendar date. The
// literal "today" or "Today" resolves to the current date at midnight so
// it compares exactly like the equivalent MM/DD/YY token.
func ResolveDate(s string) (time.Time, error) {
	if s == "today" || s == "Today" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return ParseDate(s)
}

// OccursOn reports whether the meeting's weekly pattern lands on date:
// the date's day code must be in the meeting's day set and the date must
// fall inside the meeting's date range, inclusive at both ends.
func OccursOn(m catalog.Meeting, date time.Time) bool {
	code, ok := dayCodes[date.Weekday()]
	if !ok || !slices.Contains(m.Days, code) {
		return false
	}
	start, err := ParseDate(m.StartDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(m.EndDate)
	if err != nil {
		return false
	}
	return !date.Before(start) && !date.After(end)
}

// RoomList returns the distinct room codes across all meetings, in
// first-seen catalog order.
func RoomList(cat *catalog.Catalog) []string {
	seen := make(map[string]bool)
	var rooms []string
	for rec := range cat.Flatten() {
		if !seen[rec.Location] {
			seen[rec.Location] = true
			rooms = append(rooms, rec.Location)
		}
	}
	return rooms
}

// RoomSchedule returns the formatted schedule lines for a room on a date,
// sorted chronologically by start time (ties broken by the formatted
// line). Meetings whose stored start time fails to parse sort last.
func RoomSchedule(cat *catalog.Catalog, room string, date time.Time) ([]string, error) {
	if !slices.Contains(RoomList(cat), room) {
		return nil, ErrUnknownRoom
	}

	type entry struct {
		start  time.Time
		parsed bool
		line   string
	}
	var entries []entry
	for rec := range cat.Flatten() {
		if rec.Location != room || !OccursOn(rec.Meeting, date) {
			continue
		}
		start, err := ParseTime(rec.StartTime)
		entries = append(entries, entry{
			start:  start,
			parsed: err == nil,
			line:   rec.StartTime + "-" + rec.EndTime + " " + rec.Course + " " + rec.Type,
		})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.parsed && !b.parsed:
			return -1
		case !a.parsed && b.parsed:
			return 1
		case a.parsed && b.parsed && !a.start.Equal(b.start):
			return a.start.Compare(b.start)
		}
		return strings.Compare(a.line, b.line)
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.line)
	}
	return lines, nil
}

// FindRooms returns the rooms with no meeting overlapping the query
// window on the given date, sorted. A meeting overlaps unless the window
// lies entirely before its start or entirely after its end.
func FindRooms(cat *catalog.Catalog, date, start, end time.Time) []string {
	busy := make(map[string]bool)
	for rec := range cat.Flatten() {
		if !OccursOn(rec.Meeting, date) {
			continue
		}
		meetingStart, err := ParseTime(rec.StartTime)
		if err != nil {
			continue
		}
		meetingEnd, err := ParseTime(rec.EndTime)
		if err != nil {
			continue
		}
		if start.Before(meetingStart) && end.Before(meetingStart) {
			continue
		}
		if start.After(meetingEnd) && end.After(meetingEnd) {
			continue
		}
		busy[rec.Location] = true
	}

	var free []string
	for _, room := range RoomList(cat) {
		if !busy[room] {
			free = append(free, room)
		}
	}
	sort.Strings(free)
	return free
}

// FormatColumns renders values three per line in fixed-width columns. A
// final partial group still gets a line of its own.
func FormatColumns(values []string) []string {
	var lines []string
	for i := 0; i < len(values); i += 3 {
		group := values[i:min(i+3, len(values))]
		switch len(group) {
		case 3:
			lines = append(lines, fmt.Sprintf("%-30s%-30s%s", group[0], group[1], group[2]))
		case 2:
			lines = append(lines, fmt.Sprintf("%-30s%s", group[0], group[1]))
		default:
			lines = append(lines, group[0])
		}
	}
	return lines
}
