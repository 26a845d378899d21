package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"classroom-scout/catalog"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ParseTime(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return v
}

func meeting(days []string, start, end, startDate, endDate, location string) catalog.Meeting {
	return catalog.Meeting{
		Days:      days,
		StartTime: start,
		EndTime:   end,
		StartDate: startDate,
		EndDate:   endDate,
		Location:  location,
	}
}

// testCatalog: CS101 lecture MWF 10:00-10:50 am in ENG100 plus a PHYS201
// lab on Tuesdays in SCI200, both spanning the spring 2025 term.
func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.AddModule("CS101", &catalog.Module{
		CRN: "20001", Section: "001", Type: "LEC",
		Meetings: []catalog.Meeting{
			meeting([]string{"M", "W", "F"}, "10:00 am", "10:50 am", "1/6/25", "5/2/25", "ENG100"),
		},
	})
	cat.AddModule("PHYS201", &catalog.Module{
		CRN: "20002", Section: "002", Type: "LAB",
		Meetings: []catalog.Meeting{
			meeting([]string{"T"}, "2:00 pm", "4:50 pm", "1/6/25", "5/2/25", "SCI200"),
		},
	})
	return cat
}

func TestOccursOnInclusiveDateRange(t *testing.T) {
	// 1/8/25 is a Wednesday; the range covers Wed through Fri.
	m := meeting([]string{"M", "T", "W", "R", "F"}, "9:00 am", "9:50 am", "1/8/25", "1/10/25", "A")

	for _, s := range []string{"1/8/25", "1/9/25", "1/10/25"} {
		if !OccursOn(m, mustDate(t, s)) {
			t.Errorf("meeting should occur on %s", s)
		}
	}
	for _, s := range []string{"1/7/25", "1/13/25"} {
		if OccursOn(m, mustDate(t, s)) {
			t.Errorf("meeting should not occur on %s", s)
		}
	}
}

func TestOccursOnDayFilter(t *testing.T) {
	m := meeting([]string{"M", "W"}, "9:00 am", "9:50 am", "1/6/25", "5/2/25", "A")

	if OccursOn(m, mustDate(t, "1/7/25")) { // Tuesday inside range
		t.Error("meeting with days {M,W} occurred on a Tuesday")
	}
	if !OccursOn(m, mustDate(t, "1/8/25")) { // Wednesday inside range
		t.Error("meeting with days {M,W} missed a Wednesday")
	}
}

func TestOccursOnWeekendNeverMatches(t *testing.T) {
	m := meeting([]string{"M", "T", "W", "R", "F"}, "9:00 am", "9:50 am", "1/6/25", "5/2/25", "A")
	if OccursOn(m, mustDate(t, "1/11/25")) { // Saturday
		t.Error("meeting occurred on a Saturday")
	}
	if OccursOn(m, mustDate(t, "1/12/25")) { // Sunday
		t.Error("meeting occurred on a Sunday")
	}
}

func TestRoomScheduleMatch(t *testing.T) {
	cat := testCatalog()

	lines, err := RoomSchedule(cat, "ENG100", mustDate(t, "1/8/25"))
	if err != nil {
		t.Fatalf("room schedule: %v", err)
	}
	if len(lines) != 1 || lines[0] != "10:00 am-10:50 am CS101 LEC" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestRoomScheduleNoClasses(t *testing.T) {
	cat := testCatalog()

	// 1/5/25 is a Sunday.
	lines, err := RoomSchedule(cat, "ENG100", mustDate(t, "1/5/25"))
	if err != nil {
		t.Fatalf("room schedule: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestRoomScheduleUnknownRoom(t *testing.T) {
	if _, err := RoomSchedule(testCatalog(), "NOPE999", mustDate(t, "1/8/25")); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("err = %v, want ErrUnknownRoom", err)
	}
}

func TestRoomScheduleChronologicalOrder(t *testing.T) {
	cat := catalog.New()
	cat.AddModule("MATH301", &catalog.Module{
		CRN: "1", Type: "LEC",
		Meetings: []catalog.Meeting{
			meeting([]string{"W"}, "1:00 pm", "1:50 pm", "1/6/25", "5/2/25", "ENG100"),
			meeting([]string{"W"}, "10:00 am", "10:50 am", "1/6/25", "5/2/25", "ENG100"),
			meeting([]string{"W"}, "9:05 am", "9:55 am", "1/6/25", "5/2/25", "ENG100"),
		},
	})

	lines, err := RoomSchedule(cat, "ENG100", mustDate(t, "1/8/25"))
	if err != nil {
		t.Fatalf("room schedule: %v", err)
	}
	want := []string{
		"9:05 am-9:55 am MATH301 LEC",
		"10:00 am-10:50 am MATH301 LEC",
		"1:00 pm-1:50 pm MATH301 LEC",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q (chronological, not lexicographic)", i, lines[i], want[i])
		}
	}
}

func TestFindRoomsOverlapRule(t *testing.T) {
	cat := testCatalog()
	date := mustDate(t, "1/8/25") // Wednesday: only the ENG100 lecture meets

	overlapping := [][2]string{
		{"10:30 am", "10:45 am"}, // fully contained
		{"9:30 am", "10:30 am"},  // left overlap
		{"10:30 am", "11:30 am"}, // right overlap
		{"9:00 am", "12:00 pm"},  // fully containing
	}
	for _, w := range overlapping {
		rooms := FindRooms(cat, date, mustTime(t, w[0]), mustTime(t, w[1]))
		if contains(rooms, "ENG100") {
			t.Errorf("window %s-%s should remove ENG100, got %v", w[0], w[1], rooms)
		}
		if !contains(rooms, "SCI200") {
			t.Errorf("window %s-%s should keep SCI200 (Tuesday lab), got %v", w[0], w[1], rooms)
		}
	}

	disjoint := [][2]string{
		{"8:00 am", "9:00 am"},
		{"12:00 pm", "1:00 pm"},
	}
	for _, w := range disjoint {
		rooms := FindRooms(cat, date, mustTime(t, w[0]), mustTime(t, w[1]))
		if !contains(rooms, "ENG100") {
			t.Errorf("window %s-%s should keep ENG100, got %v", w[0], w[1], rooms)
		}
	}
}

func TestFindRoomsSorted(t *testing.T) {
	cat := testCatalog()
	// Saturday: nothing meets, every room is free.
	rooms := FindRooms(cat, mustDate(t, "1/11/25"), mustTime(t, "9:00 am"), mustTime(t, "10:00 am"))
	if len(rooms) != 2 || rooms[0] != "ENG100" || rooms[1] != "SCI200" {
		t.Fatalf("rooms = %v, want [ENG100 SCI200]", rooms)
	}
}

func TestParseTimeCaseInsensitive(t *testing.T) {
	lower := mustTime(t, "10:00 am")
	upper := mustTime(t, "10:00 AM")
	if !lower.Equal(upper) {
		t.Errorf("case-sensitive time parsing: %v vs %v", lower, upper)
	}
}

func TestResolveDateToken(t *testing.T) {
	d, err := ResolveDate("1/8/25")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.January || d.Day() != 8 {
		t.Errorf("resolved date = %v", d)
	}

	for _, token := range []string{"today", "Today"} {
		d, err := ResolveDate(token)
		if err != nil {
			t.Fatalf("resolve %q: %v", token, err)
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("%q not truncated to midnight: %v", token, d)
		}
		now := time.Now()
		if d.Day() != now.Day() || d.Month() != now.Month() {
			t.Errorf("%q resolved to %v", token, d)
		}
	}

	if _, err := ResolveDate("not-a-date"); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestFormatColumns(t *testing.T) {
	pad := strings.Repeat(" ", 29)

	lines := FormatColumns([]string{"A", "B", "C", "D"})
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "A"+pad+"B"+pad+"C" {
		t.Errorf("full line = %q", lines[0])
	}
	if lines[1] != "D" {
		t.Errorf("partial group dropped: last line = %q", lines[1])
	}

	if lines := FormatColumns([]string{"A", "B"}); len(lines) != 1 || lines[0] != "A"+pad+"B" {
		t.Errorf("two-value line = %v", lines)
	}
	if lines := FormatColumns(nil); len(lines) != 0 {
		t.Errorf("empty input produced %v", lines)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
