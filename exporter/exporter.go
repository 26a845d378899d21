// Package exporter writes a room's semester schedule as an iCalendar file.
package exporter

import (
	"fmt"
	"os"
	"slices"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"classroom-scout/catalog"
	"classroom-scout/schedule"
)

// weekdayByCode maps the source day codes to recurrence-rule weekdays.
var weekdayByCode = map[string]rrule.Weekday{
	"M": rrule.MO,
	"T": rrule.TU,
	"W": rrule.WE,
	"R": rrule.TH,
	"F": rrule.FR,
}

// RoomCalendar builds a calendar with one weekly recurring event per
// meeting held in the given room. Meetings with unparseable times or
// dates are skipped, matching the extractor's row-level leniency.
func RoomCalendar(cat *catalog.Catalog, room string) (*ics.Calendar, error) {
	if !slices.Contains(schedule.RoomList(cat), room) {
		return nil, schedule.ErrUnknownRoom
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classroom-scout//EN")

	now := time.Now()
	seq := 0
	for rec := range cat.Flatten() {
		if rec.Location != room {
			continue
		}
		event, ok := meetingEvent(rec, now, seq)
		if !ok {
			continue
		}
		cal.AddVEvent(event)
		seq++
	}

	return cal, nil
}

// WriteRoomICS serializes the room calendar to path.
func WriteRoomICS(cat *catalog.Catalog, room, path string) error {
	cal, err := RoomCalendar(cat, room)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("error writing calendar file: %v", err)
	}
	return nil
}

// meetingEvent turns one flattened record into a VEVENT whose weekly
// recurrence rule covers the meeting's day set until its end date.
func meetingEvent(rec catalog.Record, stamp time.Time, seq int) (*ics.VEvent, bool) {
	startDate, err := schedule.ParseDate(rec.StartDate)
	if err != nil {
		return nil, false
	}
	endDate, err := schedule.ParseDate(rec.EndDate)
	if err != nil {
		return nil, false
	}
	startTime, err := schedule.ParseTime(rec.StartTime)
	if err != nil {
		return nil, false
	}
	endTime, err := schedule.ParseTime(rec.EndTime)
	if err != nil {
		return nil, false
	}

	var byDay []rrule.Weekday
	for _, code := range rec.Days {
		if day, ok := weekdayByCode[code]; ok {
			byDay = append(byDay, day)
		}
	}
	if len(byDay) == 0 {
		return nil, false
	}

	// DTSTART must be the first date the pattern actually lands on.
	first := startDate
	occurs := false
	for i := 0; i < 7; i++ {
		if schedule.OccursOn(rec.Meeting, first) {
			occurs = true
			break
		}
		first = first.AddDate(0, 0, 1)
	}
	if !occurs {
		return nil, false
	}

	eventStart := time.Date(first.Year(), first.Month(), first.Day(),
		startTime.Hour(), startTime.Minute(), 0, 0, time.UTC)
	eventEnd := time.Date(first.Year(), first.Month(), first.Day(),
		endTime.Hour(), endTime.Minute(), 0, 0, time.UTC)

	rule := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byDay,
		Until: time.Date(endDate.Year(), endDate.Month(), endDate.Day(),
			23, 59, 59, 0, time.UTC),
	}

	uid := fmt.Sprintf("%s-%d@classroom-scout", rec.CRN, seq)
	event := ics.NewEvent(uid)
	event.SetDtStampTime(stamp)
	event.SetStartAt(eventStart)
	event.SetEndAt(eventEnd)
	event.SetSummary(rec.Course + " " + rec.Type)
	event.SetLocation(rec.Location)
	event.SetProperty(ics.ComponentPropertyRrule, rule.RRuleString())
	return event, true
}
