package services

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//Pitlane//Karting Events//EN"

// ExportEventsICS renders events as an iCalendar feed. Events with both
// times become timed entries in loc; the rest are all-day entries.
func ExportEventsICS(events []CalendarEvent, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(icsProductID)
	calendar.SetName("Pitlane")

	for _, event := range events {
		entry := calendar.AddEvent(fmt.Sprintf("pitlane-event-%d@pitlane", event.ID))
		entry.SetDtStampTime(now.UTC())
		entry.SetSummary(event.Title)
		if event.IsPersonal {
			entry.SetClass(ics.ClassificationPrivate)
		} else {
			entry.SetClass(ics.ClassificationPublic)
		}

		startAt, startOK := combineDateAndTime(event.Start, event.StartTime, loc)
		endAt, endOK := combineDateAndTime(event.End, event.EndTime, loc)
		if startOK && endOK && endAt.After(startAt) {
			entry.SetStartAt(startAt)
			entry.SetEndAt(endAt)
			continue
		}
		entry.SetAllDayStartAt(event.Start)
		entry.SetAllDayEndAt(event.End.AddDate(0, 0, 1))
	}

	return calendar.Serialize()
}

func combineDateAndTime(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), true
}
