package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/models"
	"go.uber.org/zap"
)

const MaxEventsPerCell = 2

var (
	ErrEventStartDateInvalid = errors.New("event start date invalid")
	ErrEventEndDateInvalid   = errors.New("event end date invalid")
	ErrEventRangeInverted    = errors.New("event ends before it starts")
)

type SpanSegment string

const (
	SegmentSingle SpanSegment = "single"
	SegmentStart  SpanSegment = "start"
	SegmentMiddle SpanSegment = "middle"
	SegmentEnd    SpanSegment = "end"
)

// CalendarEvent is a validated event with day-granular bounds.
type CalendarEvent struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	StartTime  string    `json:"startTime,omitempty"`
	EndTime    string    `json:"endTime,omitempty"`
	IsPersonal bool      `json:"isPersonal"`
}

func (event CalendarEvent) StartDate() string {
	return FormatDate(event.Start)
}

func (event CalendarEvent) EndDate() string {
	return FormatDate(event.End)
}

// Record returns the normalized event in its stored shape.
func (event CalendarEvent) Record() models.KartingEvent {
	return models.KartingEvent{
		ID:         event.ID,
		Title:      event.Title,
		StartDate:  event.StartDate(),
		EndDate:    event.EndDate(),
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		IsPersonal: event.IsPersonal,
	}
}

func (event CalendarEvent) IsMultiDay() bool {
	return !event.Start.Equal(event.End)
}

// TimeRangeLabel renders "H:MM AM - H:MM PM" when both times are set.
func (event CalendarEvent) TimeRangeLabel() string {
	if strings.TrimSpace(event.StartTime) == "" || strings.TrimSpace(event.EndTime) == "" {
		return ""
	}
	return FormatTime12h(event.StartTime) + " - " + FormatTime12h(event.EndTime)
}

type EventBar struct {
	Event          CalendarEvent
	Segment        SpanSegment
	ShowLabel      bool
	StartTimeLabel string
}

type CalendarCell struct {
	CalendarDay
	WeekIndex   int
	DayIndex    int
	Events      []CalendarEvent
	Bars        []EventBar
	MoreCount   int
	HasPersonal bool
	HasGeneral  bool
}

func (cell CalendarCell) HasEvents() bool {
	return len(cell.Events) > 0
}

// NormalizeEvent validates a stored event. A missing end date collapses
// the event to a single day.
func NormalizeEvent(raw models.KartingEvent) (CalendarEvent, error) {
	start, err := ParseISODate(raw.StartDate)
	if err != nil {
		return CalendarEvent{}, ErrEventStartDateInvalid
	}

	end := start
	if strings.TrimSpace(raw.EndDate) != "" {
		end, err = ParseISODate(raw.EndDate)
		if err != nil {
			return CalendarEvent{}, ErrEventEndDateInvalid
		}
	}
	if end.Before(start) {
		return CalendarEvent{}, ErrEventRangeInverted
	}

	return CalendarEvent{
		ID:         raw.ID,
		Title:      strings.TrimSpace(raw.Title),
		Start:      start,
		End:        end,
		StartTime:  strings.TrimSpace(raw.StartTime),
		EndTime:    strings.TrimSpace(raw.EndTime),
		IsPersonal: raw.IsPersonal,
	}, nil
}

// NormalizeEvents keeps the input order, drops malformed events with a
// warning and keeps the first occurrence of a duplicated id.
func NormalizeEvents(raw []models.KartingEvent, logger *zap.Logger) []CalendarEvent {
	if logger == nil {
		logger = zap.NewNop()
	}

	events := make([]CalendarEvent, 0, len(raw))
	seen := make(map[uint]struct{}, len(raw))
	for _, entry := range raw {
		if _, duplicate := seen[entry.ID]; duplicate {
			logger.Warn("skipping duplicate calendar event", zap.Uint("event_id", entry.ID))
			continue
		}
		event, err := NormalizeEvent(entry)
		if err != nil {
			logger.Warn("rejecting calendar event",
				zap.Uint("event_id", entry.ID),
				zap.String("start_date", entry.StartDate),
				zap.String("end_date", entry.EndDate),
				zap.Error(err),
			)
			continue
		}
		seen[entry.ID] = struct{}{}
		events = append(events, event)
	}
	return events
}

// EventsOnDate returns the events whose inclusive range covers date.
func EventsOnDate(date time.Time, events []CalendarEvent) []CalendarEvent {
	day := DateOnly(date)
	matched := make([]CalendarEvent, 0)
	for _, event := range events {
		if day.Before(event.Start) || day.After(event.End) {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

// EventsInRange returns the events overlapping [from, to].
func EventsInRange(from time.Time, to time.Time, events []CalendarEvent) []CalendarEvent {
	rangeStart := DateOnly(from)
	rangeEnd := DateOnly(to)
	matched := make([]CalendarEvent, 0)
	for _, event := range events {
		if event.End.Before(rangeStart) || event.Start.After(rangeEnd) {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

// ClassifyEventDay reports where date falls inside the event span.
func ClassifyEventDay(date time.Time, event CalendarEvent) SpanSegment {
	day := DateOnly(date)
	isStart := day.Equal(event.Start)
	isEnd := day.Equal(event.End)
	switch {
	case isStart && isEnd:
		return SegmentSingle
	case isStart:
		return SegmentStart
	case isEnd:
		return SegmentEnd
	default:
		return SegmentMiddle
	}
}

// showEventLabel decides whether a bar carries the event title. The true
// start always does; a continuation does on the first bar of later weeks
// and on the first column of any week.
func showEventLabel(segment SpanSegment, barIndex int, weekIndex int, dayIndex int) bool {
	if segment == SegmentStart || segment == SegmentSingle {
		return true
	}
	if barIndex == 0 && weekIndex > 0 {
		return true
	}
	return dayIndex == 0
}

// BuildCalendarCells attaches events to each grid cell, keeping at most
// MaxEventsPerCell bars and counting the rest.
func BuildCalendarCells(grid []CalendarDay, events []CalendarEvent) []CalendarCell {
	cells := make([]CalendarCell, 0, len(grid))
	for index, day := range grid {
		dayEvents := EventsOnDate(day.Date, events)
		cell := CalendarCell{
			CalendarDay: day,
			WeekIndex:   index / calendarDaysInWeek,
			DayIndex:    index % calendarDaysInWeek,
			Events:      dayEvents,
		}

		for _, event := range dayEvents {
			if event.IsPersonal {
				cell.HasPersonal = true
			} else {
				cell.HasGeneral = true
			}
		}

		for barIndex, event := range dayEvents {
			if barIndex >= MaxEventsPerCell {
				break
			}
			segment := ClassifyEventDay(day.Date, event)
			bar := EventBar{
				Event:     event,
				Segment:   segment,
				ShowLabel: showEventLabel(segment, barIndex, cell.WeekIndex, cell.DayIndex),
			}
			if (segment == SegmentStart || segment == SegmentSingle) && event.StartTime != "" {
				bar.StartTimeLabel = strings.Replace(FormatTime12h(event.StartTime), " ", "", 1)
			}
			cell.Bars = append(cell.Bars, bar)
		}
		if len(dayEvents) > MaxEventsPerCell {
			cell.MoreCount = len(dayEvents) - MaxEventsPerCell
		}

		cells = append(cells, cell)
	}
	return cells
}
