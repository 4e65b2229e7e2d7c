package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/cache"
	"github.com/terraincognita07/pitlane/internal/models"
	"go.uber.org/zap"
)

const (
	monthParamLayout = "2006-01"
	eventsCacheKey   = "calendar:events"
)

type EventSource interface {
	ListAll() ([]models.KartingEvent, error)
}

// EventService loads and normalizes calendar events through the cache.
type EventService struct {
	source EventSource
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewEventService(source EventSource, store cache.Store, ttl time.Duration, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{source: source, store: store, ttl: ttl, logger: logger}
}

func (service *EventService) Events(ctx context.Context) ([]CalendarEvent, error) {
	return cache.Remember(ctx, service.store, service.logger, eventsCacheKey, service.ttl, func(context.Context) ([]CalendarEvent, error) {
		raw, err := service.source.ListAll()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		return NormalizeEvents(raw, service.logger), nil
	})
}

// CalendarMonth is everything the month view renders.
type CalendarMonth struct {
	MonthStart     time.Time
	PrevMonth      time.Time
	NextMonth      time.Time
	Weeks          [][]CalendarCell
	Selected       time.Time
	HasSelected    bool
	SelectedEvents []CalendarEvent
}

func (month CalendarMonth) MonthParam() string {
	return month.MonthStart.Format(monthParamLayout)
}

func (month CalendarMonth) SelectedDateString() string {
	if !month.HasSelected {
		return ""
	}
	return FormatDate(month.Selected)
}

// BuildCalendarMonth assembles the grid for monthStart and the details of
// the selected day, when one is given.
func BuildCalendarMonth(monthStart time.Time, selected time.Time, events []CalendarEvent) CalendarMonth {
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev, next := AdjacentMonths(first)
	grid := BuildMonthGrid(first.Year(), first.Month())

	month := CalendarMonth{
		MonthStart: first,
		PrevMonth:  prev,
		NextMonth:  next,
		Weeks:      SplitWeeks(BuildCalendarCells(grid, events)),
	}
	if !selected.IsZero() {
		month.Selected = DateOnly(selected)
		month.HasSelected = true
		month.SelectedEvents = EventsOnDate(month.Selected, events)
	}
	return month
}

// ParseMonthParam reads "YYYY-MM". Invalid values fall back to the month
// of fallback.
func ParseMonthParam(raw string, fallback time.Time) time.Time {
	if parsed, err := time.Parse(monthParamLayout, strings.TrimSpace(raw)); err == nil {
		return parsed
	}
	return time.Date(fallback.Year(), fallback.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseSelectedDate reads "YYYY-MM-DD" and returns the zero time when the
// value is missing or malformed.
func ParseSelectedDate(raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	parsed, err := ParseISODate(raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
