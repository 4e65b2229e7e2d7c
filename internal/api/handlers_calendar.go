package api

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

type calendarView struct {
	services.CalendarMonth
	Today        time.Time
	BasePath     string
	PrevURL      string
	NextURL      string
	TodayURL     string
	CloseURL     string
	CurrentMonth bool
}

// DayURL links a day of the visible month, keeping the month selection.
func (view calendarView) DayURL(date string) string {
	query := url.Values{}
	query.Set("month", view.MonthParam())
	query.Set("date", date)
	return withQuery(view.BasePath, query)
}

func (view calendarView) IsToday(date time.Time) bool {
	return date.Equal(view.Today)
}

func (view calendarView) IsSelected(date time.Time) bool {
	return view.HasSelected && date.Equal(view.Selected)
}

func buildCalendarView(basePath string, today time.Time, month services.CalendarMonth) calendarView {
	monthLink := func(value time.Time) string {
		query := url.Values{}
		query.Set("month", value.Format("2006-01"))
		return withQuery(basePath, query)
	}

	return calendarView{
		CalendarMonth: month,
		Today:         today,
		BasePath:      basePath,
		PrevURL:       monthLink(month.PrevMonth),
		NextURL:       monthLink(month.NextMonth),
		TodayURL:      basePath,
		CloseURL:      monthLink(month.MonthStart),
		CurrentMonth:  month.MonthStart.Year() == today.Year() && month.MonthStart.Month() == today.Month(),
	}
}

func (handler *Handler) loadCalendarView(c *fiber.Ctx, basePath string) (calendarView, error) {
	events, err := handler.events.Events(c.UserContext())
	if err != nil {
		return calendarView{}, err
	}

	today := handler.today()
	monthStart := services.ParseMonthParam(c.Query("month"), today)
	selected := services.ParseSelectedDate(c.Query("date"))
	month := services.BuildCalendarMonth(monthStart, selected, events)
	return buildCalendarView(basePath, today, month), nil
}

func (handler *Handler) ShowCalendar(c *fiber.Ctx) error {
	view, err := handler.loadCalendarView(c, "/calendar")
	if err != nil {
		return handler.serverError(c, "failed to load events", err)
	}

	messages := currentMessages(c)
	return handler.render(c, "calendar", fiber.Map{
		"Title":    localizedPageTitle(messages, "meta.title.calendar", "Calendar | Pitlane"),
		"Calendar": view,
	})
}

// EventsJSON lists normalized events, optionally limited to those that
// overlap the inclusive from/to range.
func (handler *Handler) EventsJSON(c *fiber.Ctx) error {
	events, err := handler.events.Events(c.UserContext())
	if err != nil {
		return handler.serverError(c, "failed to load events", err)
	}

	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" && toRaw == "" {
		return c.JSON(events)
	}

	from, to := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if fromRaw != "" {
		if from, err = services.ParseISODate(fromRaw); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid from date")
		}
	}
	if toRaw != "" {
		if to, err = services.ParseISODate(toRaw); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid to date")
		}
	}
	if to.Before(from) {
		return apiError(c, fiber.StatusBadRequest, "invalid date range")
	}
	return c.JSON(services.EventsInRange(from, to, events))
}

func (handler *Handler) CalendarICS(c *fiber.Ctx) error {
	events, err := handler.events.Events(c.UserContext())
	if err != nil {
		return handler.serverError(c, "failed to load events", err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pitlane-events.ics"`)
	return c.SendString(services.ExportEventsICS(events, handler.location, handler.now()))
}
