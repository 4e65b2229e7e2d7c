package services

import "time"

const (
	calendarWeeks      = 6
	calendarDaysInWeek = 7
	calendarGridCells  = calendarWeeks * calendarDaysInWeek
)

type CalendarDay struct {
	Date         time.Time
	DateString   string
	Day          int
	CurrentMonth bool
}

// BuildMonthGrid returns the Sunday-first 6x7 grid for the given month.
// Days outside the month are filled from the adjacent months.
func BuildMonthGrid(year int, month time.Month) []CalendarDay {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))

	days := make([]CalendarDay, 0, calendarGridCells)
	for offset := 0; offset < calendarGridCells; offset++ {
		day := gridStart.AddDate(0, 0, offset)
		days = append(days, CalendarDay{
			Date:         day,
			DateString:   FormatDate(day),
			Day:          day.Day(),
			CurrentMonth: day.Month() == monthStart.Month() && day.Year() == monthStart.Year(),
		})
	}
	return days
}

// SplitWeeks groups a grid into rows of seven days.
func SplitWeeks[T any](cells []T) [][]T {
	weeks := make([][]T, 0, (len(cells)+calendarDaysInWeek-1)/calendarDaysInWeek)
	for start := 0; start < len(cells); start += calendarDaysInWeek {
		end := start + calendarDaysInWeek
		if end > len(cells) {
			end = len(cells)
		}
		weeks = append(weeks, cells[start:end])
	}
	return weeks
}

// AdjacentMonths returns the first days of the previous and next month.
func AdjacentMonths(monthStart time.Time) (time.Time, time.Time) {
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0), first.AddDate(0, 1, 0)
}
