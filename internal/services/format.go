package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

var (
	slugStripPattern      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespacePattern = regexp.MustCompile(`\s+`)
)

// FormatDate renders the calendar date of value as YYYY-MM-DD.
func FormatDate(value time.Time) string {
	return value.Format(isoDateLayout)
}

// ParseISODate parses a YYYY-MM-DD string into midnight UTC.
func ParseISODate(raw string) (time.Time, error) {
	parsed, err := time.Parse(isoDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return parsed, nil
}

// DateOnly strips the time of day, keeping the calendar date in UTC.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatTime12h converts "HH:MM" to "H:MM AM|PM". Unparsable input is
// returned as given.
func FormatTime12h(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	hoursPart, minutesPart, found := strings.Cut(value, ":")
	if !found {
		return value
	}
	hour, err := strconv.Atoi(hoursPart)
	if err != nil || hour < 0 || hour > 23 {
		return value
	}
	if _, err := strconv.Atoi(minutesPart); err != nil || len(minutesPart) != 2 {
		return value
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%s %s", displayHour, minutesPart, suffix)
}

func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	return slugWhitespacePattern.ReplaceAllString(slug, "-")
}
