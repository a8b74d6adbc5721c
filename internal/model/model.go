package model

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the extended ISO-8601 calendar date format used in files, flags and URLs.
const DateLayout = "2006-01-02"

// basicDateLayout is the ISO-8601 basic calendar date format without separators.
const basicDateLayout = "20060102"

// Contact is the data structure for a person that we know.
// All fields are filled from a single row of the backing store.
type Contact struct {
	LastName  string    `json:"lastname"  db:"lastname"`
	FirstName string    `json:"firstname" db:"firstname"`
	Birthday  time.Time `json:"birthday"  db:"birthday"`
	Email     string    `json:"email"     db:"email"`
}

// ParseDate parses an ISO-8601 date. Calendar dates are accepted in the extended (2006-01-02)
// and the basic (20060102) form, week dates in the extended (2024-W11-5) and the basic (2024W115)
// form. The result is midnight UTC of that day. Dates that do not exist, such as 2023-02-29 or
// week 53 of a year with 52 weeks, are rejected.
func ParseDate(value string) (time.Time, error) {
	if date, ok := parseWeekDate(value); ok {
		return date, nil
	}
	layout := DateLayout
	if len(value) == len(basicDateLayout) {
		layout = basicDateLayout
	}
	date, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", value)
	}
	return date, nil
}

// FormatDate renders a date in the extended ISO-8601 form.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DateOf returns the calendar day of t as midnight UTC. The time zone of t only decides which
// day it is; the result carries no zone information of its own.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day according to now as midnight UTC.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// parseWeekDate parses an ISO-8601 week date such as 2024-W11-5 or 2024W115. Weekday 1 is Monday.
func parseWeekDate(value string) (time.Time, bool) {
	var digits string
	switch {
	case len(value) == 10 && value[4] == '-' && value[5] == 'W' && value[8] == '-':
		digits = value[:4] + value[6:8] + value[9:]
	case len(value) == 8 && value[4] == 'W':
		digits = value[:4] + value[5:]
	default:
		return time.Time{}, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}
	year, _ := strconv.Atoi(digits[:4])
	week, _ := strconv.Atoi(digits[4:6])
	weekday, _ := strconv.Atoi(digits[6:])
	if week < 1 || week > 53 || weekday < 1 || weekday > 7 {
		return time.Time{}, false
	}

	// Week 1 is the week that contains January 4.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	date := monday.AddDate(0, 0, (week-1)*7+weekday-1)
	if isoYear, isoWeek := date.ISOWeek(); isoYear != year || isoWeek != week {
		return time.Time{}, false
	}
	return date, true
}
