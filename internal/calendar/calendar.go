package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/errors"
)

// WeekIDOf returns the ISO-8601 week identifier (YYYY-Www) containing t.
// Weeks start Monday; week 1 is the week containing the year's first
// Thursday, so the ISO year can differ from the calendar year near
// January 1.
func WeekIDOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// WeekIDOfDay returns the ISO week identifier for a day string.
func WeekIDOfDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return WeekIDOf(t), nil
}

// ParseDay parses and validates a YYYY-MM-DD day identifier.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, errors.Invalid("day", "%q is not a YYYY-MM-DD date", day)
	}
	return t, nil
}

// ParseWeekID parses and validates a YYYY-Www week identifier, returning
// the Monday of that week. Week numbers that do not exist in the given ISO
// year (e.g. W53 of a 52-week year) are rejected.
func ParseWeekID(weekID string) (time.Time, error) {
	var year, week int
	if n, err := fmt.Sscanf(weekID, "%4d-W%2d", &year, &week); n != 2 || err != nil {
		return time.Time{}, errors.Invalid("week", "%q is not a YYYY-Www identifier", weekID)
	}
	if week < 1 || week > 53 {
		return time.Time{}, errors.Invalid("week", "week number %d out of range", week)
	}

	// January 4 is always inside ISO week 1 of its year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := jan4.AddDate(0, 0, -mondayOffset(jan4.Weekday()))
	monday := week1Monday.AddDate(0, 0, (week-1)*7)

	// Round-tripping catches both unpadded identifiers and week numbers a
	// 52-week ISO year does not have.
	if WeekIDOf(monday) != weekID {
		return time.Time{}, errors.Invalid("week", "%q does not exist", weekID)
	}
	return monday, nil
}

// WeekRange returns the Monday and Sunday day identifiers bounding the
// given ISO week. For any valid date d, WeekRange(WeekIDOf(d)) contains d.
func WeekRange(weekID string) (string, string, error) {
	monday, err := ParseWeekID(weekID)
	if err != nil {
		return "", "", err
	}
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(constants.DateFormat), sunday.Format(constants.DateFormat), nil
}

// MonthRange returns the first and last day identifiers of a YYYY-MM month.
func MonthRange(monthID string) (string, string, error) {
	t, err := time.Parse(constants.MonthFormat, monthID)
	if err != nil {
		return "", "", errors.Invalid("month", "%q is not a YYYY-MM identifier", monthID)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat), nil
}

// DaysInWeek enumerates the seven day identifiers of an ISO week in order.
func DaysInWeek(weekID string) ([]string, error) {
	monday, err := ParseWeekID(weekID)
	if err != nil {
		return nil, err
	}
	days := make([]string, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i).Format(constants.DateFormat)
	}
	return days, nil
}

// DaysInMonth enumerates the day identifiers of a YYYY-MM month in order.
func DaysInMonth(monthID string) ([]string, error) {
	startDay, endDay, err := MonthRange(monthID)
	if err != nil {
		return nil, err
	}
	start, _ := ParseDay(startDay)
	end, _ := ParseDay(endDay)
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(constants.DateFormat))
	}
	return days, nil
}

// RelativeLabel renders a day identifier relative to today as Today,
// Yesterday or Tomorrow, falling back to a readable date. Presentation
// only; aggregation never consumes labels.
func RelativeLabel(day string, today time.Time) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	switch day {
	case today.Format(constants.DateFormat):
		return "Today"
	case today.AddDate(0, 0, -1).Format(constants.DateFormat):
		return "Yesterday"
	case today.AddDate(0, 0, 1).Format(constants.DateFormat):
		return "Tomorrow"
	}
	return t.Format("Mon, Jan 2 2006")
}

// MovingAverage computes a trailing moving average over an ordered series.
// The window shrinks at the start of the series rather than looking before
// the first point. A window below 1 falls back to the default.
func MovingAverage(series []float64, window int) []float64 {
	if window < 1 {
		window = constants.DefaultMovingAverageWindow
	}
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series))
	var sum float64
	for i, v := range series {
		sum += v
		n := window
		if i+1 < window {
			n = i + 1
		} else if i >= window {
			sum -= series[i-window]
		}
		out[i] = sum / float64(n)
	}
	return out
}

// mondayOffset returns days elapsed since the most recent Monday.
func mondayOffset(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
