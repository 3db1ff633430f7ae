package pricing

import "time"

type holidayWindow struct {
	name string
	// contains reports whether the date (UTC midnight) is inside the window for its year.
	contains func(date time.Time) bool
}

var holidayWindows = []holidayWindow{
	{name: "New Year's", contains: func(d time.Time) bool {
		return (d.Month() == time.December && d.Day() >= 30) || (d.Month() == time.January && d.Day() <= 2)
	}},
	{name: "Valentine's Day", contains: fixedWindow(time.February, 13, 15)},
	{name: "MLK Weekend", contains: mondayHolidayWeekend(func(year int) time.Time {
		return nthWeekday(year, time.January, time.Monday, 3)
	})},
	{name: "Presidents' Day Weekend", contains: mondayHolidayWeekend(func(year int) time.Time {
		return nthWeekday(year, time.February, time.Monday, 3)
	})},
	{name: "Memorial Day Weekend", contains: mondayHolidayWeekend(func(year int) time.Time {
		return lastWeekday(year, time.May, time.Monday)
	})},
	{name: "Fourth of July", contains: fixedWindow(time.July, 2, 6)},
	{name: "Labor Day Weekend", contains: mondayHolidayWeekend(func(year int) time.Time {
		return nthWeekday(year, time.September, time.Monday, 1)
	})},
	{name: "Halloween", contains: fixedWindow(time.October, 30, 31)},
	{name: "Thanksgiving", contains: func(d time.Time) bool {
		thursday := nthWeekday(d.Year(), time.November, time.Thursday, 4)
		return withinDays(d, thursday.AddDate(0, 0, -3), thursday.AddDate(0, 0, 3))
	}},
	{name: "Christmas", contains: fixedWindow(time.December, 22, 28)},
}

// HolidayName returns the display name of the holiday window containing date, if any.
func HolidayName(date time.Time) (string, bool) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, w := range holidayWindows {
		if w.contains(day) {
			return w.name, true
		}
	}
	return "", false
}

// IsLongWeekendDay reports Friday through Monday.
func IsLongWeekendDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday, time.Monday:
		return true
	default:
		return false
	}
}

func fixedWindow(month time.Month, fromDay, toDay int) func(time.Time) bool {
	return func(d time.Time) bool {
		return d.Month() == month && d.Day() >= fromDay && d.Day() <= toDay
	}
}

// mondayHolidayWeekend covers the Friday before a Monday holiday through the holiday itself.
func mondayHolidayWeekend(monday func(year int) time.Time) func(time.Time) bool {
	return func(d time.Time) bool {
		if !IsLongWeekendDay(d) {
			return false
		}
		m := monday(d.Year())
		return withinDays(d, m.AddDate(0, 0, -3), m)
	}
}

func withinDays(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}

func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}
