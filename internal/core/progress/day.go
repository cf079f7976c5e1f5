// Package progress derives streaks and month calendars from a habit's day
// records. Every function is pure: "now", the timezone, the first day of the
// week and the locale come in through Settings, and nothing is cached between
// calls.
package progress

import "time"

// Settings carries the ambient values the computations depend on.
type Settings struct {
	Now          time.Time
	Location     *time.Location
	FirstWeekday time.Weekday
	Locale       string
}

// DefaultSettings uses the process timezone, English and Sunday-first weeks.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		Now:          now,
		Location:     time.Local,
		FirstWeekday: time.Sunday,
		Locale:       DefaultLocale,
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s Settings) firstWeekday() time.Weekday {
	return time.Weekday((int(s.FirstWeekday)%7 + 7) % 7)
}

// Today is the start of the current day in the settings' timezone.
func (s Settings) Today() time.Time {
	return StartOfDay(s.Now, s.location())
}

// DayStart is StartOfDay in the settings' timezone.
func (s Settings) DayStart(t time.Time) time.Time {
	return StartOfDay(t, s.location())
}

// StartOfDay collapses t to midnight of its calendar day in loc. On days
// where midnight does not exist because of a DST jump the first valid instant
// of the day is returned.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysInMonth returns 28-31 depending on month and leap year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civilDay identifies a wall-clock calendar day independently of any
// timezone, so that day arithmetic never trips over 23 or 25 hour days.
type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{year: y, month: m, day: d}
}

func (c civilDay) addDays(n int) civilDay {
	return dayOf(time.Date(c.year, c.month, c.day+n, 12, 0, 0, 0, time.UTC), time.UTC)
}

func (c civilDay) compare(o civilDay) int {
	switch {
	case c.year != o.year:
		return c.year - o.year
	case c.month != o.month:
		return int(c.month) - int(o.month)
	default:
		return c.day - o.day
	}
}

func (c civilDay) before(o civilDay) bool { return c.compare(o) < 0 }

func (c civilDay) after(o civilDay) bool { return c.compare(o) > 0 }
