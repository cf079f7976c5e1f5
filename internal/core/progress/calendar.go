package progress

import (
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// MonthStart returns the first day of the month that is offset months away
// from the month containing today.
func MonthStart(offset int, s Settings) time.Time {
	today := s.Today()
	return time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, s.location())
}

// LeadingPlaceholders is the number of empty cells before day 1 when weeks
// start on firstWeekday.
func LeadingPlaceholders(firstOfMonth, firstWeekday time.Weekday) int {
	return (int(firstOfMonth) - int(firstWeekday) + 14) % 7
}

// CanNavigateForward reports whether a calendar showing offset may move one
// month ahead. Future months are never shown.
func CanNavigateForward(offset int) bool {
	return offset < 0
}

// ClampOffset pins offsets pointing into the future to the current month.
func ClampOffset(offset int) int {
	return min(offset, 0)
}

// BuildMonthGrid lays out the month at offset as whole weeks of day slots and
// classifies each real day. It does not bound offset; callers that must not
// show future months go through ClampOffset first.
func BuildMonthGrid(habit domain.HabitRef, offset int, records []*domain.DayRecord, s Settings) domain.MonthGrid {
	loc := s.location()
	first := MonthStart(offset, s)
	year, month := first.Year(), first.Month()

	today := dayOf(s.Now, loc)
	anchor := dayOf(habit.CreatedAt, loc)
	byDay := statusByDay(habit.ID, records, loc)

	leading := LeadingPlaceholders(first.Weekday(), s.firstWeekday())
	count := DaysInMonth(year, month)

	slots := make([]domain.DaySlot, 0, leading+count+6)
	for range leading {
		slots = append(slots, domain.DaySlot{})
	}

	for day := 1; day <= count; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		slots = append(slots, domain.DaySlot{
			Date:   &date,
			Day:    day,
			Status: classify(civilDay{year: year, month: month, day: day}, today, anchor, byDay),
		})
	}

	for len(slots)%7 != 0 {
		slots = append(slots, domain.DaySlot{})
	}

	return domain.MonthGrid{
		HabitID:        habit.ID,
		Year:           year,
		Month:          month,
		Offset:         offset,
		Title:          MonthTitle(year, month, s.Locale),
		WeekdaySymbols: WeekdaySymbols(s.firstWeekday(), s.Locale),
		Slots:          slots,
		CanGoForward:   CanNavigateForward(offset),
	}
}

// DayStatus classifies a single day of habit. It builds the same per-day
// lookup BuildMonthGrid uses, so prefer BuildMonthGrid for whole months.
func DayStatus(day time.Time, habit domain.HabitRef, records []*domain.DayRecord, s Settings) domain.DayVisualStatus {
	loc := s.location()
	return classify(dayOf(day, loc), dayOf(s.Now, loc), dayOf(habit.CreatedAt, loc), statusByDay(habit.ID, records, loc))
}

// statusByDay maps each day to the status recorded for it. With several
// records on one day the last one wins, except that a success is never
// overwritten: a day with any success record is a completed day.
func statusByDay(habitID string, records []*domain.DayRecord, loc *time.Location) map[civilDay]domain.HabitStatus {
	byDay := make(map[civilDay]domain.HabitStatus, len(records))
	for _, r := range records {
		if r == nil || r.HabitID != habitID {
			continue
		}
		key := dayOf(r.Date, loc)
		if byDay[key] == domain.StatusSuccess {
			continue
		}
		byDay[key] = r.Status
	}
	return byDay
}

// classify treats a missing record and an explicit failure alike: both are
// missed once the day is inside the habit's lifetime.
func classify(day, today, anchor civilDay, byDay map[civilDay]domain.HabitStatus) domain.DayVisualStatus {
	if day.after(today) || day.before(anchor) {
		return domain.DayNotStarted
	}
	if byDay[day] == domain.StatusSuccess {
		return domain.DaySuccess
	}
	return domain.DayMissed
}
