package domain

import "time"

type StreakResult struct {
	HabitID       string `json:"habit_id"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

type DayVisualStatus string

const (
	DayNotStarted DayVisualStatus = "not_started"
	DaySuccess    DayVisualStatus = "success"
	DayMissed     DayVisualStatus = "missed"
)

// DaySlot is one cell of a month grid. Padding cells have a nil Date, a zero
// Day and no Status.
type DaySlot struct {
	Date   *time.Time      `json:"date,omitempty"`
	Day    int             `json:"day,omitempty"`
	Status DayVisualStatus `json:"status,omitempty"`
}

func (s DaySlot) IsPlaceholder() bool {
	return s.Date == nil
}

type MonthGrid struct {
	HabitID        string     `json:"habit_id"`
	Year           int        `json:"year"`
	Month          time.Month `json:"month"`
	Offset         int        `json:"offset"`
	Title          string     `json:"title"`
	WeekdaySymbols [7]string  `json:"weekday_symbols"`
	Slots          []DaySlot  `json:"slots"`
	CanGoForward   bool       `json:"can_go_forward"`
}

type HabitProgress struct {
	Habit       *Habit          `json:"habit"`
	Streak      StreakResult    `json:"streak"`
	TodayStatus DayVisualStatus `json:"today_status"`
}
