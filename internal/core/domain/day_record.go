package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRecord   = errors.New("invalid day record data")
	ErrInvalidStatus   = errors.New("invalid status (must be success, failure, or none)")
	ErrFutureDate      = errors.New("cannot record a day in the future")
	ErrDateBeforeHabit = errors.New("cannot record a day before the habit started")
)

type HabitStatus string

const (
	StatusSuccess HabitStatus = "success"
	StatusFailure HabitStatus = "failure"
	StatusNone    HabitStatus = "none"
)

const DayKeyLayout = "2006-01-02"

func (s HabitStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusNone:
		return true
	}
	return false
}

func ParseHabitStatus(raw string) (HabitStatus, error) {
	s := HabitStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// DayRecord is one observation of a habit's status for a calendar day.
// Day is the YYYY-MM-DD key of Date in the timezone the record was written
// from, and is what keeps a habit to one record per day in storage.
type DayRecord struct {
	ID      string      `json:"id" db:"id"`
	HabitID string      `json:"habit_id" db:"habit_id"`
	UserID  string      `json:"user_id" db:"user_id"`
	Date    time.Time   `json:"date" db:"date"`
	Day     string      `json:"day" db:"day"`
	Status  HabitStatus `json:"status" db:"status"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewDayRecord(habitID, userID string, date time.Time, status HabitStatus) *DayRecord {
	now := time.Now().UTC()

	return &DayRecord{
		HabitID: habitID,
		UserID:  userID,
		Date:    date,
		Day:     date.Format(DayKeyLayout),
		Status:  status,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *DayRecord) Validate() error {
	if strings.TrimSpace(r.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidRecord)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
