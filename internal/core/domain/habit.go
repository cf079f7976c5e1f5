package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
)

const MaxNameLen = 100

type Habit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HabitRef is the read-only view of a habit the progress engine works with:
// its identity and the day it started being tracked.
type HabitRef struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

func NewHabit(userID, name string) (*Habit, error) {
	return NewHabitAt(userID, name, time.Now())
}

// NewHabitAt builds a habit anchored at createdAt. Used when importing or
// seeding habits that started in the past.
func NewHabitAt(userID, name string, createdAt time.Time) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanName, err := validateName(name)
	if err != nil {
		return nil, err
	}

	created := createdAt.UTC()

	return &Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      cleanName,
		CreatedAt: created,
		UpdatedAt: created,
	}, nil
}

func (h *Habit) Rename(name string) error {
	cleanName, err := validateName(name)
	if err != nil {
		return err
	}

	h.Name = cleanName
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Ref() HabitRef {
	return HabitRef{ID: h.ID, CreatedAt: h.CreatedAt}
}
