package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound  = errors.New("habit not found")
	ErrRecordNotFound = errors.New("day record not found")
)

type HabitRepository interface {
	// Create persists a new habit in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits of a user, oldest first.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit from the system.
	Delete(ctx context.Context, id string) error
}

type DayRecordRepository interface {
	// Upsert stores the record for (HabitID, Day). An existing record for the
	// same day is overwritten and its version bumped. The stored row is returned.
	Upsert(ctx context.Context, record *DayRecord) (*DayRecord, error)

	GetByID(ctx context.Context, id string) (*DayRecord, error)

	// GetByHabitAndDay looks a record up by its YYYY-MM-DD day key.
	GetByHabitAndDay(ctx context.Context, habitID, day string) (*DayRecord, error)

	// ListByHabitID returns every record of a habit, in no particular order.
	ListByHabitID(ctx context.Context, habitID string) ([]*DayRecord, error)

	// ListByHabitIDInRange returns records whose Date falls within [from, to].
	ListByHabitIDInRange(ctx context.Context, habitID string, from, to time.Time) ([]*DayRecord, error)

	Delete(ctx context.Context, id string) error

	DeleteByHabitID(ctx context.Context, habitID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
