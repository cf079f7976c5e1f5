package services

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
)

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *MockHabitRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) Upsert(ctx context.Context, record *domain.DayRecord) (*domain.DayRecord, error) {
	args := m.Called(ctx, record)
	if fn, ok := args.Get(0).(func(context.Context, *domain.DayRecord) *domain.DayRecord); ok {
		return fn(ctx, record), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) GetByID(ctx context.Context, id string) (*domain.DayRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) GetByHabitAndDay(ctx context.Context, habitID, day string) (*domain.DayRecord, error) {
	args := m.Called(ctx, habitID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.DayRecord, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) ListByHabitIDInRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.DayRecord, error) {
	args := m.Called(ctx, habitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecordRepo) DeleteByHabitID(ctx context.Context, habitID string) error {
	return m.Called(ctx, habitID).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type recordingObserver struct {
	mu       sync.Mutex
	habitIDs []string
}

func (o *recordingObserver) Enqueue(habitID string, _ progress.Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.habitIDs = append(o.habitIDs, habitID)
}

func (o *recordingObserver) calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.habitIDs...)
}

func rome() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		panic(err)
	}
	return loc
}

func settingsAt(now time.Time) progress.Settings {
	return progress.Settings{
		Now:          now,
		Location:     now.Location(),
		FirstWeekday: time.Monday,
		Locale:       "en",
	}
}
