package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// The in-memory repositories hand out copies so callers can never mutate the
// stored values behind the lock.

type InMemoryHabitRepository struct {
	store map[string]domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return &habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, &h)
		}
	}

	slices.SortFunc(habits, func(a, b *domain.Habit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		return 1
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type dayKey struct {
	habitID string
	day     string
}

type InMemoryDayRecordRepository struct {
	store map[string]domain.DayRecord
	byDay map[dayKey]string

	mu sync.RWMutex
}

func NewInMemoryDayRecordRepository() *InMemoryDayRecordRepository {
	return &InMemoryDayRecordRepository{
		store: make(map[string]domain.DayRecord),
		byDay: make(map[dayKey]string),
	}
}

func (r *InMemoryDayRecordRepository) Upsert(ctx context.Context, rec *domain.DayRecord) (*domain.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.Day == "" {
		rec.Day = rec.Date.Format(domain.DayKeyLayout)
	}
	key := dayKey{habitID: rec.HabitID, day: rec.Day}
	now := time.Now().UTC()

	if id, ok := r.byDay[key]; ok {
		existing := r.store[id]
		existing.Status = rec.Status
		existing.Date = rec.Date
		existing.Version++
		existing.UpdatedAt = now
		r.store[id] = existing
		return &existing, nil
	}

	stored := *rec
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Version = 1
	stored.UpdatedAt = now
	r.store[stored.ID] = stored
	r.byDay[key] = stored.ID
	return &stored, nil
}

func (r *InMemoryDayRecordRepository) GetByID(ctx context.Context, id string) (*domain.DayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *InMemoryDayRecordRepository) GetByHabitAndDay(ctx context.Context, habitID, day string) (*domain.DayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey{habitID: habitID, day: day}]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	rec := r.store[id]
	return &rec, nil
}

func (r *InMemoryDayRecordRepository) list(keep func(domain.DayRecord) bool) []*domain.DayRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.DayRecord{}
	for _, rec := range r.store {
		if keep(rec) {
			out = append(out, &rec)
		}
	}
	slices.SortFunc(out, func(a, b *domain.DayRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func (r *InMemoryDayRecordRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.DayRecord, error) {
	return r.list(func(rec domain.DayRecord) bool {
		return rec.HabitID == habitID
	}), nil
}

func (r *InMemoryDayRecordRepository) ListByHabitIDInRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.DayRecord, error) {
	return r.list(func(rec domain.DayRecord) bool {
		return rec.HabitID == habitID && !rec.Date.Before(from) && !rec.Date.After(to)
	}), nil
}

func (r *InMemoryDayRecordRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.store[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store, id)
	delete(r.byDay, dayKey{habitID: rec.HabitID, day: rec.Day})
	return nil
}

func (r *InMemoryDayRecordRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.store {
		if rec.HabitID == habitID {
			delete(r.store, id)
			delete(r.byDay, dayKey{habitID: rec.HabitID, day: rec.Day})
		}
	}
	return nil
}

type InMemoryUserRepository struct {
	byID    map[string]domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailAlreadyExists
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
