package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
)

// RecordObserver is told about every habit whose records changed.
type RecordObserver interface {
	Enqueue(habitID string, s progress.Settings)
}

type RecordService struct {
	repo      domain.DayRecordRepository
	habitRepo domain.HabitRepository
	observer  RecordObserver
	logger    *zap.Logger
}

func NewRecordService(repo domain.DayRecordRepository, habitRepo domain.HabitRepository, observer RecordObserver, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		repo:      repo,
		habitRepo: habitRepo,
		observer:  observer,
		logger:    logger,
	}
}

type MarkDayInput struct {
	HabitID  string
	UserID   string
	Date     time.Time
	Status   domain.HabitStatus
	Settings progress.Settings
}

// ownedHabit reports someone else's habit as not found.
func (s *RecordService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

// MarkDay stores the status of a habit for the calendar day containing
// input.Date. A habit has at most one record per day, so marking a day twice
// replaces the earlier status. Days after today or before the habit's creation
// day are rejected.
func (s *RecordService) MarkDay(ctx context.Context, input MarkDayInput) (*domain.DayRecord, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	day := input.Settings.DayStart(input.Date)
	if day.After(input.Settings.Today()) {
		return nil, domain.ErrFutureDate
	}

	habit, err := s.ownedHabit(ctx, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}
	if day.Before(input.Settings.DayStart(habit.CreatedAt)) {
		return nil, domain.ErrDateBeforeHabit
	}

	record := domain.NewDayRecord(input.HabitID, input.UserID, day, input.Status)
	if err := record.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}

	s.notify(stored.HabitID, input.Settings)
	return stored, nil
}

// ToggleToday flips today's status between success and none.
func (s *RecordService) ToggleToday(ctx context.Context, habitID, userID string, settings progress.Settings) (*domain.DayRecord, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	today := settings.Today()
	next := domain.StatusSuccess

	existing, err := s.repo.GetByHabitAndDay(ctx, habitID, today.Format(domain.DayKeyLayout))
	switch {
	case err == nil && existing.Status == domain.StatusSuccess:
		next = domain.StatusNone
	case err != nil && !errors.Is(err, domain.ErrRecordNotFound):
		return nil, err
	}

	return s.MarkDay(ctx, MarkDayInput{
		HabitID:  habitID,
		UserID:   userID,
		Date:     today,
		Status:   next,
		Settings: settings,
	})
}

func (s *RecordService) GetByID(ctx context.Context, id, userID string) (*domain.DayRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

// ListByHabitID returns the records of a habit. A zero from or to leaves that
// side of the range open.
func (s *RecordService) ListByHabitID(ctx context.Context, habitID, userID string, from, to time.Time) ([]*domain.DayRecord, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.repo.ListByHabitID(ctx, habitID)
	}
	if to.IsZero() {
		to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return s.repo.ListByHabitIDInRange(ctx, habitID, from, to)
}

func (s *RecordService) Delete(ctx context.Context, id, userID string, settings progress.Settings) error {
	record, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(record.HabitID, settings)
	return nil
}

func (s *RecordService) notify(habitID string, settings progress.Settings) {
	if s.observer == nil {
		return
	}
	s.observer.Enqueue(habitID, settings)
}
