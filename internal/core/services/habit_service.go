package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type HabitService struct {
	repo    domain.HabitRepository
	records domain.DayRecordRepository
	logger  *zap.Logger
}

func NewHabitService(repo domain.HabitRepository, records domain.DayRecordRepository, logger *zap.Logger) *HabitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HabitService{
		repo:    repo,
		records: records,
		logger:  logger,
	}
}

// CreateHabitInput.StartedAt anchors the habit's calendar. Zero means now.
type CreateHabitInput struct {
	UserID    string
	Name      string
	StartedAt time.Time
}

type RenameHabitInput struct {
	ID     string
	UserID string
	Name   string
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	var (
		habit *domain.Habit
		err   error
	)
	if input.StartedAt.IsZero() {
		habit, err = domain.NewHabit(input.UserID, input.Name)
	} else {
		habit, err = domain.NewHabitAt(input.UserID, input.Name, input.StartedAt)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.logger.Info("habit created", zap.String("habit_id", habit.ID), zap.String("user_id", habit.UserID))
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Get returns the habit only if it belongs to userID. Someone else's habit is
// reported as not found.
func (s *HabitService) Get(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Rename(ctx context.Context, input RenameHabitInput) (*domain.Habit, error) {
	habit, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := habit.Rename(input.Name); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete removes the habit together with its day records.
func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.records.DeleteByHabitID(ctx, id); err != nil {
		return fmt.Errorf("habit service: failed to delete records of %s: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("habit deleted", zap.String("habit_id", id), zap.String("user_id", userID))
	return nil
}
