package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
	"github.com/comitanigiacomo/kanso-habits/internal/metrics"
)

// ProgressService fetches what the progress engine needs and runs it. A
// failure to load records is not an error for the caller: the habit is shown
// as having no records.
type ProgressService struct {
	habitRepo  domain.HabitRepository
	recordRepo domain.DayRecordRepository
	logger     *zap.Logger
}

func NewProgressService(habitRepo domain.HabitRepository, recordRepo domain.DayRecordRepository, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		habitRepo:  habitRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

func (s *ProgressService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *ProgressService) records(ctx context.Context, habitID string) []*domain.DayRecord {
	records, err := s.recordRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		s.fetchFailed(habitID, err)
		return nil
	}
	return records
}

func (s *ProgressService) fetchFailed(habitID string, err error) {
	metrics.RecordFetchFailures.Inc()
	s.logger.Warn("failed to load day records, treating habit as empty",
		zap.String("habit_id", habitID),
		zap.Error(err),
	)
}

func (s *ProgressService) GetStreak(ctx context.Context, habitID, userID string, settings progress.Settings) (domain.StreakResult, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return domain.StreakResult{}, err
	}

	metrics.RecordComputation("streak")
	return progress.CalculateStreak(habitID, s.records(ctx, habitID), settings), nil
}

// GetCalendar builds the month grid offset months away from the current one.
// Future months are not viewable, so a positive offset is clamped to 0.
func (s *ProgressService) GetCalendar(ctx context.Context, habitID, userID string, offset int, settings progress.Settings) (domain.MonthGrid, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return domain.MonthGrid{}, err
	}

	offset = progress.ClampOffset(offset)

	from, to := monthRange(offset, settings)
	records, err := s.recordRepo.ListByHabitIDInRange(ctx, habitID, from, to)
	if err != nil {
		s.fetchFailed(habitID, err)
		records = nil
	}

	metrics.RecordComputation("calendar")
	return progress.BuildMonthGrid(habit.Ref(), offset, records, settings), nil
}

// GetOverview returns streak and today's status for every habit of userID,
// oldest habit first.
func (s *ProgressService) GetOverview(ctx context.Context, userID string, settings progress.Settings) ([]domain.HabitProgress, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := make([]domain.HabitProgress, 0, len(habits))
	for _, h := range habits {
		records := s.records(ctx, h.ID)

		metrics.RecordComputation("overview")
		overview = append(overview, domain.HabitProgress{
			Habit:       h,
			Streak:      progress.CalculateStreak(h.ID, records, settings),
			TodayStatus: progress.DayStatus(settings.Now, h.Ref(), records, settings),
		})
	}
	return overview, nil
}

// monthRange spans the month with one day of margin on both sides, which
// covers records written from another timezone. The grid only looks at days
// of its own month.
func monthRange(offset int, settings progress.Settings) (time.Time, time.Time) {
	first := progress.MonthStart(offset, settings)
	return first.AddDate(0, 0, -1), first.AddDate(0, 1, 1)
}
