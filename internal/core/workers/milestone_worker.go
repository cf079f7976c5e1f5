package workers

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
	"github.com/comitanigiacomo/kanso-habits/internal/metrics"
)

// Milestones are the current-streak lengths worth celebrating.
var Milestones = []int{3, 7, 14, 21, 30, 60, 100, 365}

const defaultQueueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
}

type RecordRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.DayRecord, error)
}

type MilestoneJob struct {
	HabitID  string
	Settings progress.Settings
}

type Milestone struct {
	HabitID   string
	HabitName string
	Days      int
}

// MilestoneWorker recomputes a habit's streak after its records change and
// reports each milestone once. A milestone can be reported again after the
// streak has dropped below it.
type MilestoneWorker struct {
	habitRepo  HabitRepository
	recordRepo RecordRepository
	logger     *zap.Logger
	jobs       chan MilestoneJob

	mu       sync.Mutex
	reported map[string]int
	onReach  func(Milestone)
}

func NewMilestoneWorker(hRepo HabitRepository, rRepo RecordRepository, logger *zap.Logger) *MilestoneWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilestoneWorker{
		habitRepo:  hRepo,
		recordRepo: rRepo,
		logger:     logger,
		jobs:       make(chan MilestoneJob, defaultQueueSize),
		reported:   make(map[string]int),
	}
}

// OnMilestone registers a callback run on the worker goroutine for every
// reached milestone. It must be set before Start.
func (w *MilestoneWorker) OnMilestone(fn func(Milestone)) {
	w.onReach = fn
}

// Start consumes jobs until ctx is cancelled. The returned channel is closed
// once the worker goroutine has exited.
func (w *MilestoneWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.logger.Info("milestone worker started")
		for {
			select {
			case job := <-w.jobs:
				w.Process(ctx, job)
			case <-ctx.Done():
				w.logger.Info("milestone worker shutting down")
				return
			}
		}
	}()
	return done
}

// Enqueue never blocks: when the queue is full the job is dropped.
func (w *MilestoneWorker) Enqueue(habitID string, s progress.Settings) {
	select {
	case w.jobs <- MilestoneJob{HabitID: habitID, Settings: s}:
	default:
		metrics.MilestoneJobsDropped.Inc()
		w.logger.Warn("milestone queue full, dropping job", zap.String("habit_id", habitID))
	}
}

// Process handles one job synchronously and returns the milestone it
// reached, if any.
func (w *MilestoneWorker) Process(ctx context.Context, job MilestoneJob) (Milestone, bool) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		w.logger.Warn("milestone worker: failed to fetch habit", zap.String("habit_id", job.HabitID), zap.Error(err))
		return Milestone{}, false
	}

	records, err := w.recordRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		w.logger.Warn("milestone worker: failed to fetch records", zap.String("habit_id", job.HabitID), zap.Error(err))
		return Milestone{}, false
	}

	streak := progress.CalculateStreak(habit.ID, records, job.Settings)
	reached := highestMilestone(streak.CurrentStreak)

	w.mu.Lock()
	prev := w.reported[habit.ID]
	w.reported[habit.ID] = reached
	w.mu.Unlock()

	if reached == 0 || reached <= prev {
		return Milestone{}, false
	}

	m := Milestone{HabitID: habit.ID, HabitName: habit.Name, Days: reached}
	metrics.StreakMilestones.WithLabelValues(strconv.Itoa(reached)).Inc()
	w.logger.Info("streak milestone reached",
		zap.String("habit_id", habit.ID),
		zap.String("habit_name", habit.Name),
		zap.Int("days", reached),
	)
	if w.onReach != nil {
		w.onReach(m)
	}
	return m, true
}

func highestMilestone(streak int) int {
	best := 0
	for _, m := range Milestones {
		if streak >= m {
			best = m
		}
	}
	return best
}
