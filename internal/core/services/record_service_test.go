package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func echoUpsert(records *MockRecordRepo) {
	records.On("Upsert", mock.Anything, mock.Anything).Return(func(_ context.Context, r *domain.DayRecord) *domain.DayRecord {
		r.ID = "rec-1"
		return r
	}, nil)
}

func TestRecordService_MarkDay(t *testing.T) {
	ctx := context.Background()
	loc := rome()
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, loc)
	settings := settingsAt(now)
	owned := &domain.Habit{ID: "h1", UserID: "owner", CreatedAt: now.AddDate(0, 0, -10)}

	t.Run("Success: Stores the start of the day and notifies", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		observer := &recordingObserver{}
		svc := NewRecordService(records, habits, observer, nil)

		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		echoUpsert(records)

		record, err := svc.MarkDay(ctx, MarkDayInput{
			HabitID:  "h1",
			UserID:   "owner",
			Date:     time.Date(2026, 10, 15, 18, 30, 0, 0, loc),
			Status:   domain.StatusSuccess,
			Settings: settings,
		})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, loc), record.Date)
		assert.Equal(t, "2026-10-15", record.Day)
		assert.Equal(t, domain.StatusSuccess, record.Status)
		assert.Equal(t, []string{"h1"}, observer.calls())
	})

	t.Run("Success: Late evening UTC counts for the local day", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		svc := NewRecordService(records, habits, nil, nil)

		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		echoUpsert(records)

		record, err := svc.MarkDay(ctx, MarkDayInput{
			HabitID:  "h1",
			UserID:   "owner",
			Date:     time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC),
			Status:   domain.StatusFailure,
			Settings: settings,
		})

		require.NoError(t, err)
		assert.Equal(t, "2026-10-18", record.Day)
	})

	t.Run("Fail: Future day", func(t *testing.T) {
		habits := new(MockHabitRepo)
		svc := NewRecordService(new(MockRecordRepo), habits, nil, nil)

		_, err := svc.MarkDay(ctx, MarkDayInput{
			HabitID:  "h1",
			UserID:   "owner",
			Date:     now.AddDate(0, 0, 1),
			Status:   domain.StatusSuccess,
			Settings: settings,
		})

		assert.ErrorIs(t, err, domain.ErrFutureDate)
		habits.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Invalid status", func(t *testing.T) {
		svc := NewRecordService(new(MockRecordRepo), new(MockHabitRepo), nil, nil)

		_, err := svc.MarkDay(ctx, MarkDayInput{HabitID: "h1", UserID: "owner", Date: now, Status: "done", Settings: settings})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Fail: Habit of another user", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		svc := NewRecordService(records, habits, nil, nil)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)

		_, err := svc.MarkDay(ctx, MarkDayInput{HabitID: "h1", UserID: "intruder", Date: now, Status: domain.StatusSuccess, Settings: settings})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		records.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Day before the habit was created", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		svc := NewRecordService(records, habits, nil, nil)
		startedToday := &domain.Habit{ID: "h2", UserID: "owner", CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
		habits.On("GetByID", ctx, "h2").Return(startedToday, nil)

		_, err := svc.MarkDay(ctx, MarkDayInput{
			HabitID:  "h2",
			UserID:   "owner",
			Date:     now.AddDate(0, 0, -1),
			Status:   domain.StatusSuccess,
			Settings: settings,
		})

		assert.ErrorIs(t, err, domain.ErrDateBeforeHabit)
		records.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Success: Creation day itself can be marked", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		svc := NewRecordService(records, habits, nil, nil)
		startedToday := &domain.Habit{ID: "h2", UserID: "owner", CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
		habits.On("GetByID", ctx, "h2").Return(startedToday, nil)
		echoUpsert(records)

		record, err := svc.MarkDay(ctx, MarkDayInput{
			HabitID:  "h2",
			UserID:   "owner",
			Date:     time.Date(2026, 10, 18, 0, 5, 0, 0, loc),
			Status:   domain.StatusSuccess,
			Settings: settings,
		})

		require.NoError(t, err)
		assert.Equal(t, "2026-10-18", record.Day)
	})
}

func TestRecordService_ToggleToday(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, rome())
	settings := settingsAt(now)
	owned := &domain.Habit{ID: "h1", UserID: "owner"}

	t.Run("Success: No record becomes success", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("GetByHabitAndDay", ctx, "h1", "2026-10-18").Return(nil, domain.ErrRecordNotFound)
		echoUpsert(records)

		record, err := NewRecordService(records, habits, nil, nil).ToggleToday(ctx, "h1", "owner", settings)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, record.Status)
	})

	t.Run("Success: Success becomes none", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("GetByHabitAndDay", ctx, "h1", "2026-10-18").Return(&domain.DayRecord{Status: domain.StatusSuccess}, nil)
		echoUpsert(records)

		record, err := NewRecordService(records, habits, nil, nil).ToggleToday(ctx, "h1", "owner", settings)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusNone, record.Status)
	})

	t.Run("Success: Failure becomes success", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("GetByHabitAndDay", ctx, "h1", "2026-10-18").Return(&domain.DayRecord{Status: domain.StatusFailure}, nil)
		echoUpsert(records)

		record, err := NewRecordService(records, habits, nil, nil).ToggleToday(ctx, "h1", "owner", settings)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, record.Status)
	})

	t.Run("Fail: Lookup error is propagated", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		dbErr := errors.New("timeout")
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("GetByHabitAndDay", ctx, "h1", "2026-10-18").Return(nil, dbErr)

		_, err := NewRecordService(records, habits, nil, nil).ToggleToday(ctx, "h1", "owner", settings)

		assert.ErrorIs(t, err, dbErr)
		records.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestRecordService_ListByHabitID(t *testing.T) {
	ctx := context.Background()
	owned := &domain.Habit{ID: "h1", UserID: "owner"}
	list := []*domain.DayRecord{{ID: "r1", HabitID: "h1"}}

	t.Run("Success: Open range lists everything", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("ListByHabitID", ctx, "h1").Return(list, nil)

		got, err := NewRecordService(records, habits, nil, nil).ListByHabitID(ctx, "h1", "owner", time.Time{}, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, list, got)
	})

	t.Run("Success: Bounded range", func(t *testing.T) {
		habits := new(MockHabitRepo)
		records := new(MockRecordRepo)
		from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
		habits.On("GetByID", ctx, "h1").Return(owned, nil)
		records.On("ListByHabitIDInRange", ctx, "h1", from, to).Return(list, nil)

		got, err := NewRecordService(records, habits, nil, nil).ListByHabitID(ctx, "h1", "owner", from, to)

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()
	settings := settingsAt(time.Date(2026, 10, 18, 10, 0, 0, 0, rome()))

	t.Run("Success: Deletes and notifies", func(t *testing.T) {
		records := new(MockRecordRepo)
		observer := &recordingObserver{}
		records.On("GetByID", ctx, "r1").Return(&domain.DayRecord{ID: "r1", HabitID: "h1", UserID: "owner"}, nil)
		records.On("Delete", ctx, "r1").Return(nil)

		err := NewRecordService(records, new(MockHabitRepo), observer, nil).Delete(ctx, "r1", "owner", settings)

		require.NoError(t, err)
		assert.Equal(t, []string{"h1"}, observer.calls())
	})

	t.Run("Fail: Not the owner", func(t *testing.T) {
		records := new(MockRecordRepo)
		records.On("GetByID", ctx, "r1").Return(&domain.DayRecord{ID: "r1", HabitID: "h1", UserID: "owner"}, nil)

		err := NewRecordService(records, new(MockHabitRepo), nil, nil).Delete(ctx, "r1", "intruder", settings)

		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		records.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Missing record", func(t *testing.T) {
		records := new(MockRecordRepo)
		records.On("GetByID", ctx, "nope").Return(nil, domain.ErrRecordNotFound)

		err := NewRecordService(records, new(MockHabitRepo), nil, nil).Delete(ctx, "nope", "owner", settings)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}
