package progress_test

import (
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
)

const habitID = "go-gym"

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func settingsAt(now time.Time) progress.Settings {
	return progress.Settings{Now: now, Location: now.Location(), FirstWeekday: time.Sunday, Locale: "en"}
}

func record(id string, date time.Time, status domain.HabitStatus) *domain.DayRecord {
	return &domain.DayRecord{HabitID: id, Date: date, Status: status}
}

func TestCalculateStreak(t *testing.T) {
	loc := rome(t)
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, loc)
	daysAgo := func(n int) time.Time {
		return now.AddDate(0, 0, -n)
	}

	tests := []struct {
		name        string
		records     []*domain.DayRecord
		wantCurrent int
		wantBest    int
	}{
		{
			name:        "Empty records",
			records:     nil,
			wantCurrent: 0,
			wantBest:    0,
		},
		{
			name: "Only failures and none",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(0), domain.StatusFailure),
				record(habitID, daysAgo(1), domain.StatusNone),
			},
			wantCurrent: 0,
			wantBest:    0,
		},
		{
			name: "Records of other habits are ignored",
			records: []*domain.DayRecord{
				record("no-sugar", daysAgo(0), domain.StatusSuccess),
				record("no-sugar", daysAgo(1), domain.StatusSuccess),
			},
			wantCurrent: 0,
			wantBest:    0,
		},
		{
			name: "Single success today",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(0), domain.StatusSuccess),
			},
			wantCurrent: 1,
			wantBest:    1,
		},
		{
			name: "Yesterday only does not keep the current streak alive",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(1), domain.StatusSuccess),
				record(habitID, daysAgo(2), domain.StatusSuccess),
			},
			wantCurrent: 0,
			wantBest:    2,
		},
		{
			name: "Gap of two days splits runs",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(6), domain.StatusSuccess),
				record(habitID, daysAgo(5), domain.StatusSuccess),
				record(habitID, daysAgo(4), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusSuccess),
				record(habitID, daysAgo(0), domain.StatusSuccess),
			},
			wantCurrent: 2,
			wantBest:    3,
		},
		{
			name: "Go Gym sample: four day run, failure, three day run to today",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(7), domain.StatusSuccess),
				record(habitID, daysAgo(6), domain.StatusSuccess),
				record(habitID, daysAgo(5), domain.StatusSuccess),
				record(habitID, daysAgo(4), domain.StatusSuccess),
				record(habitID, daysAgo(3), domain.StatusFailure),
				record(habitID, daysAgo(2), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusSuccess),
				record(habitID, daysAgo(0), domain.StatusSuccess),
			},
			wantCurrent: 3,
			wantBest:    4,
		},
		{
			name: "Unsorted input",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(2), domain.StatusSuccess),
				record(habitID, daysAgo(0), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusSuccess),
			},
			wantCurrent: 3,
			wantBest:    3,
		},
		{
			name: "Duplicate records on one day count once",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(0), domain.StatusSuccess),
				record(habitID, daysAgo(0).Add(-9*time.Hour), domain.StatusSuccess),
				record(habitID, daysAgo(0).Add(13*time.Hour), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusSuccess),
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "Success wins over a conflicting failure on the same day",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(0), domain.StatusFailure),
				record(habitID, daysAgo(0), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusSuccess),
				record(habitID, daysAgo(1), domain.StatusFailure),
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "Nil records are skipped",
			records: []*domain.DayRecord{
				nil,
				record(habitID, daysAgo(0), domain.StatusSuccess),
			},
			wantCurrent: 1,
			wantBest:    1,
		},
		{
			name: "Longest streak in the past",
			records: []*domain.DayRecord{
				record(habitID, daysAgo(0), domain.StatusSuccess),
				record(habitID, daysAgo(10), domain.StatusSuccess),
				record(habitID, daysAgo(11), domain.StatusSuccess),
				record(habitID, daysAgo(12), domain.StatusSuccess),
			},
			wantCurrent: 1,
			wantBest:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.CalculateStreak(habitID, tt.records, settingsAt(now))

			assert.Equal(t, habitID, got.HabitID)
			assert.Equal(t, tt.wantCurrent, got.CurrentStreak, "current streak mismatch")
			assert.Equal(t, tt.wantBest, got.BestStreak, "best streak mismatch")
		})
	}
}

func TestCalculateStreak_Timezones(t *testing.T) {
	loc := rome(t)

	t.Run("Days are taken in the settings' timezone", func(t *testing.T) {
		// 23:30 UTC on the 17th is already the 18th in Rome.
		late := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)
		records := []*domain.DayRecord{record(habitID, late, domain.StatusSuccess)}

		inRome := progress.CalculateStreak(habitID, records, progress.Settings{
			Now:      time.Date(2026, 10, 18, 10, 0, 0, 0, loc),
			Location: loc,
		})
		inUTC := progress.CalculateStreak(habitID, records, progress.Settings{
			Now:      time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
			Location: time.UTC,
		})

		assert.Equal(t, 1, inRome.CurrentStreak)
		assert.Equal(t, 0, inUTC.CurrentStreak)
		assert.Equal(t, 1, inUTC.BestStreak)
	})

	t.Run("A 25 hour DST day still counts as one day", func(t *testing.T) {
		// Europe/Rome leaves DST on 2026-10-25.
		now := time.Date(2026, 10, 26, 12, 0, 0, 0, loc)
		records := []*domain.DayRecord{
			record(habitID, time.Date(2026, 10, 24, 0, 0, 0, 0, loc), domain.StatusSuccess),
			record(habitID, time.Date(2026, 10, 25, 0, 0, 0, 0, loc), domain.StatusSuccess),
			record(habitID, time.Date(2026, 10, 26, 0, 0, 0, 0, loc), domain.StatusSuccess),
		}

		got := progress.CalculateStreak(habitID, records, settingsAt(now))

		assert.Equal(t, 3, got.CurrentStreak)
		assert.Equal(t, 3, got.BestStreak)
	})

	t.Run("A 23 hour DST day still counts as one day", func(t *testing.T) {
		// Europe/Rome enters DST on 2026-03-29.
		now := time.Date(2026, 3, 30, 8, 0, 0, 0, loc)
		records := []*domain.DayRecord{
			record(habitID, time.Date(2026, 3, 28, 23, 0, 0, 0, loc), domain.StatusSuccess),
			record(habitID, time.Date(2026, 3, 29, 23, 0, 0, 0, loc), domain.StatusSuccess),
			record(habitID, time.Date(2026, 3, 30, 0, 30, 0, 0, loc), domain.StatusSuccess),
		}

		got := progress.CalculateStreak(habitID, records, settingsAt(now))

		assert.Equal(t, 3, got.CurrentStreak)
	})
}

func TestCalculateStreak_BestNeverBelowCurrent(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		var records []*domain.DayRecord
		for day := 0; day < 40; day++ {
			if rng.Intn(3) == 0 {
				continue
			}
			status := domain.StatusSuccess
			if rng.Intn(4) == 0 {
				status = domain.StatusFailure
			}
			records = append(records, record(habitID, now.AddDate(0, 0, -day), status))
		}

		got := progress.CalculateStreak(habitID, records, settingsAt(now))

		require.GreaterOrEqual(t, got.CurrentStreak, 0)
		require.GreaterOrEqual(t, got.BestStreak, got.CurrentStreak, "iteration %d", i)
	}
}
