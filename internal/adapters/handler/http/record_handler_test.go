package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func TestMarkDay(t *testing.T) {
	t.Run("Success: stores the day and overwrites on repeat", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))
		path := "/api/v1/habits/" + habit.ID + "/records/2024-03-14"

		w := app.do(http.MethodPut, path, "user-1", `{"status": "failure"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = app.do(http.MethodPut, path, "user-1", `{"status": "success"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rec domain.DayRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		assert.Equal(t, "2024-03-14", rec.Day)
		assert.Equal(t, domain.StatusSuccess, rec.Status)
		assert.Equal(t, 2, rec.Version)

		records, err := app.records.ListByHabitID(context.Background(), habit.ID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Fail: 400 for a future day", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))

		w := app.do(http.MethodPut, "/api/v1/habits/"+habit.ID+"/records/2024-03-16", "user-1", `{"status": "success"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrFutureDate.Error())
	})

	t.Run("Success: day is anchored in the request timezone", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))

		w := app.do(http.MethodPut, "/api/v1/habits/"+habit.ID+"/records/2024-03-15", "user-1",
			`{"status": "success"}`, map[string]string{TimezoneHeader: "America/Los_Angeles"})

		require.Equal(t, http.StatusOK, w.Code)
		var rec domain.DayRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		la := mustLoadLocation("America/Los_Angeles")
		assert.True(t, rec.Date.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, la)))
	})

	t.Run("Fail: 400 for a bad date, status or timezone", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))
		base := "/api/v1/habits/" + habit.ID + "/records/"

		w := app.do(http.MethodPut, base+"14-03-2024", "user-1", `{"status": "success"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = app.do(http.MethodPut, base+"2024-03-14", "user-1", `{"status": "maybe"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = app.do(http.MethodPut, base+"2024-03-14", "user-1", `{"status": "success"}`,
			map[string]string{TimezoneHeader: "Mars/Olympus_Mons"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrInvalidTimezone.Error())
	})

	t.Run("Fail: 404 for another user's habit", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))

		w := app.do(http.MethodPut, "/api/v1/habits/"+habit.ID+"/records/2024-03-14", "intruder", `{"status": "success"}`, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 400 for a day before the habit started", func(t *testing.T) {
		app := newTestApp(t)
		habit := app.seedHabit(t, "user-1", "Gym", testNow.Add(-time.Hour))
		base := "/api/v1/habits/" + habit.ID

		w := app.do(http.MethodPut, base+"/records/2024-03-14", "user-1", `{"status": "success"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrDateBeforeHabit.Error())

		w = app.do(http.MethodPut, base+"/records/2024-03-15", "user-1", `{"status": "success"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = app.do(http.MethodGet, base+"/streak", "user-1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var streak domain.StreakResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
		assert.Equal(t, 1, streak.CurrentStreak)

		w = app.do(http.MethodGet, base+"/calendar", "user-1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var grid domain.MonthGrid
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
		statuses := map[int]domain.DayVisualStatus{}
		for _, slot := range grid.Slots {
			if !slot.IsPlaceholder() {
				statuses[slot.Day] = slot.Status
			}
		}
		assert.Equal(t, domain.DayNotStarted, statuses[14])
		assert.Equal(t, domain.DaySuccess, statuses[15])
	})
}

func TestToggleToday(t *testing.T) {
	app := newTestApp(t)
	habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))
	path := "/api/v1/habits/" + habit.ID + "/records/today/toggle"

	var rec domain.DayRecord

	w := app.do(http.MethodPost, path, "user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "2024-03-15", rec.Day)
	assert.Equal(t, domain.StatusSuccess, rec.Status)

	w = app.do(http.MethodPost, path, "user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, domain.StatusNone, rec.Status)
}

func TestListRecords(t *testing.T) {
	app := newTestApp(t)
	habit := app.seedHabit(t, "user-1", "Gym", romeDay(2, 1))
	app.seedRecord(t, habit, romeDay(2, 20), domain.StatusSuccess)
	app.seedRecord(t, habit, romeDay(3, 10), domain.StatusSuccess)
	app.seedRecord(t, habit, romeDay(3, 12), domain.StatusFailure)

	t.Run("All records", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+habit.ID+"/records", "user-1", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var list []domain.DayRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})

	t.Run("Bounded range", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+habit.ID+"/records?from=2024-03-01&to=2024-03-11", "user-1", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var list []domain.DayRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "2024-03-10", list[0].Day)
	})

	t.Run("Fail: 400 for a malformed bound", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+habit.ID+"/records?from=yesterday", "user-1", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteRecord(t *testing.T) {
	app := newTestApp(t)
	habit := app.seedHabit(t, "user-1", "Gym", romeDay(3, 1))
	rec := app.seedRecord(t, habit, romeDay(3, 14), domain.StatusSuccess)

	w := app.do(http.MethodDelete, "/api/v1/records/"+rec.ID, "intruder", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/api/v1/records/"+rec.ID, "user-1", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(http.MethodDelete, "/api/v1/records/"+rec.ID, "user-1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
