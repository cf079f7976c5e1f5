package http

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

var testLocation = mustLoadLocation("Europe/Rome")

// Friday 15 March 2024, mid-morning in Rome.
var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, testLocation)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type testApp struct {
	router  *gin.Engine
	habits  *repository.InMemoryHabitRepository
	records *repository.InMemoryDayRecordRepository
}

// headerAuth trusts X-User-ID so handler tests don't need real tokens.
func headerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	habits := repository.NewInMemoryHabitRepository()
	records := repository.NewInMemoryDayRecordRepository()

	resolver := SettingsResolver{
		Location: testLocation,
		Locale:   "en",
		Now:      func() time.Time { return testNow },
	}

	router := gin.New()
	api := router.Group("/api/v1", headerAuth())
	NewHabitHandler(services.NewHabitService(habits, records, nil)).RegisterRoutes(api)
	NewRecordHandler(services.NewRecordService(records, habits, nil, nil), resolver).RegisterRoutes(api)
	NewProgressHandler(services.NewProgressService(habits, records, nil), resolver).RegisterRoutes(api)

	return &testApp{router: router, habits: habits, records: records}
}

func (a *testApp) do(method, path, userID, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedHabit(t *testing.T, userID, name string, createdAt time.Time) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabitAt(userID, name, createdAt)
	require.NoError(t, err)
	require.NoError(t, a.habits.Create(context.Background(), habit))
	return habit
}

func (a *testApp) seedRecord(t *testing.T, habit *domain.Habit, day time.Time, status domain.HabitStatus) *domain.DayRecord {
	t.Helper()
	rec, err := a.records.Upsert(context.Background(), domain.NewDayRecord(habit.ID, habit.UserID, day, status))
	require.NoError(t, err)
	return rec
}

func romeDay(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, testLocation)
}
