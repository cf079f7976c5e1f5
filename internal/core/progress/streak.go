package progress

import (
	"slices"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// CalculateStreak computes the current and best streak of habitID.
//
// Only success records of habitID count; duplicates on the same day collapse
// into one day. The current streak is the run of successful days ending today
// and is 0 when today has no success, even if yesterday had one.
func CalculateStreak(habitID string, records []*domain.DayRecord, s Settings) domain.StreakResult {
	result := domain.StreakResult{HabitID: habitID}

	loc := s.location()
	days := successfulDays(habitID, records, loc)
	if len(days) == 0 {
		return result
	}

	result.BestStreak = bestStreak(days)
	result.CurrentStreak = currentStreak(days, dayOf(s.Now, loc))
	return result
}

func successfulDays(habitID string, records []*domain.DayRecord, loc *time.Location) map[civilDay]struct{} {
	days := make(map[civilDay]struct{})
	for _, r := range records {
		if r == nil || r.HabitID != habitID || r.Status != domain.StatusSuccess {
			continue
		}
		days[dayOf(r.Date, loc)] = struct{}{}
	}
	return days
}

func bestStreak(days map[civilDay]struct{}) int {
	sorted := make([]civilDay, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	slices.SortFunc(sorted, civilDay.compare)

	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].addDays(1) == sorted[i] {
			run++
			continue
		}
		best = max(best, run)
		run = 1
	}
	return max(best, run)
}

// currentStreak walks back from today. The walk can never be longer than the
// number of successful days, which bounds the loop.
func currentStreak(days map[civilDay]struct{}, today civilDay) int {
	streak := 0
	for day := today; streak < len(days); day = day.addDays(-1) {
		if _, ok := days[day]; !ok {
			break
		}
		streak++
	}
	return streak
}
