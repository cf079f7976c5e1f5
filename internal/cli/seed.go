package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

var ErrStoreNotEmpty = errors.New("the store already has habits")

type sampleDay struct {
	daysAgo int
	status  domain.HabitStatus
}

type sampleHabit struct {
	name    string
	daysAgo int
	days    []sampleDay
}

// sampleHabits is a small history that exercises a broken streak, a gap and a
// habit started recently.
var sampleHabits = []sampleHabit{
	{
		name:    "Go Gym",
		daysAgo: 10,
		days: []sampleDay{
			{7, domain.StatusSuccess}, {6, domain.StatusSuccess}, {5, domain.StatusSuccess}, {4, domain.StatusSuccess},
			{3, domain.StatusFailure},
			{2, domain.StatusSuccess}, {1, domain.StatusSuccess}, {0, domain.StatusSuccess},
		},
	},
	{
		name:    "No sugar",
		daysAgo: 7,
		days:    []sampleDay{{3, domain.StatusSuccess}, {1, domain.StatusSuccess}},
	},
	{
		name:    "Study",
		daysAgo: 3,
		days:    []sampleDay{{0, domain.StatusSuccess}},
	},
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty store with sample habits",
		Args:  cobra.NoArgs,
		RunE: opts.withEnv(func(e *env, _ []string) error {
			existing, err := e.habits.ListByUserID(e.ctx, LocalUser)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return ErrStoreNotEmpty
			}

			if err := seed(e); err != nil {
				return err
			}

			Ok(e.out, fmt.Sprintf("Added %d sample habits", len(sampleHabits)))
			overview, err := e.stats.GetOverview(e.ctx, LocalUser, e.settings)
			if err != nil {
				return err
			}
			printOverview(e, overview)
			return nil
		}),
	}
}

func seed(e *env) error {
	today := e.settings.Today()

	for _, sample := range sampleHabits {
		habit, err := domain.NewHabitAt(LocalUser, sample.name, today.AddDate(0, 0, -sample.daysAgo))
		if err != nil {
			return err
		}
		if err := e.habitRepo.Create(e.ctx, habit); err != nil {
			return fmt.Errorf("seed %q: %w", sample.name, err)
		}

		for _, d := range sample.days {
			if _, err := e.records.MarkDay(e.ctx, services.MarkDayInput{
				HabitID:  habit.ID,
				UserID:   LocalUser,
				Date:     today.AddDate(0, 0, -d.daysAgo),
				Status:   d.status,
				Settings: e.settings,
			}); err != nil {
				return fmt.Errorf("seed %q: %w", sample.name, err)
			}
		}
	}
	return nil
}
