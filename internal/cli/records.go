package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

func newMarkCmd(opts *rootOptions) *cobra.Command {
	var date, status string

	cmd := &cobra.Command{
		Use:   "mark <habit>",
		Short: "Record how a day went",
		Long: `Record the status of a habit for one day. Marking the same day again
replaces the earlier status. Days in the future cannot be marked.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}

			st, err := domain.ParseHabitStatus(status)
			if err != nil {
				return err
			}

			day := e.settings.Today()
			if date != "" {
				if day, err = time.ParseInLocation(domain.DayKeyLayout, date, e.settings.Location); err != nil {
					return fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", date)
				}
			}

			rec, err := e.records.MarkDay(e.ctx, services.MarkDayInput{
				HabitID:  habit.ID,
				UserID:   LocalUser,
				Date:     day,
				Status:   st,
				Settings: e.settings,
			})
			if err != nil {
				return err
			}

			Ok(e.out, fmt.Sprintf("%s on %s: %s", habit.Name, rec.Day, rec.Status))
			return printStreakLine(e, habit)
		}),
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to mark (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&status, "status", "s", string(domain.StatusSuccess), "success, failure or none")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <habit>",
		Aliases: []string{"done"},
		Short:   "Flip today between done and not done",
		Args:    cobra.ExactArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}

			rec, err := e.records.ToggleToday(e.ctx, habit.ID, LocalUser, e.settings)
			if err != nil {
				return err
			}

			if rec.Status == domain.StatusSuccess {
				Ok(e.out, fmt.Sprintf("%s done for today", habit.Name))
			} else {
				fmt.Fprintln(e.out, Muted.Render(fmt.Sprintf("  %s not done today", habit.Name)))
			}
			return printStreakLine(e, habit)
		}),
	}
}

func printStreakLine(e *env, habit *domain.Habit) error {
	streak, err := e.stats.GetStreak(e.ctx, habit.ID, LocalUser, e.settings)
	if err != nil {
		return err
	}
	if streak.CurrentStreak > 0 {
		fmt.Fprintf(e.out, "  %s %s\n", IconFire, plural(streak.CurrentStreak, "day")+" in a row")
	}
	return nil
}
