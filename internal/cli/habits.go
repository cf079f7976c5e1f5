package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a new habit",
		Long: `Start tracking a new habit. Days before its start cannot be marked, so
use --since to track a habit you began earlier.`,
		Args: cobra.MinimumNArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			started := e.settings.Now
			if since != "" {
				day, err := time.ParseInLocation(domain.DayKeyLayout, since, e.settings.Location)
				if err != nil {
					return fmt.Errorf("invalid --since %q (use YYYY-MM-DD)", since)
				}
				if day.After(e.settings.Today()) {
					return domain.ErrFutureDate
				}
				started = day
			}

			habit, err := e.habits.Create(e.ctx, services.CreateHabitInput{
				UserID:    LocalUser,
				Name:      strings.Join(args, " "),
				StartedAt: started,
			})
			if err != nil {
				return err
			}
			Ok(e.out, fmt.Sprintf("Tracking %q (%s)", habit.Name, shortID(habit.ID)))
			return nil
		}),
	}

	cmd.Flags().StringVar(&since, "since", "", "Day the habit started (YYYY-MM-DD, default today)")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their streak and today's status",
		Args:    cobra.NoArgs,
		RunE: opts.withEnv(func(e *env, _ []string) error {
			overview, err := e.stats.GetOverview(e.ctx, LocalUser, e.settings)
			if err != nil {
				return err
			}
			printOverview(e, overview)
			return nil
		}),
	}
}

func printOverview(e *env, overview []domain.HabitProgress) {
	if len(overview) == 0 {
		fmt.Fprintln(e.out, Muted.Render("  No habits yet. Start one: ")+Accent.Render(`habits add "Go Gym"`))
		return
	}

	nameWidth := 0
	for _, p := range overview {
		nameWidth = max(nameWidth, lipgloss.Width(p.Habit.Name))
	}
	name := lipgloss.NewStyle().Width(nameWidth + 2)

	fmt.Fprintln(e.out)
	for _, p := range overview {
		streak := Muted.Render("no streak")
		if p.Streak.CurrentStreak > 0 {
			streak = IconFire + " " + plural(p.Streak.CurrentStreak, "day")
		}
		fmt.Fprintf(e.out, "  %s  %s %s%s %s\n",
			Muted.Render(shortID(p.Habit.ID)),
			statusMark(p.TodayStatus),
			name.Render(p.Habit.Name),
			streak,
			Muted.Render(fmt.Sprintf("(best %d)", p.Streak.BestStreak)),
		)
	}
	fmt.Fprintln(e.out)
}

func newRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <habit> <new name>",
		Short: "Rename a habit",
		Args:  cobra.MinimumNArgs(2),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}
			renamed, err := e.habits.Rename(e.ctx, services.RenameHabitInput{
				ID:     habit.ID,
				UserID: LocalUser,
				Name:   strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			Ok(e.out, fmt.Sprintf("Renamed %q to %q", habit.Name, renamed.Name))
			return nil
		}),
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <habit>",
		Aliases: []string{"remove", "delete"},
		Short:   "Stop tracking a habit and delete its history",
		Args:    cobra.ExactArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}
			if err := e.habits.Delete(e.ctx, habit.ID, LocalUser); err != nil {
				return err
			}
			Ok(e.out, fmt.Sprintf("Removed %q", habit.Name))
			return nil
		}),
	}
}
