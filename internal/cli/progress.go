package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const cellWidth = 5

func newStreakCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak <habit>",
		Short: "Show the current and best streak of a habit",
		Args:  cobra.ExactArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}

			streak, err := e.stats.GetStreak(e.ctx, habit.ID, LocalUser, e.settings)
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out)
			fmt.Fprintln(e.out, Title.Render("  "+habit.Name))
			Kv(e.out, "Current streak", plural(streak.CurrentStreak, "day"))
			Kv(e.out, "Best streak", plural(streak.BestStreak, "day"))
			fmt.Fprintln(e.out)
			return nil
		}),
	}
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:     "calendar <habit>",
		Aliases: []string{"cal"},
		Short:   "Show a month calendar of a habit",
		Long: `Show a month calendar of a habit. --offset=0 is the current month,
--offset=-1 the previous one. Future months are not shown.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.withEnv(func(e *env, args []string) error {
			habit, err := e.findHabit(args[0])
			if err != nil {
				return err
			}

			grid, err := e.stats.GetCalendar(e.ctx, habit.ID, LocalUser, offset, e.settings)
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, Card.Render(renderMonth(habit.Name, grid)))
			if grid.CanGoForward {
				fmt.Fprintln(e.out, Muted.Render(fmt.Sprintf("  next: habits calendar %q --offset=%d", habit.Name, grid.Offset+1)))
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Months from the current one (negative goes back)")
	return cmd
}

// renderMonth lays the grid out as rows of seven cells under a title and the
// weekday header.
func renderMonth(name string, grid domain.MonthGrid) string {
	width := cellWidth * 7
	cell := lipgloss.NewStyle().Width(cellWidth)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, Title.Render(grid.Title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, Muted.Render(name)))
	b.WriteString("\n\n")

	header := make([]string, 0, 7)
	for _, sym := range grid.WeekdaySymbols {
		header = append(header, cell.Render(KeyStyle.Render(truncate(sym, 3))))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for i, slot := range grid.Slots {
		if i%7 == 0 {
			b.WriteString("\n")
		}
		b.WriteString(cell.Render(renderSlot(slot)))
	}

	b.WriteString("\n\n")
	b.WriteString(statusMark(domain.DaySuccess) + Muted.Render(" done   ") + statusMark(domain.DayMissed) + Muted.Render(" missed"))
	return b.String()
}

func renderSlot(slot domain.DaySlot) string {
	if slot.IsPlaceholder() {
		return ""
	}

	day := fmt.Sprintf("%2d", slot.Day)
	switch slot.Status {
	case domain.DaySuccess:
		day = Success.Bold(true).Render(day)
	case domain.DayMissed:
		day = Missed.Render(day)
	default:
		day = Muted.Render(day)
	}
	return day + statusMark(slot.Status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
