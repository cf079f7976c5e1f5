package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	Sage    = lipgloss.Color("#87A96B")
	Clay    = lipgloss.Color("#C2452D")
	Sand    = lipgloss.Color("#D8C8A8")
	Ink     = lipgloss.Color("#3C3C3C")
	Dim     = lipgloss.Color("#666666")
	Bright  = lipgloss.Color("#FFFFFF")
	Saffron = lipgloss.Color("#F4C430")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	Success = lipgloss.NewStyle().
		Foreground(Sage)

	Missed = lipgloss.NewStyle().
		Foreground(Clay)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Sand).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sand).
		Padding(0, 1)
)

const (
	IconDone   = "✓"
	IconMissed = "·"
	IconFire   = "🔥"
	IconError  = "✗ "
	IconOk     = "✓ "
)

func Ok(w io.Writer, msg string) {
	fmt.Fprintln(w, Success.Render(IconOk+msg))
}

func Err(w io.Writer, msg string) {
	fmt.Fprintln(w, Missed.Bold(true).Render(IconError+msg))
}

func Kv(w io.Writer, key, value string) {
	k := KeyStyle.Render(fmt.Sprintf("  %-16s", key))
	fmt.Fprintf(w, "%s %s\n", k, ValueStyle.Render(value))
}

// statusMark renders the marker shown next to a day or a habit.
func statusMark(s domain.DayVisualStatus) string {
	switch s {
	case domain.DaySuccess:
		return Success.Render(IconDone)
	case domain.DayMissed:
		return Missed.Render(IconMissed)
	default:
		return " "
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
