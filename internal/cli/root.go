// Package cli implements the habits command: a local, single-user front end
// over the same services the API uses, backed by a SQLite file.
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// LocalUser owns every habit created from the command line.
const LocalUser = "local"

type rootOptions struct {
	dbPath       string
	timezone     string
	locale       string
	firstWeekday string
	verbose      bool

	now func() time.Time
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "habits.db"
	}
	return filepath.Join(home, ".kanso", "habits.db")
}

// localeFromEnv reads LC_ALL, LC_TIME or LANG ("it_IT.UTF-8" gives "it_IT").
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &rootOptions{now: now}

	root := &cobra.Command{
		Use:   "habits",
		Short: "Track daily habits, streaks and month calendars from the terminal",
		Long: `habits keeps a local record of your daily habits.

Mark a day as done, see your current and best streak, and browse month
calendars. Data lives in a SQLite file (see --db).`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dbPath, "db", defaultDBPath(), "Path to the SQLite database")
	flags.StringVar(&opts.timezone, "tz", "Local", "IANA timezone used to decide what \"today\" is")
	flags.StringVar(&opts.locale, "locale", localeFromEnv(), "Locale for month and weekday names (default en)")
	flags.StringVar(&opts.firstWeekday, "first-weekday", "", "First day of the week (default from locale)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log storage activity to stderr")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newRenameCmd(opts),
		newRmCmd(opts),
		newMarkCmd(opts),
		newToggleCmd(opts),
		newStreakCmd(opts),
		newCalendarCmd(opts),
		newSeedCmd(opts),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		Err(os.Stderr, err.Error())
		return 1
	}
	return 0
}
