package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/config"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/comitanigiacomo/kanso-habits/internal/logger"
)

var (
	ErrHabitNotFound  = errors.New("no habit matches")
	ErrAmbiguousHabit = errors.New("more than one habit matches")
)

// env is what a single command invocation works with.
type env struct {
	ctx      context.Context
	out      io.Writer
	db       *sqlx.DB
	log      *zap.Logger
	settings progress.Settings

	habitRepo domain.HabitRepository
	habits    *services.HabitService
	records   *services.RecordService
	stats     *services.ProgressService
}

func (o *rootOptions) settings() (progress.Settings, error) {
	cfg := config.Config{Calendar: config.CalendarConfig{
		Timezone:     o.timezone,
		Locale:       o.locale,
		FirstWeekday: o.firstWeekday,
	}}
	if cfg.Calendar.Locale == "" {
		cfg.Calendar.Locale = progress.DefaultLocale
	}

	loc, err := cfg.Location()
	if err != nil {
		return progress.Settings{}, err
	}
	first, _, err := cfg.Weekday()
	if err != nil {
		return progress.Settings{}, err
	}

	return progress.Settings{
		Now:          o.now().In(loc),
		Location:     loc,
		FirstWeekday: first,
		Locale:       cfg.Calendar.Locale,
	}, nil
}

func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	settings, err := o.settings()
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if o.verbose {
		if log, err = logger.New("debug", "console"); err != nil {
			return nil, err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := repository.OpenSQLite(ctx, o.dbPath)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("store opened", zap.String("path", o.dbPath))

	habitRepo := repository.NewSQLHabitRepository(db)
	recordRepo := repository.NewSQLDayRecordRepository(db)

	return &env{
		ctx:       ctx,
		out:       cmd.OutOrStdout(),
		db:        db,
		log:       log,
		settings:  settings,
		habitRepo: habitRepo,
		habits:    services.NewHabitService(habitRepo, recordRepo, log),
		records:   services.NewRecordService(recordRepo, habitRepo, nil, log),
		stats:     services.NewProgressService(habitRepo, recordRepo, log),
	}, nil
}

func (e *env) Close() error {
	_ = e.log.Sync()
	return e.db.Close()
}

// withEnv opens the store around fn.
func (o *rootOptions) withEnv(fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := o.open(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(e, args)
	}
}

// findHabit resolves ref against the local habits: an exact ID, then a
// case-insensitive name, then a unique ID prefix.
func (e *env) findHabit(ref string) (*domain.Habit, error) {
	list, err := e.habits.ListByUserID(e.ctx, LocalUser)
	if err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	for _, h := range list {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []*domain.Habit
	for _, h := range list {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	if len(matches) == 0 && ref != "" {
		for _, h := range list {
			if strings.HasPrefix(h.ID, ref) {
				matches = append(matches, h)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w %q", ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w %q, use the id", ErrAmbiguousHabit, ref)
	}
}
