package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.DayRecordRepository = (*SQLDayRecordRepository)(nil)

type SQLDayRecordRepository struct {
	db *sqlx.DB
}

func NewSQLDayRecordRepository(db *sqlx.DB) *SQLDayRecordRepository {
	return &SQLDayRecordRepository{db: db}
}

const recordColumns = `id, habit_id, user_id, date, day, status, version, created_at, updated_at`

// Upsert relies on the (habit_id, day) unique key: a second record for the
// same day overwrites the status and bumps the version.
func (r *SQLDayRecordRepository) Upsert(ctx context.Context, rec *domain.DayRecord) (*domain.DayRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Day == "" {
		rec.Day = rec.Date.Format(domain.DayKeyLayout)
	}

	query := r.db.Rebind(`
        INSERT INTO day_records (` + recordColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT (habit_id, day) DO UPDATE SET
            status = excluded.status,
            date = excluded.date,
            version = day_records.version + 1,
            updated_at = excluded.updated_at`)

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.HabitID, rec.UserID, rec.Date.UTC(), rec.Day, string(rec.Status),
		rec.CreatedAt.UTC(), now,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: upsert day record: %w", err)
	}

	return r.GetByHabitAndDay(ctx, rec.HabitID, rec.Day)
}

func (r *SQLDayRecordRepository) get(ctx context.Context, query string, args ...any) (*domain.DayRecord, error) {
	var rec domain.DayRecord
	if err := r.db.GetContext(ctx, &rec, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("repository: get day record: %w", err)
	}
	return &rec, nil
}

func (r *SQLDayRecordRepository) GetByID(ctx context.Context, id string) (*domain.DayRecord, error) {
	return r.get(ctx, `SELECT `+recordColumns+` FROM day_records WHERE id = ?`, id)
}

func (r *SQLDayRecordRepository) GetByHabitAndDay(ctx context.Context, habitID, day string) (*domain.DayRecord, error) {
	return r.get(ctx, `SELECT `+recordColumns+` FROM day_records WHERE habit_id = ? AND day = ?`, habitID, day)
}

func (r *SQLDayRecordRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.DayRecord, error) {
	query := r.db.Rebind(`SELECT ` + recordColumns + ` FROM day_records WHERE habit_id = ? ORDER BY date ASC`)

	records := []*domain.DayRecord{}
	if err := r.db.SelectContext(ctx, &records, query, habitID); err != nil {
		return nil, fmt.Errorf("repository: list day records: %w", err)
	}
	return records, nil
}

func (r *SQLDayRecordRepository) ListByHabitIDInRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.DayRecord, error) {
	query := r.db.Rebind(`
        SELECT ` + recordColumns + ` FROM day_records
        WHERE habit_id = ? AND date >= ? AND date <= ?
        ORDER BY date ASC`)

	records := []*domain.DayRecord{}
	if err := r.db.SelectContext(ctx, &records, query, habitID, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("repository: list day records in range: %w", err)
	}
	return records, nil
}

func (r *SQLDayRecordRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM day_records WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("repository: delete day record: %w", err)
	}
	return requireAffected(res, domain.ErrRecordNotFound)
}

func (r *SQLDayRecordRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM day_records WHERE habit_id = ?`), habitID); err != nil {
		return fmt.Errorf("repository: delete day records of habit: %w", err)
	}
	return nil
}
