package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.HabitRepository = (*SQLHabitRepository)(nil)

// SQLHabitRepository stores habits in Postgres or SQLite, depending on the
// driver behind db.
type SQLHabitRepository struct {
	db *sqlx.DB
}

func NewSQLHabitRepository(db *sqlx.DB) *SQLHabitRepository {
	return &SQLHabitRepository{db: db}
}

const habitColumns = `id, user_id, name, created_at, updated_at`

func (r *SQLHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := r.db.Rebind(`INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, h.ID, h.UserID, h.Name, h.CreatedAt.UTC(), h.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("repository: insert habit: %w", err)
	}
	return nil
}

func (r *SQLHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := r.db.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE id = ?`)

	var h domain.Habit
	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("repository: get habit: %w", err)
	}
	return &h, nil
}

func (r *SQLHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := r.db.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE user_id = ? ORDER BY created_at ASC, id ASC`)

	habits := []*domain.Habit{}
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list habits: %w", err)
	}
	return habits, nil
}

func (r *SQLHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	h.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE habits SET name = ?, updated_at = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, h.Name, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("repository: update habit: %w", err)
	}
	return requireAffected(res, domain.ErrHabitNotFound)
}

func (r *SQLHabitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM habits WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("repository: delete habit: %w", err)
	}
	return requireAffected(res, domain.ErrHabitNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
