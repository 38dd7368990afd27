package userentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/dbx"
	"github.com/cvyas/quotewall/internal/server/models"
)

// SQLiteRepository implements Repository for the embedded engine.
// SQLite's LIKE is only case-insensitive for ASCII, so search wraps
// both sides in lower() to match the postgres ILIKE behavior.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, entry *models.UserEntry) (int64, error) {
	query := `
		INSERT INTO user_details (name, quote, advice)
		VALUES (?, ?, ?)
		ON CONFLICT(name)
		DO UPDATE SET
			quote = excluded.quote,
			advice = excluded.advice,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id;
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, entry.Name, entry.Quote, entry.Advice).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context, q ListQuery) ([]models.UserEntry, int, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, name, quote, advice, created_at, updated_at
			FROM user_details
			WHERE lower(name) LIKE lower(?) OR lower(quote) LIKE lower(?) OR lower(advice) LIKE lower(?)
			ORDER BY updated_at DESC
			LIMIT ? OFFSET ?`, pattern, pattern, pattern, q.Limit, q.Offset)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, name, quote, advice, created_at, updated_at
			FROM user_details
			ORDER BY updated_at DESC
			LIMIT ? OFFSET ?`, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.UserEntry
	for rows.Next() {
		var item models.UserEntry
		if err := rows.Scan(&item.ID, &item.Name, &item.Quote, &item.Advice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, q.Search)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *SQLiteRepository) count(ctx context.Context, search string) (int, error) {
	var total int
	if search != "" {
		pattern := "%" + search + "%"
		err := r.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM user_details
			WHERE lower(name) LIKE lower(?) OR lower(quote) LIKE lower(?) OR lower(advice) LIKE lower(?)`,
			pattern, pattern, pattern).Scan(&total)
		if err != nil {
			return 0, fmt.Errorf("failed to count entries: %w", err)
		}
		return total, nil
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_details`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.UserEntry, error) {
	query := `
		SELECT id, name, quote, advice, created_at, updated_at
		FROM user_details
		WHERE name = ?`

	entry := &models.UserEntry{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&entry.ID, &entry.Name, &entry.Quote, &entry.Advice, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *SQLiteRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_details WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
