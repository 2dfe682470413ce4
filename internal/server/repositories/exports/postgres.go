package exports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// PostgresRepository implements export bookkeeping over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, export *models.Export) (*models.Export, error) {
	query := `
		INSERT INTO exports (user_id, storage_key, note_count, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	export.Status = models.ExportStatusPending
	err := r.db.QueryRowContext(ctx, query, export.UserID, export.StorageKey, export.NoteCount, export.Status).
		Scan(&export.ID, &export.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return export, nil
}

// MarkUploaded sets status='completed' for export id.
// Exactly one row must be affected.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `UPDATE exports SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, models.ExportStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Export, error) {
	query := `SELECT id, user_id, storage_key, note_count, status, created_at FROM exports
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, models.ExportStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to select exports: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Export, 0)
	for rows.Next() {
		var item models.Export
		if err := rows.Scan(&item.ID, &item.UserID, &item.StorageKey, &item.NoteCount, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Export, error) {
	query := `SELECT id, user_id, storage_key, note_count, status, created_at FROM exports
		WHERE id = $1 AND user_id = $2`

	item := &models.Export{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&item.ID, &item.UserID, &item.StorageKey, &item.NoteCount, &item.Status, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}
