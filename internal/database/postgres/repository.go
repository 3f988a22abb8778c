// Package postgres implements the item repository on a client-server
// PostgreSQL database with pooled connections.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/galmuri/galmuri/internal/config"
	"github.com/galmuri/galmuri/internal/database"
	"github.com/galmuri/galmuri/internal/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id           VARCHAR(36) PRIMARY KEY,
	user_id      VARCHAR(36) NOT NULL,
	image_data   TEXT NOT NULL,
	source_url   VARCHAR(2048),
	page_title   VARCHAR(512) NOT NULL DEFAULT '',
	memo_content TEXT NOT NULL DEFAULT '',
	ocr_text     TEXT NOT NULL DEFAULT '',
	ocr_status   VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	platform     VARCHAR(20) NOT NULL DEFAULT 'WEB_EXTENSION',
	is_synced    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_user_id ON items (user_id);
CREATE INDEX IF NOT EXISTS idx_items_is_synced ON items (is_synced);
`

const itemColumns = `id, user_id, image_data, source_url, page_title, memo_content,
	ocr_text, ocr_status, platform, is_synced, created_at, updated_at`

// Repository is the PostgreSQL implementation of database.ItemRepository.
type Repository struct {
	db *sql.DB
}

// New connects to the database, tunes the connection pool and bootstraps
// the schema. Connections are recycled after cfg.ConnMaxLifetime to avoid
// stale-connection errors against remote servers.
func New(cfg config.Database) (*Repository, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Save(ctx context.Context, item *entities.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET
			user_id      = EXCLUDED.user_id,
			image_data   = EXCLUDED.image_data,
			source_url   = EXCLUDED.source_url,
			page_title   = EXCLUDED.page_title,
			memo_content = EXCLUDED.memo_content,
			ocr_text     = EXCLUDED.ocr_text,
			ocr_status   = EXCLUDED.ocr_status,
			platform     = EXCLUDED.platform,
			is_synced    = EXCLUDED.is_synced,
			created_at   = EXCLUDED.created_at,
			updated_at   = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.ImageData, item.SourceURL, item.PageTitle,
		item.MemoContent, item.OCRText, item.OCRStatus, item.Platform,
		item.IsSynced, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", id, err)
	}
	return item, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) ([]entities.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryItems(ctx, query, userID)
}

func (r *Repository) Search(ctx context.Context, userID, query string) ([]entities.Item, error) {
	searchPattern := "%" + query + "%"
	q := `
		SELECT ` + itemColumns + ` FROM items
		WHERE user_id = $1
		AND (page_title ILIKE $2 OR memo_content ILIKE $2 OR ocr_text ILIKE $2)
		ORDER BY created_at DESC
	`
	return r.queryItems(ctx, q, userID, searchPattern)
}

func (r *Repository) FindUnsynced(ctx context.Context, userID string) ([]entities.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE user_id = $1 AND is_synced = FALSE
		ORDER BY created_at ASC
	`
	return r.queryItems(ctx, query, userID)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) queryItems(ctx context.Context, query string, args ...any) ([]entities.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []entities.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entities.Item, error) {
	var item entities.Item
	var sourceURL sql.NullString
	err := row.Scan(
		&item.ID, &item.UserID, &item.ImageData, &sourceURL, &item.PageTitle,
		&item.MemoContent, &item.OCRText, &item.OCRStatus, &item.Platform,
		&item.IsSynced, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.SourceURL = sourceURL.String
	return &item, nil
}

var _ database.ItemRepository = (*Repository)(nil)
