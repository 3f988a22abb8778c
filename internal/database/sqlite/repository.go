// Package sqlite implements the item repository on an embedded single-file
// database. Every call opens its own connection, runs one statement set and
// closes again, so concurrent single-process access needs no shared pool.
// Call volume is per-user-interaction, which makes the per-call overhead
// acceptable.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galmuri/galmuri/internal/database"
	"github.com/galmuri/galmuri/internal/entities"
)

// Repository is the embedded sqlite implementation of
// database.ItemRepository.
type Repository struct {
	path string
}

// New creates the repository and runs the schema migration once.
func New(path string) (*Repository, error) {
	r := &Repository{path: path}

	db, closeDB, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate items table: %w", err)
	}
	return r, nil
}

func (r *Repository) open() (*gorm.DB, func(), error) {
	db, err := gorm.Open(sqlite.Open(r.path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", r.path, err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, closeDB, nil
}

func (r *Repository) Save(ctx context.Context, item *entities.Item) error {
	db, closeDB, err := r.open()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Item, error) {
	db, closeDB, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	var item entities.Item
	err = db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", id, err)
	}
	return &item, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) ([]entities.Item, error) {
	db, closeDB, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	var items []entities.Item
	err = db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *Repository) Search(ctx context.Context, userID, query string) ([]entities.Item, error) {
	db, closeDB, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	searchPattern := "%" + query + "%"
	var items []entities.Item
	err = db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(page_title) LIKE LOWER(?) OR LOWER(memo_content) LIKE LOWER(?) OR LOWER(ocr_text) LIKE LOWER(?)",
			searchPattern, searchPattern, searchPattern).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *Repository) FindUnsynced(ctx context.Context, userID string) ([]entities.Item, error) {
	db, closeDB, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	var items []entities.Item
	err = db.WithContext(ctx).
		Where("user_id = ? AND is_synced = ?", userID, false).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced items for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	db, closeDB, err := r.open()
	if err != nil {
		return false, err
	}
	defer closeDB()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Item{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete item %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Close is a no-op; connections are opened and closed per call.
func (r *Repository) Close() error {
	return nil
}

var _ database.ItemRepository = (*Repository)(nil)
