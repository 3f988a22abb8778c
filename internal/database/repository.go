// Package database defines the storage contract for captured items. The
// concrete backends live in the sqlite and postgres subpackages.
package database

import (
	"context"
	"errors"

	"github.com/galmuri/galmuri/internal/entities"
)

// ErrNotFound is returned by FindByID when no item exists for the given id.
// Backends translate their driver-specific not-found errors into this one
// so callers stay backend-agnostic.
var ErrNotFound = errors.New("item not found")

// ItemRepository is the persistence contract for items. Both storage
// backends implement it and must produce identical logical results.
type ItemRepository interface {
	// Save upserts the item by id. The write is durable when Save returns.
	Save(ctx context.Context, item *entities.Item) error

	// FindByID fetches a single item regardless of owner. Returns
	// ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*entities.Item, error)

	// FindByUserID lists a user's items, newest first.
	FindByUserID(ctx context.Context, userID string) ([]entities.Item, error)

	// Search lists a user's items whose title, memo or OCR text contains
	// the query case-insensitively, newest first. An empty query matches
	// everything.
	Search(ctx context.Context, userID, query string) ([]entities.Item, error)

	// FindUnsynced lists a user's unsynced items oldest first, so the sync
	// process replays them in submission order.
	FindUnsynced(ctx context.Context, userID string) ([]entities.Item, error)

	// Delete removes an item by id and reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Close releases the backend's connections.
	Close() error
}
