// Package capture orchestrates the item lifecycle: immediate durable
// persistence of a new capture, a detached best-effort OCR completion
// task, and the owner-scoped read and mutation paths.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/galmuri/galmuri/internal/database"
	"github.com/galmuri/galmuri/internal/entities"
	"github.com/galmuri/galmuri/internal/ocr"
)

// Request carries the client payload for a new capture.
type Request struct {
	UserID      string
	ImageData   string
	SourceURL   string
	PageTitle   string
	MemoContent string
	Platform    entities.Platform
}

// Service coordinates the repository and the OCR engine.
type Service struct {
	repo   database.ItemRepository
	engine ocr.Engine

	sem   chan struct{} // caps concurrent background OCR tasks
	wg    sync.WaitGroup
	locks itemLocks
}

// NewService creates the orchestrator. maxInFlight bounds how many OCR
// tasks run concurrently; captures beyond the bound queue inside their
// goroutines.
func NewService(repo database.ItemRepository, engine ocr.Engine, maxInFlight int) *Service {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Service{
		repo:   repo,
		engine: engine,
		sem:    make(chan struct{}, maxInFlight),
	}
}

// Capture persists the item immediately and schedules OCR in the
// background. The returned item is still PENDING; clients poll reads to
// observe the final status.
func (s *Service) Capture(ctx context.Context, req Request) (*entities.Item, error) {
	item := entities.NewItem(req.UserID, req.ImageData, req.SourceURL, req.PageTitle, req.MemoContent, req.Platform)

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to persist capture: %w", err)
	}

	s.wg.Add(1)
	go s.processOCR(item.ID, item.ImageData)

	return item, nil
}

// processOCR is the detached completion task. It never reports errors
// upward: extraction faults and empty results move the item to FAILED,
// and an item deleted mid-flight makes the task a silent no-op.
func (s *Service) processOCR(itemID, imageData string) {
	defer s.wg.Done()

	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx := context.Background()
	text := s.engine.ExtractText(ctx, imageData)

	unlock := s.locks.lock(itemID)
	defer unlock()

	item, err := s.repo.FindByID(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("OCR task: failed to reload item %s: %v", itemID, err)
		return
	}

	if text != "" {
		item.MarkOCRCompleted(text)
	} else {
		item.MarkOCRFailed()
	}

	if err := s.repo.Save(ctx, item); err != nil {
		log.Printf("OCR task: failed to save item %s: %v", itemID, err)
	}
}

// Get fetches a single item for its owner. A foreign or unknown id both
// surface as database.ErrNotFound so existence is not leaked.
func (s *Service) Get(ctx context.Context, userID, id string) (*entities.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, database.ErrNotFound
	}
	return item, nil
}

// List returns the user's items, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]entities.Item, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Search returns the user's items matching the query, newest first.
func (s *Service) Search(ctx context.Context, userID, query string) ([]entities.Item, error) {
	return s.repo.Search(ctx, userID, query)
}

// Unsynced returns the user's unsynced items, oldest first.
func (s *Service) Unsynced(ctx context.Context, userID string) ([]entities.Item, error) {
	return s.repo.FindUnsynced(ctx, userID)
}

// Delete removes an owned item. Returns database.ErrNotFound for unknown
// or foreign ids.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return database.ErrNotFound
	}
	return nil
}

// UpdateMemo replaces the memo on an owned item.
func (s *Service) UpdateMemo(ctx context.Context, userID, id, memo string) (*entities.Item, error) {
	return s.mutate(ctx, userID, id, func(item *entities.Item) {
		item.UpdateMemo(memo)
	})
}

// MarkSynced flags an owned item as pushed by the external sync process.
func (s *Service) MarkSynced(ctx context.Context, userID, id string) (*entities.Item, error) {
	return s.mutate(ctx, userID, id, func(item *entities.Item) {
		item.MarkSynced()
	})
}

// mutate runs a read-mutate-write cycle under the item's lock so partial
// updates cannot clobber a racing OCR completion or memo edit.
func (s *Service) mutate(ctx context.Context, userID, id string, fn func(*entities.Item)) (*entities.Item, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fn(item)
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Drain waits for in-flight OCR tasks to finish, bounded by ctx. Used
// during graceful shutdown; tasks cannot be cancelled once spawned.
func (s *Service) Drain(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
