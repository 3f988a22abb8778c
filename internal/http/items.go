package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/galmuri/galmuri/internal/capture"
	"github.com/galmuri/galmuri/internal/database"
	"github.com/galmuri/galmuri/internal/entities"
)

// CaptureService defines the orchestration operations the item endpoints
// depend on.
type CaptureService interface {
	Capture(ctx context.Context, req capture.Request) (*entities.Item, error)
	Get(ctx context.Context, userID, id string) (*entities.Item, error)
	List(ctx context.Context, userID string) ([]entities.Item, error)
	Search(ctx context.Context, userID, query string) ([]entities.Item, error)
	Unsynced(ctx context.Context, userID string) ([]entities.Item, error)
	Delete(ctx context.Context, userID, id string) error
	UpdateMemo(ctx context.Context, userID, id, memo string) (*entities.Item, error)
	MarkSynced(ctx context.Context, userID, id string) (*entities.Item, error)
}

// ItemResponse is the wire representation of an item. The image blob is
// deliberately omitted; clients keep their own copy and reads stay light.
type ItemResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SourceURL   string    `json:"source_url,omitempty"`
	PageTitle   string    `json:"page_title"`
	MemoContent string    `json:"memo_content"`
	OCRText     string    `json:"ocr_text"`
	OCRStatus   string    `json:"ocr_status"`
	Platform    string    `json:"platform"`
	IsSynced    bool      `json:"is_synced"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toItemResponse(item *entities.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		UserID:      item.UserID,
		SourceURL:   item.SourceURL,
		PageTitle:   item.PageTitle,
		MemoContent: item.MemoContent,
		OCRText:     item.OCRText,
		OCRStatus:   string(item.OCRStatus),
		Platform:    string(item.Platform),
		IsSynced:    item.IsSynced,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toItemResponses(items []entities.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	return responses
}

type ItemsController struct {
	service CaptureService
}

func NewItemsController(service CaptureService) *ItemsController {
	return &ItemsController{service: service}
}

// Capture saves a new item and schedules OCR in the background.
// The response always carries ocr_status=PENDING; clients poll reads for
// the final status.
// POST /api/capture
func (ic *ItemsController) Capture(c *gin.Context) {
	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		ImageData   string `json:"image_data" binding:"required"`
		SourceURL   string `json:"source_url"`
		PageTitle   string `json:"page_title"`
		MemoContent string `json:"memo_content"`
		Platform    string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id and image_data are required")
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		respondBadRequest(c, "invalid user_id")
		return
	}
	if req.UserID != GetUserID(c) {
		respondForbidden(c)
		return
	}

	platform := entities.PlatformWebExtension
	switch req.Platform {
	case "", string(entities.PlatformWebExtension):
	case string(entities.PlatformMobileApp):
		platform = entities.PlatformMobileApp
	default:
		respondBadRequest(c, "invalid platform")
		return
	}

	item, err := ic.service.Capture(c.Request.Context(), capture.Request{
		UserID:      req.UserID,
		ImageData:   req.ImageData,
		SourceURL:   req.SourceURL,
		PageTitle:   req.PageTitle,
		MemoContent: req.MemoContent,
		Platform:    platform,
	})
	if err != nil {
		respondInternalError(c, err, "capture item")
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

// ListItems returns all items for a user, newest first.
// GET /api/items/:user_id
func (ic *ItemsController) ListItems(c *gin.Context) {
	userID, ok := ic.ownedUserParam(c)
	if !ok {
		return
	}

	items, err := ic.service.List(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "list items")
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// SearchItems returns items matching the query in title, memo or OCR
// text, newest first.
// POST /api/search
func (ic *ItemsController) SearchItems(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Query  string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id is required")
		return
	}
	if req.UserID != GetUserID(c) {
		respondForbidden(c)
		return
	}

	items, err := ic.service.Search(c.Request.Context(), req.UserID, req.Query)
	if err != nil {
		respondInternalError(c, err, "search items")
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// ListUnsynced returns the user's unsynced items, oldest first, so the
// sync process replays them in submission order.
// GET /api/items/:user_id/unsynced
func (ic *ItemsController) ListUnsynced(c *gin.Context) {
	userID, ok := ic.ownedUserParam(c)
	if !ok {
		return
	}

	items, err := ic.service.Unsynced(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "list unsynced items")
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// GetItem returns a single owned item.
// GET /api/item/:id
func (ic *ItemsController) GetItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ic.service.Get(c.Request.Context(), GetUserID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "item")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get item")
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// DeleteItem removes an owned item.
// DELETE /api/item/:id
func (ic *ItemsController) DeleteItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	err := ic.service.Delete(c.Request.Context(), GetUserID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "item")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete item")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "item deleted"})
}

// UpdateMemo replaces the memo on an owned item.
// PUT /api/item/:id/memo
func (ic *ItemsController) UpdateMemo(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		MemoContent string `json:"memo_content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	item, err := ic.service.UpdateMemo(c.Request.Context(), GetUserID(c), id, req.MemoContent)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "item")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update memo")
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// MarkSynced flags an owned item as pushed by the external sync process.
// POST /api/item/:id/synced
func (ic *ItemsController) MarkSynced(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ic.service.MarkSynced(c.Request.Context(), GetUserID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "item")
		return
	}
	if err != nil {
		respondInternalError(c, err, "mark synced")
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// ownedUserParam validates the :user_id path parameter and checks it
// belongs to the authenticated caller.
func (ic *ItemsController) ownedUserParam(c *gin.Context) (string, bool) {
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return "", false
	}
	if userID != GetUserID(c) {
		respondForbidden(c)
		return "", false
	}
	return userID, true
}
