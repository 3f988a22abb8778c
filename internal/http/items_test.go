package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galmuri/galmuri/internal/auth"
	"github.com/galmuri/galmuri/internal/capture"
	"github.com/galmuri/galmuri/internal/config"
	"github.com/galmuri/galmuri/internal/database/sqlite"
	"github.com/galmuri/galmuri/internal/ocr"
)

type testServer struct {
	router  *gin.Engine
	service *capture.Service
	userID  string
	apiKey  string
}

func setupTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + t.Name() + ".db"
	repo, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Remove(dbPath)
	})

	service := capture.NewService(repo, ocr.NewStatic("추출된 텍스트"), 2)

	userID := uuid.NewString()
	apiKey, err := auth.GenerateAPIKey(userID)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Service:        service,
		AuthMiddleware: auth.NewMiddleware(config.Auth{MinTokenLength: config.MinAPITokenLength}),
		CORS:           config.CORS{AllowOrigins: []string{"*"}},
		Version:        "test",
	})

	return &testServer{
		router:  router,
		service: service,
		userID:  userID,
		apiKey:  apiKey,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderAPIKey, ts.apiKey)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) captureItem(t *testing.T, title string) ItemResponse {
	w := ts.do(t, http.MethodPost, "/api/capture", gin.H{
		"user_id":    ts.userID,
		"image_data": "aW1hZ2U=",
		"page_title": title,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var item ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) ItemResponse {
	var item ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

func decodeItems(t *testing.T, w *httptest.ResponseRecorder) []ItemResponse {
	var items []ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	return items
}

func TestAPI_RequiresAPIKey(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items/"+ts.userID, nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_HealthIsPublic(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/", "/health", "/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAPI_CaptureReturnsPending(t *testing.T) {
	ts := setupTestServer(t)

	item := ts.captureItem(t, "배달의민족 주문")
	assert.Equal(t, "PENDING", item.OCRStatus)
	assert.Equal(t, ts.userID, item.UserID)
	assert.Equal(t, "배달의민족 주문", item.PageTitle)
	assert.False(t, item.IsSynced)

	require.True(t, ts.service.Drain(context.Background()))
}

func TestAPI_CaptureResponseOmitsImageData(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/capture", gin.H{
		"user_id":    ts.userID,
		"image_data": "aW1hZ2U=",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "image_data")

	require.True(t, ts.service.Drain(context.Background()))
}

func TestAPI_CaptureValidation(t *testing.T) {
	ts := setupTestServer(t)

	// Missing image_data.
	w := ts.do(t, http.MethodPost, "/api/capture", gin.H{
		"user_id": ts.userID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown platform.
	w = ts.do(t, http.MethodPost, "/api/capture", gin.H{
		"user_id":    ts.userID,
		"image_data": "aW1hZ2U=",
		"platform":   "desktop",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Body user must match the credential.
	w = ts.do(t, http.MethodPost, "/api/capture", gin.H{
		"user_id":    uuid.NewString(),
		"image_data": "aW1hZ2U=",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_GetItemAfterOCR(t *testing.T) {
	ts := setupTestServer(t)

	item := ts.captureItem(t, "title")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodGet, "/api/item/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	loaded := decodeItem(t, w)
	assert.Equal(t, "DONE", loaded.OCRStatus)
	assert.Equal(t, "추출된 텍스트", loaded.OCRText)
}

func TestAPI_GetItem_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/item/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_GetItem_InvalidID(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/item/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_ListItems(t *testing.T) {
	ts := setupTestServer(t)

	ts.captureItem(t, "first")
	ts.captureItem(t, "second")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodGet, "/api/items/"+ts.userID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeItems(t, w), 2)
}

func TestAPI_ListItems_ForeignUserForbidden(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/items/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_SearchItems(t *testing.T) {
	ts := setupTestServer(t)

	ts.captureItem(t, "배달의민족 주문")
	ts.captureItem(t, "쿠팡 장바구니")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodPost, "/api/search", gin.H{
		"user_id": ts.userID,
		"query":   "쿠팡",
	})
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeItems(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "쿠팡 장바구니", items[0].PageTitle)
}

func TestAPI_SearchItems_ForeignUserForbidden(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/search", gin.H{
		"user_id": uuid.NewString(),
		"query":   "anything",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_DeleteItem(t *testing.T) {
	ts := setupTestServer(t)

	item := ts.captureItem(t, "title")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodDelete, "/api/item/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	w = ts.do(t, http.MethodGet, "/api/item/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_UpdateMemo(t *testing.T) {
	ts := setupTestServer(t)

	item := ts.captureItem(t, "title")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodPut, "/api/item/"+item.ID+"/memo", gin.H{
		"memo_content": "updated note",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated note", decodeItem(t, w).MemoContent)
}

func TestAPI_SyncFlow(t *testing.T) {
	ts := setupTestServer(t)

	item := ts.captureItem(t, "title")
	require.True(t, ts.service.Drain(context.Background()))

	w := ts.do(t, http.MethodGet, "/api/items/"+ts.userID+"/unsynced", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeItems(t, w), 1)

	w = ts.do(t, http.MethodPost, "/api/item/"+item.ID+"/synced", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeItem(t, w).IsSynced)

	w = ts.do(t, http.MethodGet, "/api/items/"+ts.userID+"/unsynced", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeItems(t, w))
}
