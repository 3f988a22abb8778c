package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem() *Item {
	return NewItem(uuid.NewString(), "aW1hZ2U=", "https://example.com", "title", "", PlatformWebExtension)
}

func TestNewItem_Defaults(t *testing.T) {
	item := newTestItem()

	_, err := uuid.Parse(item.ID)
	require.NoError(t, err)
	_, err = uuid.Parse(item.UserID)
	require.NoError(t, err)

	assert.Equal(t, OCRStatusPending, item.OCRStatus)
	assert.False(t, item.IsSynced)
	assert.Empty(t, item.OCRText)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestNewItem_UniqueIDs(t *testing.T) {
	a := newTestItem()
	b := newTestItem()

	assert.NotEqual(t, a.ID, b.ID)
}

func TestMarkOCRCompleted(t *testing.T) {
	item := newTestItem()
	before := item.UpdatedAt

	item.MarkOCRCompleted("extracted")

	assert.Equal(t, OCRStatusDone, item.OCRStatus)
	assert.Equal(t, "extracted", item.OCRText)
	assert.False(t, item.UpdatedAt.Before(before))
}

func TestMarkOCRFailed_KeepsPriorText(t *testing.T) {
	item := newTestItem()

	item.MarkOCRCompleted("extracted")
	item.MarkOCRFailed()

	assert.Equal(t, OCRStatusFailed, item.OCRStatus)
	assert.Equal(t, "extracted", item.OCRText)
}

func TestMarkSynced(t *testing.T) {
	item := newTestItem()

	item.MarkSynced()

	assert.True(t, item.IsSynced)
}

func TestUpdateMemo(t *testing.T) {
	item := newTestItem()

	item.UpdateMemo("a note")

	assert.Equal(t, "a note", item.MemoContent)
}

func TestIsSearchable(t *testing.T) {
	item := newTestItem()
	assert.False(t, item.IsSearchable(), "fresh item with no memo is not searchable")

	item.UpdateMemo("a note")
	assert.True(t, item.IsSearchable(), "memo makes an item searchable")

	item.UpdateMemo("")
	item.MarkOCRCompleted("text")
	assert.True(t, item.IsSearchable(), "completed OCR makes an item searchable")
}

func TestIsSearchable_TitleAloneIsNotEnough(t *testing.T) {
	item := NewItem(uuid.NewString(), "aW1hZ2U=", "", "a title", "", PlatformMobileApp)

	assert.False(t, item.IsSearchable())
}

func TestSearchKeywords(t *testing.T) {
	item := newTestItem()
	item.PageTitle = "T"
	item.MemoContent = "M"
	item.OCRText = "O"

	assert.Equal(t, "T M O", item.SearchKeywords())
}

func TestSearchKeywords_SkipsEmptyFields(t *testing.T) {
	item := newTestItem()
	item.PageTitle = ""
	item.MemoContent = ""
	item.OCRText = ""
	assert.Equal(t, "", item.SearchKeywords())

	item.PageTitle = "T"
	item.OCRText = "O"
	assert.Equal(t, "T O", item.SearchKeywords())
}
