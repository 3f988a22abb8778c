package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OCRStatus string

const (
	OCRStatusPending OCRStatus = "PENDING"
	OCRStatusDone    OCRStatus = "DONE"
	OCRStatusFailed  OCRStatus = "FAILED"
)

type Platform string

const (
	PlatformMobileApp    Platform = "MOBILE_APP"
	PlatformWebExtension Platform = "WEB_EXTENSION"
)

// Item is a captured screenshot with its metadata and OCR result.
// The image is stored inline as an encoded blob so an item is fully
// reconstructable without any external fetch.
type Item struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"index;size:36" json:"user_id"`
	ImageData   string    `gorm:"type:text" json:"image_data"`
	SourceURL   string    `gorm:"size:2048" json:"source_url,omitempty"`
	PageTitle   string    `gorm:"size:512" json:"page_title"`
	MemoContent string    `gorm:"type:text" json:"memo_content"`
	OCRText     string    `gorm:"type:text" json:"ocr_text"`
	OCRStatus   OCRStatus `gorm:"size:20;default:'PENDING'" json:"ocr_status"`
	Platform    Platform  `gorm:"size:20;default:'WEB_EXTENSION'" json:"platform"`
	IsSynced    bool      `gorm:"index;default:false" json:"is_synced"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// NewItem builds a freshly captured item with a generated ID, OCR pending
// and sync flag cleared.
func NewItem(userID, imageData, sourceURL, pageTitle, memoContent string, platform Platform) *Item {
	now := time.Now()
	return &Item{
		ID:          uuid.NewString(),
		UserID:      userID,
		ImageData:   imageData,
		SourceURL:   sourceURL,
		PageTitle:   pageTitle,
		MemoContent: memoContent,
		OCRStatus:   OCRStatusPending,
		Platform:    platform,
		IsSynced:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkOCRCompleted records the extracted text and moves the item to DONE.
// An empty string is a legal completion; callers decide what empty means.
func (i *Item) MarkOCRCompleted(text string) {
	i.OCRText = text
	i.OCRStatus = OCRStatusDone
	i.UpdatedAt = time.Now()
}

// MarkOCRFailed moves the item to FAILED. Any previously stored OCR text
// is left untouched.
func (i *Item) MarkOCRFailed() {
	i.OCRStatus = OCRStatusFailed
	i.UpdatedAt = time.Now()
}

// MarkSynced flags the item as pushed by the external sync process.
func (i *Item) MarkSynced() {
	i.IsSynced = true
	i.UpdatedAt = time.Now()
}

// UpdateMemo replaces the user memo.
func (i *Item) UpdateMemo(memo string) {
	i.MemoContent = memo
	i.UpdatedAt = time.Now()
}

// IsSearchable reports whether the item has any user-visible text to match
// against. A title alone does not make an item searchable.
func (i *Item) IsSearchable() bool {
	return i.OCRStatus == OCRStatusDone || i.MemoContent != ""
}

// SearchKeywords joins the non-empty text fields (title, memo, OCR text)
// with single spaces.
func (i *Item) SearchKeywords() string {
	keywords := make([]string, 0, 3)
	if i.PageTitle != "" {
		keywords = append(keywords, i.PageTitle)
	}
	if i.MemoContent != "" {
		keywords = append(keywords, i.MemoContent)
	}
	if i.OCRText != "" {
		keywords = append(keywords, i.OCRText)
	}
	return strings.Join(keywords, " ")
}
