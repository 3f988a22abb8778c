package ocr

import (
	"context"
	"log"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs real recognition through the tesseract C library.
type Tesseract struct {
	language string
	timeout  time.Duration
}

// NewTesseract creates a tesseract-backed engine. language uses tesseract
// codes ("kor+eng"); timeout bounds a single recognition run.
func NewTesseract(language string, timeout time.Duration) *Tesseract {
	return &Tesseract{language: language, timeout: timeout}
}

// ExtractText decodes the image and runs recognition. Faults and timeouts
// are logged and yield "" so a bad screenshot never breaks the capture
// pipeline.
func (t *Tesseract) ExtractText(ctx context.Context, imageData string) string {
	imageBytes, err := DecodeImage(imageData)
	if err != nil {
		log.Printf("OCR extraction failed: %v", err)
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(t.language); err != nil {
			done <- result{err: err}
			return
		}
		// Single uniform block of text, the typical screenshot layout.
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			done <- result{err: err}
			return
		}
		if err := client.SetImageFromBytes(imageBytes); err != nil {
			done <- result{err: err}
			return
		}
		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			log.Printf("OCR extraction failed: %v", res.err)
			return ""
		}
		return Normalize(res.text)
	case <-ctx.Done():
		log.Printf("OCR extraction timed out: %v", ctx.Err())
		return ""
	}
}

var _ Engine = (*Tesseract)(nil)
