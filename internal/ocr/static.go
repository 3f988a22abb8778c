package ocr

import "context"

// Static always returns a fixed configured string, regardless of input.
// It decouples orchestration tests and offline development from a real
// recognition engine.
type Static struct {
	text string
}

func NewStatic(text string) *Static {
	return &Static{text: text}
}

func (s *Static) ExtractText(ctx context.Context, imageData string) string {
	return s.text
}

var _ Engine = (*Static)(nil)
