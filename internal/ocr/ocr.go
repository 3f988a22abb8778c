// Package ocr extracts text from captured screenshots. Extraction is
// best-effort: engines absorb decode and recognition faults and report
// them as an empty result, never as an error to the caller.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Engine turns encoded image data into normalized text. An empty result
// means nothing could be extracted; engines log the cause themselves.
type Engine interface {
	ExtractText(ctx context.Context, imageData string) string
}

// DecodeImage decodes a base64 payload, stripping a data-URL prefix
// ("data:image/png;base64,...") when present.
func DecodeImage(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "data:image") {
		idx := strings.Index(imageData, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		imageData = imageData[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return decoded, nil
}

// Normalize cleans raw recognition output: lines are trimmed, empty lines
// dropped, the rest joined with single spaces, and whitespace runs
// collapsed. The normalized form is what gets stored on the item.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}
