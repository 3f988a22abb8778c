package ocr

import (
	"fmt"

	"github.com/galmuri/galmuri/internal/config"
)

// NewEngine builds the engine named by the configuration. The variant set
// is closed and selected once at process start.
func NewEngine(cfg config.OCR) (Engine, error) {
	switch cfg.Engine {
	case config.OCREngineTesseract:
		return NewTesseract(cfg.Language, cfg.Timeout), nil
	case config.OCREngineStatic:
		return NewStatic(cfg.StaticText), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}
