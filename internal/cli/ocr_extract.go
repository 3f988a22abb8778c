package cli

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/galmuri/galmuri/internal/config"
	"github.com/galmuri/galmuri/internal/ocr"
)

// OCRExtractCommand runs the configured OCR engine against a local image
// file. Useful for checking a tesseract installation and language packs
// before pointing clients at the server.
type OCRExtractCommand struct {
	ImagePath string
}

func NewOCRExtractCommand() *OCRExtractCommand {
	return &OCRExtractCommand{}
}

func (cmd *OCRExtractCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("ocr", flag.ExitOnError)

	fs.StringVar(&cmd.ImagePath, "image", "", "Path to the image file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s ocr [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract text from an image file using the configured OCR engine.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ocr -image ./screenshot.png\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ImagePath == "" {
		fs.Usage()
		return fmt.Errorf("image path is required")
	}

	return nil
}

func (cmd *OCRExtractCommand) Run() error {
	imageBytes, err := os.ReadFile(cmd.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	cfg := config.NewConfig()
	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		return err
	}

	text := engine.ExtractText(context.Background(), base64.StdEncoding.EncodeToString(imageBytes))
	if text == "" {
		fmt.Println("No text extracted.")
		return nil
	}

	fmt.Println(text)
	return nil
}
