// Package ocr provides text extraction from prescription images using
// Tesseract. Extraction failures are swallowed at this boundary: callers
// always get a string, empty when nothing could be read.
package ocr

import (
	"context"
	"strings"

	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/giygas/prescriptions-api/metrics"
	"github.com/otiai10/gosseract/v2"
)

// Compile-time check to ensure TesseractClient implements OCRClient
var _ interfaces.OCRClient = (*TesseractClient)(nil)

// TesseractClient extracts text from images via the Tesseract engine
type TesseractClient struct {
	language string
}

// NewTesseractClient creates an OCR client for the given language ("eng"
// when empty)
func NewTesseractClient(language string) *TesseractClient {
	if language == "" {
		language = "eng"
	}
	return &TesseractClient{language: language}
}

// ExtractText runs OCR over image bytes and returns the recognized text.
// Failures are logged and counted, and return an empty string: callers
// cannot distinguish "no text found" from an engine failure. That matches
// the analyze contract, where a blank prescription and a failed scan both
// produce an empty extraction.
func (c *TesseractClient) ExtractText(ctx context.Context, image []byte) string {
	if len(image) == 0 {
		return ""
	}

	if err := ctx.Err(); err != nil {
		logging.Warn("OCR skipped, context cancelled", "error", err)
		metrics.OCRFailuresTotal.Inc()
		return ""
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.language); err != nil {
		logging.Warn("Failed to set OCR language", "language", c.language, "error", err)
		metrics.OCRFailuresTotal.Inc()
		return ""
	}

	if err := client.SetImageFromBytes(image); err != nil {
		logging.Warn("Failed to load image for OCR", "error", err, "image_bytes", len(image))
		metrics.OCRFailuresTotal.Inc()
		return ""
	}

	text, err := client.Text()
	if err != nil {
		logging.Warn("OCR text extraction failed", "error", err, "image_bytes", len(image))
		metrics.OCRFailuresTotal.Inc()
		return ""
	}

	return strings.TrimSpace(text)
}
