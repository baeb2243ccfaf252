package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lankalotto/ticket-validator/internal/metrics"
	"github.com/lankalotto/ticket-validator/internal/models"
	"golang.org/x/exp/slog"
)

// qrShape is the layout a machine-decoded payload must have to be trusted as is.
var qrShape = regexp.MustCompile(`(Mahajana Sampatha|Govisetha) \d+ (\d{2}\.\d{2}\.\d{4}|\d{4}/\d{2}/\d{2}) (\d+) ([A-Z]) (\d{4,6}) http://r\.nlb\.lk/\d+[A-Z]\d{4,6}`)

// ImageDecoder recovers the QR payload of a ticket photo, asking the
// extraction API to read it when the symbol cannot be decoded.
type ImageDecoder struct {
	scanner   QRScanner
	extractor Extractor
}

// NewImageDecoder creates a new ImageDecoder
func NewImageDecoder(scanner QRScanner, extractor Extractor) *ImageDecoder {
	return &ImageDecoder{scanner: scanner, extractor: extractor}
}

// Decode returns the ticket's QR payload. Scanner failures only trigger the
// fallback; the returned error is always an extraction failure.
func (d *ImageDecoder) Decode(ctx context.Context, image []byte) (models.QRPayload, error) {
	raw, err := d.scan(image)
	switch {
	case err != nil:
		slog.Info("No QR code decoded, falling back to extraction API", "error", err)
	case qrShape.MatchString(raw):
		slog.Info("QR code decoded", "payload", raw)
		metrics.RecordQRPayload(string(models.OriginMachineDecoded))
		return models.QRPayload{Text: raw, Origin: models.OriginMachineDecoded, Raw: raw}, nil
	default:
		slog.Warn("QR data format incorrect, falling back to extraction API", "payload", raw)
	}

	text, err := d.extractor.Extract(ctx, image, QRPrompt)
	if err != nil {
		metrics.RecordExtractionFailure()
		return models.QRPayload{Raw: raw}, fmt.Errorf("error extracting QR data: %w", err)
	}
	metrics.RecordQRPayload(string(models.OriginModelExtracted))
	return models.QRPayload{Text: text, Origin: models.OriginModelExtracted, Raw: raw}, nil
}

// scan runs the scanner, treating a panic as no symbol found.
func (d *ImageDecoder) scan(image []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("QR scanner panic: %v", r)
		}
	}()
	if d.scanner == nil {
		return "", fmt.Errorf("no QR scanner configured")
	}
	return d.scanner.Scan(image)
}
