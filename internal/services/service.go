package services

import (
	"context"

	"github.com/lankalotto/ticket-validator/internal/models"
)

// TicketService defines the interface for ticket validation operations
type TicketService interface {
	// Submit validates an uploaded ticket photo, caches the verdict and returns its id
	Submit(ctx context.Context, image []byte, filename string) (string, error)

	// Process runs the validation pipeline on a ticket photo
	Process(ctx context.Context, image []byte) models.Verdict

	// Result retrieves a cached verdict by submission id
	Result(id string) (models.Verdict, error)
}

// --- Collaborators consumed by the pipeline ---

// QRScanner finds and decodes a QR symbol in an image
type QRScanner interface {
	Scan(image []byte) (string, error)
}

// Extractor reads text off an image according to a prompt
type Extractor interface {
	Extract(ctx context.Context, image []byte, prompt string) (string, error)
}

// WinningNumberSource looks up the official result of a draw
type WinningNumberSource interface {
	Fetch(ctx context.Context, lotteryName, drawNo string) (models.WinningNumbers, error)
}
