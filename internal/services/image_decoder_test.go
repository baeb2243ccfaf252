package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageDecoder_MachineDecoded(t *testing.T) {
	extractor := &fakeExtractor{}
	decoder := NewImageDecoder(&fakeScanner{text: scenarioAPayload}, extractor)

	payload, err := decoder.Decode(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, scenarioAPayload, payload.Text)
	assert.True(t, payload.MachineDecoded())
	assert.Equal(t, 0, extractor.calls())
}

func TestImageDecoder_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		scanner QRScanner
		raw     string
	}{
		{"wrong shape", &fakeScanner{text: "https://example.com/promo"}, "https://example.com/promo"},
		{"no symbol", &fakeScanner{err: errors.New("no QR code found in image")}, ""},
		{"panic", &fakeScanner{panic: true}, ""},
		{"no scanner", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{qrText: scenarioAPayload}
			decoder := NewImageDecoder(tt.scanner, extractor)

			payload, err := decoder.Decode(context.Background(), []byte("img"))
			require.NoError(t, err)
			assert.Equal(t, models.OriginModelExtracted, payload.Origin)
			assert.Equal(t, scenarioAPayload, payload.Text)
			assert.Equal(t, tt.raw, payload.Raw)
			assert.Equal(t, []string{QRPrompt}, extractor.prompts)
		})
	}
}

func TestImageDecoder_ExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{qrErr: errors.New("rate limit exceeded")}
	decoder := NewImageDecoder(&fakeScanner{err: errors.New("no QR code found in image")}, extractor)

	_, err := decoder.Decode(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
