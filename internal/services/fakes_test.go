package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/stretchr/testify/require"
)

const scenarioAPayload = "Mahajana Sampatha 5775 14.03.2025 080057750375810 G 646568 http://r.nlb.lk/080057750375810G646568"

type fakeScanner struct {
	text  string
	err   error
	panic bool
}

func (f *fakeScanner) Scan([]byte) (string, error) {
	if f.panic {
		panic("corrupt bitmap")
	}
	return f.text, f.err
}

type fakeExtractor struct {
	mu       sync.Mutex
	qrText   string
	qrErr    error
	faceText string
	faceErr  error
	prompts  []string
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if prompt == QRPrompt {
		return f.qrText, f.qrErr
	}
	return f.faceText, f.faceErr
}

func (f *fakeExtractor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeSource struct {
	winning models.WinningNumbers
	err     error
	calls   int
}

func (f *fakeSource) Fetch(context.Context, string, string) (models.WinningNumbers, error) {
	f.calls++
	return f.winning, f.err
}

type failingRuleRepo struct{ err error }

func (r failingRuleRepo) FindByLottery(context.Context, string) ([]*models.PrizeRule, error) {
	return nil, r.err
}

// pngBytes returns a small valid PNG
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}
