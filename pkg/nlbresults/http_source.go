package nlbresults

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lankalotto/ticket-validator/internal/models"
	"golang.org/x/exp/slog"
)

// DefaultWaitTimeout bounds a single lookup
const DefaultWaitTimeout = 10 * time.Second

// HTTPSource fetches draw pages with a plain GET and parses the served HTML
type HTTPSource struct {
	BaseURL     string
	WaitTimeout time.Duration
	client      *http.Client
}

// NewHTTPSource creates a new HTTPSource
func NewHTTPSource(baseURL string, waitTimeout time.Duration) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &HTTPSource{
		BaseURL:     baseURL,
		WaitTimeout: waitTimeout,
		client:      &http.Client{},
	}
}

// Fetch retrieves the winning numbers of one draw
func (s *HTTPSource) Fetch(ctx context.Context, lotteryName, drawNo string) (models.WinningNumbers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.WaitTimeout)
	defer cancel()

	pageURL := DrawURL(s.BaseURL, lotteryName, drawNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.WinningNumbers{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ticket-validator)")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.WinningNumbers{}, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.WinningNumbers{}, ErrResultNotFound
	case resp.StatusCode != http.StatusOK:
		return models.WinningNumbers{}, fmt.Errorf("results page %s returned status %d", pageURL, resp.StatusCode)
	}

	winning, err := ParseResultPage(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return models.WinningNumbers{}, err
	}
	slog.Debug("Fetched winning numbers", "lottery", lotteryName, "draw", drawNo, "result", winning.String())
	return winning, nil
}
