package nlbresults

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/lankalotto/ticket-validator/internal/models"
	"golang.org/x/exp/slog"
)

// BrowserSource renders draw pages in headless Chrome, for when the result
// fragment is filled in by script.
type BrowserSource struct {
	BaseURL     string
	WaitTimeout time.Duration
	ExecPath    string
}

// NewBrowserSource creates a new BrowserSource. An empty execPath lets
// chromedp find Chrome on the PATH.
func NewBrowserSource(baseURL string, waitTimeout time.Duration, execPath string) *BrowserSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &BrowserSource{
		BaseURL:     baseURL,
		WaitTimeout: waitTimeout,
		ExecPath:    execPath,
	}
}

func (s *BrowserSource) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.ExecPath))
	}
	return opts
}

// Fetch retrieves the winning numbers of one draw. Each call starts and tears
// down its own browser.
func (s *BrowserSource) Fetch(ctx context.Context, lotteryName, drawNo string) (models.WinningNumbers, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	waitCtx, cancelWait := context.WithTimeout(browserCtx, s.WaitTimeout)
	defer cancelWait()

	pageURL := DrawURL(s.BaseURL, lotteryName, drawNo)
	var html string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(resultSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return models.WinningNumbers{}, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	winning, err := ParseResultPage(strings.NewReader(html))
	if err != nil {
		return models.WinningNumbers{}, err
	}
	slog.Debug("Rendered winning numbers", "lottery", lotteryName, "draw", drawNo, "result", winning.String())
	return winning, nil
}
