package nlbresults

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drawPage = `<html><body>
<div class="lresult">
  <ol class="B">
    <li class="Letter Circle">G</li>
    <li class="Number-1 Circle">6</li>
    <li class="Number-1 Circle">4</li>
    <li class="Number-1 Circle">6</li>
    <li class="Number-1 Circle">5</li>
    <li class="Number-1 Circle">6</li>
    <li class="Number-1 Circle">8</li>
    <li class="Special">Bonus</li>
  </ol>
</div>
<div class="lresult"><li class="Letter">Z</li></div>
</body></html>`

func TestSlugAndDrawURL(t *testing.T) {
	assert.Equal(t, "mahajana-sampatha", Slug("Mahajana Sampatha"))
	assert.Equal(t, "govisetha", Slug("Govisetha"))
	assert.Equal(t, "https://www.nlb.lk/results/mahajana-sampatha/5775", DrawURL("https://www.nlb.lk/", "Mahajana Sampatha", "5775"))
}

func TestParseResultPage(t *testing.T) {
	winning, err := ParseResultPage(strings.NewReader(drawPage))
	require.NoError(t, err)
	assert.Equal(t, "G", winning.Letter)
	assert.Equal(t, "646568", winning.Numbers)
	assert.Equal(t, "G 646568", winning.String())
}

func TestParseResultPage_Missing(t *testing.T) {
	_, err := ParseResultPage(strings.NewReader(`<html><body><p>No draw</p></body></html>`))
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = ParseResultPage(strings.NewReader(`<div class="lresult"><li class="Letter">A</li></div>`))
	assert.ErrorIs(t, err, ErrWinningDetailsNotFound)

	_, err = ParseResultPage(strings.NewReader(`<div class="lresult"><li class="Number-1">1</li></div>`))
	assert.ErrorIs(t, err, ErrWinningDetailsNotFound)
}

func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/results/mahajana-sampatha/5775":
			_, _ = w.Write([]byte(drawPage))
		case "/results/govisetha/9999":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, time.Second)

	winning, err := source.Fetch(context.Background(), "Mahajana Sampatha", "5775")
	require.NoError(t, err)
	assert.Equal(t, "G 646568", winning.String())

	_, err = source.Fetch(context.Background(), "Govisetha", "1")
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = source.Fetch(context.Background(), "Govisetha", "9999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	source := NewHTTPSource(server.URL, 50*time.Millisecond)
	_, err := source.Fetch(context.Background(), "Govisetha", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBrowserSource_Options(t *testing.T) {
	s := NewBrowserSource("", 0, "/usr/bin/chromium")
	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, DefaultWaitTimeout, s.WaitTimeout)
	assert.Greater(t, len(s.allocatorOptions()), len(NewBrowserSource("", 0, "").allocatorOptions()))
}
