// Package nlbresults looks up official draw results on the National Lotteries
// Board results site.
package nlbresults

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lankalotto/ticket-validator/internal/models"
)

// DefaultBaseURL is the public results site
const DefaultBaseURL = "https://www.nlb.lk"

var (
	// ErrResultNotFound is returned when the page carries no result block
	ErrResultNotFound = errors.New("Result not found on NLB website.")
	// ErrWinningDetailsNotFound is returned when the result block lacks the letter or numbers
	ErrWinningDetailsNotFound = errors.New("Winning details not found.")
)

// resultSelector locates the result fragment on a draw page
const resultSelector = "div.lresult"

// Slug turns a lottery name into its URL path segment ("Mahajana Sampatha" → "mahajana-sampatha").
func Slug(lotteryName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lotteryName)), " ", "-")
}

// DrawURL builds the results page URL for one draw.
func DrawURL(baseURL, lotteryName, drawNo string) string {
	return fmt.Sprintf("%s/results/%s/%s", strings.TrimRight(baseURL, "/"), Slug(lotteryName), url.PathEscape(drawNo))
}

// ParseResultPage extracts the winning letter and numbers from a draw page.
// Numbers are the "Number-1" list items concatenated in document order.
func ParseResultPage(r io.Reader) (models.WinningNumbers, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.WinningNumbers{}, fmt.Errorf("failed to parse results page: %w", err)
	}

	block := doc.Find(resultSelector).First()
	if block.Length() == 0 {
		return models.WinningNumbers{}, ErrResultNotFound
	}

	letter := strings.TrimSpace(block.Find("li.Letter").First().Text())

	var numbers strings.Builder
	block.Find(`li[class*="Number-1"]`).Each(func(_ int, s *goquery.Selection) {
		numbers.WriteString(strings.TrimSpace(s.Text()))
	})

	if letter == "" || numbers.Len() == 0 {
		return models.WinningNumbers{}, ErrWinningDetailsNotFound
	}
	return models.WinningNumbers{Letter: letter, Numbers: numbers.String()}, nil
}
