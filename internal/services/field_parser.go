package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lankalotto/ticket-validator/internal/models"
)

// QRPrompt asks the extraction API to transcribe a ticket's QR payload.
const QRPrompt = "Extract the QR code data from this lottery ticket image in the format: '[LotteryName] [DrawNo] [DrawDate] [Serial] [Letter] [Digits] [URL]'. Example: 'Mahajana Sampatha 5775 14.03.2025 080057750375810 G 646568 http://r.nlb.lk/080057750375810G646568'."

// FaceNumbersPrompt asks the extraction API for the letter and digits printed on the ticket face.
func FaceNumbersPrompt(lotteryName string) string {
	return fmt.Sprintf("Extract the ticket numbers from the face of this %s lottery ticket image in the format: '[Letter] [Digits]'. The [Letter] must be a single uppercase letter (A-Z), and [Digits] must be exactly 4 or 6 digits depending on the lottery type. Example for Mahajana Sampatha: 'G 646568', Example for Govisetha: 'A 1234'.", lotteryName)
}

var (
	// ErrUpstreamFailure marks payload text that is an upstream error report
	ErrUpstreamFailure = errors.New("upstream extraction failed")
	// ErrLotteryDetailsNotFound is returned when the payload has no recognisable fields
	ErrLotteryDetailsNotFound = errors.New("Could not extract lottery details")
	// ErrInvalidDrawDate is returned for dates that are not real calendar dates
	ErrInvalidDrawDate = errors.New("invalid draw date")
	// ErrFaceNumbersNotFound is returned when no letter+digits combo is in the face text
	ErrFaceNumbersNotFound = errors.New("Could not extract face numbers")
)

// ParseError keeps the text that failed to parse next to the reason.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	lotteryDetailsPattern = regexp.MustCompile(`(?i)(Mahajana Sampatha|Govisetha) (\d+) (\d{2}\.\d{2}\.\d{4}|\d{4}/\d{2}/\d{2}) (\d+) ([A-Z]) (\d{4,6}) (http://r\.nlb\.lk/\S+)`)
	faceComboPattern      = regexp.MustCompile(`([A-Z])\s*(\d{4,6})`)
)

const (
	drawDateLayout    = "02.01.2006"
	isoDrawDateLayout = "2006/01/02"
)

// ParseLotteryDetails parses a QR payload into its structured fields.
func ParseLotteryDetails(text string) (models.LotteryDetails, error) {
	if strings.Contains(text, "Error") {
		return models.LotteryDetails{}, &ParseError{Input: text, Err: ErrUpstreamFailure}
	}

	m := lotteryDetailsPattern.FindStringSubmatch(text)
	if m == nil {
		return models.LotteryDetails{}, &ParseError{Input: text, Err: ErrLotteryDetailsNotFound}
	}

	drawDate, err := normaliseDrawDate(m[3])
	if err != nil {
		return models.LotteryDetails{}, &ParseError{Input: text, Err: err}
	}

	return models.LotteryDetails{
		LotteryName: canonicalLotteryName(m[1]),
		DrawNo:      m[2],
		DrawDate:    drawDate,
		Serial:      m[4],
		Letter:      m[5],
		Numbers:     m[6],
		SourceURL:   m[7],
	}, nil
}

// ParseFaceCombo finds the letter and digits in the extraction API's answer
// about the ticket face.
func ParseFaceCombo(text string) (models.FaceCombo, error) {
	m := faceComboPattern.FindStringSubmatch(text)
	if m == nil {
		return models.FaceCombo{}, &ParseError{Input: text, Err: ErrFaceNumbersNotFound}
	}
	return models.FaceCombo{Letter: m[1], Numbers: m[2]}, nil
}

func canonicalLotteryName(name string) string {
	switch {
	case strings.EqualFold(name, models.MahajanaSampatha):
		return models.MahajanaSampatha
	case strings.EqualFold(name, models.Govisetha):
		return models.Govisetha
	}
	return name
}

// normaliseDrawDate returns the date as DD.MM.YYYY.
func normaliseDrawDate(raw string) (string, error) {
	layout := drawDateLayout
	if strings.Contains(raw, "/") {
		layout = isoDrawDateLayout
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidDrawDate, raw)
	}
	return t.Format(drawDateLayout), nil
}

// formatDrawDate renders a DD.MM.YYYY date as "THURSDAY, 24.04.2025".
func formatDrawDate(drawDate string) string {
	t, err := time.Parse(drawDateLayout, drawDate)
	if err != nil {
		return models.UnknownDrawDate
	}
	return strings.ToUpper(t.Format("Monday, 02.01.2006"))
}
