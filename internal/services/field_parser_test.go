package services

import (
	"testing"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLotteryDetails(t *testing.T) {
	details, err := ParseLotteryDetails(scenarioAPayload)
	require.NoError(t, err)
	assert.Equal(t, models.LotteryDetails{
		LotteryName: models.MahajanaSampatha,
		DrawNo:      "5775",
		DrawDate:    "14.03.2025",
		Serial:      "080057750375810",
		Letter:      "G",
		Numbers:     "646568",
		SourceURL:   "http://r.nlb.lk/080057750375810G646568",
	}, details)
}

func TestParseLotteryDetails_RoundTrip(t *testing.T) {
	for _, payload := range []string{
		scenarioAPayload,
		"Govisetha 3120 2025/04/24 031200001234 A 1234 http://r.nlb.lk/031200001234A1234",
	} {
		details, err := ParseLotteryDetails(payload)
		require.NoError(t, err, payload)
		assert.Contains(t, payload, " "+details.Combo()+" ")
	}
}

func TestParseLotteryDetails_Normalisation(t *testing.T) {
	details, err := ParseLotteryDetails("Scanned: GOVISETHA 3120 2025/04/24 031200001234 A 1234 http://r.nlb.lk/031200001234A1234 end")
	require.NoError(t, err)
	assert.Equal(t, models.Govisetha, details.LotteryName)
	assert.Equal(t, "24.04.2025", details.DrawDate)
	assert.Equal(t, "A 1234", details.Combo())
}

func TestParseLotteryDetails_KeepsLetterCase(t *testing.T) {
	details, err := ParseLotteryDetails("Govisetha 3120 24.04.2025 031200001234 a 1234 http://r.nlb.lk/x")
	require.NoError(t, err)
	assert.Equal(t, "a", details.Letter)
}

func TestParseLotteryDetails_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"upstream error", "Error: Failed API request: 503", ErrUpstreamFailure},
		{"garbage", "a blurry photograph of a cat", ErrLotteryDetailsNotFound},
		{"empty", "", ErrLotteryDetailsNotFound},
		{"impossible date", "Govisetha 3120 31.02.2025 031200001234 A 1234 http://r.nlb.lk/x", ErrInvalidDrawDate},
		{"impossible iso date", "Govisetha 3120 2025/13/01 031200001234 A 1234 http://r.nlb.lk/x", ErrInvalidDrawDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLotteryDetails(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.input, perr.Input)
		})
	}
}

func TestParseFaceCombo(t *testing.T) {
	combo, err := ParseFaceCombo("The ticket shows G646568 on its face")
	require.NoError(t, err)
	assert.Equal(t, "G 646568", combo.String())

	combo, err = ParseFaceCombo("A   1234")
	require.NoError(t, err)
	assert.Equal(t, models.FaceCombo{Letter: "A", Numbers: "1234"}, combo)

	_, err = ParseFaceCombo("no numbers here")
	assert.ErrorIs(t, err, ErrFaceNumbersNotFound)
}

func TestFaceNumbersPrompt(t *testing.T) {
	prompt := FaceNumbersPrompt(models.Govisetha)
	assert.Contains(t, prompt, "face of this Govisetha lottery ticket")
	assert.Contains(t, prompt, "'A 1234'")
}

func TestFormatDrawDate(t *testing.T) {
	assert.Equal(t, "THURSDAY, 24.04.2025", formatDrawDate("24.04.2025"))
	assert.Equal(t, "FRIDAY, 14.03.2025", formatDrawDate("14.03.2025"))
	assert.Equal(t, models.UnknownDrawDate, formatDrawDate("2025-04-24"))
}
