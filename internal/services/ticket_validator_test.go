package services

import (
	"testing"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/stretchr/testify/assert"
)

func newDetails(name, letter, numbers string) *models.LotteryDetails {
	return &models.LotteryDetails{LotteryName: name, DrawNo: "1", DrawDate: "01.01.2025", Letter: letter, Numbers: numbers}
}

func TestValidateTicket_Valid(t *testing.T) {
	res := ValidateTicket(newDetails(models.MahajanaSampatha, "G", "646568"), "G 646568", models.OriginMachineDecoded)
	assert.True(t, res.Valid())
	assert.Equal(t, "G 646568", res.Combo)
	assert.Contains(t, res.Message, "QR machine-decoded: G 646568")
}

func TestValidateTicket_Mismatch(t *testing.T) {
	res := ValidateTicket(newDetails(models.Govisetha, "A", "1234"), "A 1235", models.OriginModelExtracted)
	assert.Equal(t, models.ValidationInvalid, res.Status)
	assert.Contains(t, res.Message, "Ticket mismatch")
	assert.Contains(t, res.Message, "QR model-extracted: A 1234")
	assert.Contains(t, res.Message, "A 1235")
}

func TestValidateTicket_ExpectedLength(t *testing.T) {
	tests := []struct {
		lottery string
		numbers string
		valid   bool
	}{
		{models.MahajanaSampatha, "646568", true},
		{models.MahajanaSampatha, "6465", false},
		{models.MahajanaSampatha, "64656", false},
		{models.Govisetha, "1234", true},
		{models.Govisetha, "123456", false},
		{models.Govisetha, "12345", false},
	}
	for _, tt := range tests {
		res := ValidateTicket(newDetails(tt.lottery, "B", tt.numbers), "B "+tt.numbers, models.OriginMachineDecoded)
		assert.Equal(t, tt.valid, res.Valid(), "%s %s", tt.lottery, tt.numbers)
		if !tt.valid {
			assert.Contains(t, res.Message, "QR Numbers invalid: "+tt.numbers)
			assert.Contains(t, res.Message, "Face Numbers invalid")
		}
	}
}

func TestValidateTicket_ListsFailingChecks(t *testing.T) {
	res := ValidateTicket(newDetails(models.Govisetha, "a", "1234"), "Could not extract face numbers.", models.OriginModelExtracted)
	assert.Equal(t, models.ValidationInvalid, res.Status)
	assert.Contains(t, res.Message, "QR Letter invalid: a")
	assert.NotContains(t, res.Message, "QR Numbers invalid")
	assert.Contains(t, res.Message, "Face Numbers invalid: Could not extract face numbers. (expected 4 digits)")
}

func TestValidateTicket_NoDetails(t *testing.T) {
	res := ValidateTicket(nil, "G 646568", models.OriginModelExtracted)
	assert.Equal(t, models.ValidationInvalid, res.Status)
	assert.Equal(t, InvalidQRDetailsMessage, res.Message)
}
