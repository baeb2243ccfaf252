package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lankalotto/ticket-validator/internal/models"
)

// InvalidQRDetailsMessage is reported when the QR payload could not be parsed
const InvalidQRDetailsMessage = "Invalid: Could not extract QR details"

var (
	singleLetter = regexp.MustCompile(`^[A-Z]$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	faceShape    = regexp.MustCompile(`^[A-Z]\s(\d+)$`)
)

// ValidationResult is the outcome of cross-checking a ticket's QR fields with its face.
type ValidationResult struct {
	Status  models.ValidationStatus
	Combo   string
	Message string
}

// Valid reports whether the ticket passed every check.
func (r ValidationResult) Valid() bool {
	return r.Status == models.ValidationValid
}

// ValidateTicket checks the QR letter and digits against the lottery's format
// and compares the QR combo with the combo read off the ticket face. A nil
// details means the QR payload could not be parsed.
func ValidateTicket(details *models.LotteryDetails, face string, origin models.PayloadOrigin) ValidationResult {
	if details == nil {
		return ValidationResult{Status: models.ValidationInvalid, Message: InvalidQRDetailsMessage}
	}

	n := models.ExpectedDigits(details.LotteryName)
	qrCombo := details.Combo()

	letterOK := singleLetter.MatchString(details.Letter)
	numbersOK := digitsOnly.MatchString(details.Numbers) && len(details.Numbers) == n
	faceOK := false
	if m := faceShape.FindStringSubmatch(face); m != nil {
		faceOK = len(m[1]) == n
	}

	sources := fmt.Sprintf("(QR %s: %s, Face model-extracted: %s)", origin, qrCombo, face)

	if letterOK && numbersOK && faceOK {
		if qrCombo == face {
			return ValidationResult{
				Status:  models.ValidationValid,
				Combo:   qrCombo,
				Message: "Valid " + sources,
			}
		}
		return ValidationResult{
			Status:  models.ValidationInvalid,
			Combo:   qrCombo,
			Message: "Invalid: Ticket mismatch " + sources,
		}
	}

	var issues []string
	if !letterOK {
		issues = append(issues, fmt.Sprintf("QR Letter invalid: %s", details.Letter))
	}
	if !numbersOK {
		issues = append(issues, fmt.Sprintf("QR Numbers invalid: %s (expected %d digits)", details.Numbers, n))
	}
	if !faceOK {
		issues = append(issues, fmt.Sprintf("Face Numbers invalid: %s (expected %d digits)", face, n))
	}
	return ValidationResult{
		Status:  models.ValidationInvalid,
		Combo:   qrCombo,
		Message: "Invalid: " + strings.Join(issues, "; ") + " " + sources,
	}
}
