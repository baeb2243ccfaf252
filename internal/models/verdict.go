package models

// ValidationStatus is the outcome of cross-checking QR and face numbers
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "Valid"
	ValidationInvalid ValidationStatus = "Invalid"
)

// SubmissionState tracks a submission through the validation pipeline.
type SubmissionState string

const (
	StateSubmitted      SubmissionState = "SUBMITTED"
	StateDecoding       SubmissionState = "DECODING"
	StateParsing        SubmissionState = "PARSING"
	StateValidating     SubmissionState = "VALIDATING"
	StateFetchingWinner SubmissionState = "FETCHING_WINNER"
	StateScoring        SubmissionState = "SCORING"
	StateCached         SubmissionState = "CACHED"
	StateExpired        SubmissionState = "EXPIRED"
)

// Labels used when a stage could not produce real data.
const (
	UnknownValue        = "Unknown"
	UnknownDrawDate     = "UNKNOWN"
	NotAvailable        = "N/A"
	NoPrizeWon          = "No prize won"
	CouldNotProcess     = "Error: Could not process ticket"
	WinningCheckSkipped = "Winning number check skipped due to invalid ticket"
	NoWinningData       = "No winning data available"
)

// Verdict is the terminal record of a submission. It is built in one piece and
// never modified once cached.
type Verdict struct {
	LotteryName    string           `json:"lotteryName"`
	DrawDate       string           `json:"drawDate"`
	Validation     ValidationStatus `json:"validation"`
	LotteryNumbers string           `json:"lotteryNumbers"`
	LotteryResults string           `json:"lotteryResults"`
	WinningPrice   string           `json:"winningPrice"`
}

// UnprocessableVerdict is returned when the QR payload could not be parsed.
func UnprocessableVerdict() Verdict {
	return Verdict{
		LotteryName:    UnknownValue,
		DrawDate:       UnknownValue,
		Validation:     ValidationInvalid,
		LotteryNumbers: NotAvailable,
		LotteryResults: CouldNotProcess,
		WinningPrice:   NoPrizeWon,
	}
}
