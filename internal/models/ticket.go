package models

// Supported lotteries, spelled the way they appear in the QR payload.
const (
	MahajanaSampatha = "Mahajana Sampatha"
	Govisetha        = "Govisetha"
)

// ExpectedDigits returns how many digits a ticket of the given lottery carries.
func ExpectedDigits(lotteryName string) int {
	if lotteryName == MahajanaSampatha {
		return 6
	}
	return 4
}

// PayloadOrigin records where the QR payload text came from
type PayloadOrigin string

const (
	OriginMachineDecoded PayloadOrigin = "machine-decoded"
	OriginModelExtracted PayloadOrigin = "model-extracted"
)

// QRPayload is the free-form text recovered from a ticket's QR code, either
// from a decoded symbol or from the extraction API.
type QRPayload struct {
	Text   string        `json:"text"`
	Origin PayloadOrigin `json:"origin"`
	// Raw holds the decoded symbol text even when it failed the shape check.
	Raw string `json:"raw,omitempty"`
}

// MachineDecoded reports whether the payload came straight off the QR symbol.
func (p QRPayload) MachineDecoded() bool {
	return p.Origin == OriginMachineDecoded
}

// LotteryDetails are the structured fields parsed out of a QR payload.
type LotteryDetails struct {
	LotteryName string `json:"lotteryName"`
	DrawNo      string `json:"drawNo"`
	DrawDate    string `json:"drawDate"` // DD.MM.YYYY
	Serial      string `json:"serial"`
	Letter      string `json:"letter"`
	Numbers     string `json:"numbers"`
	SourceURL   string `json:"sourceUrl"`
}

// Combo renders the letter and numbers the way they are compared against the face.
func (d LotteryDetails) Combo() string {
	return d.Letter + " " + d.Numbers
}

// Ticket returns the letter/numbers pair used for prize matching.
func (d LotteryDetails) Ticket() Ticket {
	return Ticket{Letter: d.Letter, Numbers: d.Numbers}
}

// FaceCombo is the letter+digits combination read off the printed ticket face.
type FaceCombo struct {
	Letter  string `json:"letter"`
	Numbers string `json:"numbers"`
}

func (f FaceCombo) String() string {
	return f.Letter + " " + f.Numbers
}

// Ticket is a letter/numbers pair to be scored against a draw.
type Ticket struct {
	Letter  string `json:"letter"`
	Numbers string `json:"numbers"`
}

func (t Ticket) String() string {
	return t.Letter + " " + t.Numbers
}

// WinningNumbers is the official result of a draw.
type WinningNumbers struct {
	Letter  string `json:"letter"`
	Numbers string `json:"numbers"`
}

func (w WinningNumbers) String() string {
	return w.Letter + " " + w.Numbers
}
