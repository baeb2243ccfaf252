// Package qrcode reads QR symbols out of ticket photographs.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
)

var (
	// ErrUndecodableImage is returned when the bytes are not a supported image
	ErrUndecodableImage = errors.New("image could not be decoded")
	// ErrNoSymbol is returned when no QR symbol was found in the image
	ErrNoSymbol = errors.New("no QR code found in image")
)

// Scanner decodes QR symbols with gozxing
type Scanner struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewScanner creates a new Scanner that tries hard on rotated or noisy photos
func NewScanner() *Scanner {
	return &Scanner{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Scan returns the text of the first QR symbol found in the image.
// Panics raised inside the decoder are turned into ErrNoSymbol.
func (s *Scanner) Scan(data []byte) (text string, err error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: decoder panic: %v", ErrNoSymbol, r)
		}
	}()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSymbol, err)
	}

	result, err := zxqr.NewQRCodeReader().Decode(bmp, s.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSymbol, err)
	}
	return result.GetText(), nil
}
