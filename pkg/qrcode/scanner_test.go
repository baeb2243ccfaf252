package qrcode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeQR(t *testing.T, content string) []byte {
	t.Helper()
	matrix, err := zxqr.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 300, 300, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

func TestScanner_Scan(t *testing.T) {
	payload := "Mahajana Sampatha 5775 14.03.2025 080057750375810 G 646568 http://r.nlb.lk/080057750375810G646568"

	text, err := NewScanner().Scan(encodeQR(t, payload))
	require.NoError(t, err)
	assert.Equal(t, payload, text)
}

func TestScanner_NoSymbol(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(10, 10, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, err := NewScanner().Scan(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoSymbol)
}

func TestScanner_UndecodableImage(t *testing.T) {
	_, err := NewScanner().Scan([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUndecodableImage)
}
