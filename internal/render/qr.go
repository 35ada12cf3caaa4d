package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPNG returns PNG bytes of a QR code encoding url, edge pixels square.
// The library silently grows the image when edge is below the minimum
// module grid for the payload.
func QRPNG(url string, edge int) ([]byte, error) {
	data, err := qrcode.Encode(url, qrcode.Medium, edge)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return data, nil
}

// QRImage returns the QR code as an image for pasting onto a canvas.
func QRImage(url string, edge int) (image.Image, error) {
	data, err := QRPNG(url, edge)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode qr png: %w", err)
	}
	return img, nil
}
