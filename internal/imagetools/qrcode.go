package imagetools

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// QRCode returns a map-sized QR code image for payload. Payloads too long
// for a map at one pixel per module are scaled down to fit.
func QRCode(payload string) (*image.RGBA, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: qr payload must not be empty", render.ErrValidation)
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	img := qrCode.Image(render.MapWidth)
	if img.Bounds().Size() != render.MapBounds.Size() {
		return ResizeToMapSize(img)
	}
	return Copy(img), nil
}
