package service

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// StudentQrCard encodes a student's udise into a PNG code for the ID card.
func StudentQrCard(udise string) ([]byte, error) {
	png, err := qrcode.Encode(udise, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("error generating qr code: %w", err)
	}
	return png, nil
}
