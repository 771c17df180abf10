// file: services/qrcode_service.go
package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateQRCode renders content as a square PNG no larger than width x height.
func GenerateQRCode(content string, width, height int, encoder QRCodeEncoder) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid dimensions: width and height must be positive")
	}
	if encoder == nil {
		encoder = qrcode.Encode
	}

	png, err := encoder(content, qrcode.Medium, min(width, height))
	if err != nil {
		return nil, err
	}
	return png, nil
}
