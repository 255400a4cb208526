// Package qr mints session tokens and renders them as scannable PNGs.
package qr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinTokenBytes = 1
	MaxTokenBytes = 256

	MinBoxSize = 1
	MaxBoxSize = 40
	MinBorder  = 0
	MaxBorder  = 20
)

// NewToken returns a hex token built from length bytes of crypto/rand entropy,
// so the returned string is 2*length characters long.
func NewToken(length int) (string, error) {
	if length < MinTokenBytes || length > MaxTokenBytes {
		return "", fmt.Errorf("token length %d out of range [%d, %d]", length, MinTokenBytes, MaxTokenBytes)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// PNG encodes data as a QR code image. boxSize scales the pixel size of one
// module; border==0 drops the quiet zone entirely. The underlying library uses
// a fixed-width quiet zone rather than a configurable module count, which is
// fine: image geometry is a rendering detail, not part of the session contract.
func PNG(data string, boxSize, border int) ([]byte, error) {
	if boxSize < MinBoxSize || boxSize > MaxBoxSize {
		return nil, fmt.Errorf("box_size %d out of range [%d, %d]", boxSize, MinBoxSize, MaxBoxSize)
	}
	if border < MinBorder || border > MaxBorder {
		return nil, fmt.Errorf("border %d out of range [%d, %d]", border, MinBorder, MaxBorder)
	}

	code, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code.DisableBorder = border == 0

	modules := len(code.Bitmap())
	return code.PNG(boxSize * modules)
}
