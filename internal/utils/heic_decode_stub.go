//go:build !linux || !cgo

package utils

import (
	"errors"
	"image"
)

func decodeHEIC(data []byte) (image.Image, error) {
	return nil, errors.New("heic decoding not supported on this platform")
}
