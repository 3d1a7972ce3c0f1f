package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestValidateImageContentType(t *testing.T) {
	valid := []string{"image/jpeg", "IMAGE/PNG", " image/webp ", "image/heic"}
	invalid := []string{"", "application/pdf", "text/html", "video/mp4"}

	for _, ct := range valid {
		if !ValidateImageContentType(ct) {
			t.Fatalf("expected %q to be accepted", ct)
		}
	}
	for _, ct := range invalid {
		if ValidateImageContentType(ct) {
			t.Fatalf("expected %q to be rejected", ct)
		}
	}
}

func TestIsHeifFamily(t *testing.T) {
	heic := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
	heic = append(heic, make([]byte, 8)...)
	if !isHeifFamily(heic) {
		t.Fatal("expected heic brand to be detected")
	}

	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}
	if isHeifFamily(jpegHeader) {
		t.Fatal("jpeg header must not be detected as heif")
	}
	if isHeifFamily([]byte{1, 2, 3}) {
		t.Fatal("short input must not be detected as heif")
	}
}

func TestEncodeItemImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := EncodeItemImage(buf.Bytes(), 500, 80)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() > 500 || bounds.Dy() > 500 {
		t.Fatalf("expected output to fit inside 500x500, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if _, err := EncodeItemImage([]byte("not an image"), 500, 80); err == nil {
		t.Fatal("expected error for undecodable input")
	}
	if _, err := EncodeItemImage(buf.Bytes(), 0, 80); err == nil {
		t.Fatal("expected error for non-positive maxSide")
	}
}
