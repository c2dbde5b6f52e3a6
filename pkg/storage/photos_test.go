package storage

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/google/uuid"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDetectPhotoType(t *testing.T) {
	img := pngBytes(t)
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	tests := []struct {
		name     string
		data     []byte
		maxBytes int
		wantType string
		wantErr  error
	}{
		{name: "png", data: img, maxBytes: 1 << 20, wantType: "image/png"},
		{name: "jpeg", data: jpegHeader, maxBytes: 1 << 20, wantType: "image/jpeg"},
		{name: "empty", data: nil, maxBytes: 1 << 20, wantErr: ErrEmptyPhoto},
		{name: "too large", data: img, maxBytes: 10, wantErr: ErrPhotoTooLarge},
		{name: "text", data: []byte("hello, not an image"), maxBytes: 1 << 20, wantErr: ErrUnsupportedPhotoType},
		{name: "html", data: []byte("<html><body>x</body></html>"), maxBytes: 1 << 20, wantErr: ErrUnsupportedPhotoType},
		{name: "no limit", data: img, maxBytes: 0, wantType: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectPhotoType(tt.data, tt.maxBytes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DetectPhotoType() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectPhotoType() error = %v", err)
			}
			if got != tt.wantType {
				t.Errorf("DetectPhotoType() = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestNewPhotoStore(t *testing.T) {
	if _, err := NewPhotoStore("not a url", 0); err == nil {
		t.Error("NewPhotoStore should reject an invalid URL")
	}

	s, err := NewPhotoStore("redis://localhost:6379/0", 0)
	if err != nil {
		t.Fatalf("NewPhotoStore failed: %v", err)
	}
	defer s.Close()
	if s.MaxBytes() != DefaultMaxPhotoBytes {
		t.Errorf("MaxBytes() = %d, want %d", s.MaxBytes(), DefaultMaxPhotoBytes)
	}
}

func TestPhotoKey(t *testing.T) {
	id := uuid.MustParse("6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10")
	if got := photoKey(id); got != "member-photo:6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10" {
		t.Errorf("photoKey() = %q", got)
	}
}
