package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCheckURL(t *testing.T) {
	id := uuid.MustParse("6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10")

	tests := []struct {
		base string
		want string
	}{
		{"https://gym.example.com", "https://gym.example.com/check/6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10"},
		{"https://gym.example.com/", "https://gym.example.com/check/6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10"},
		{"http://localhost:8080", "http://localhost:8080/check/6f1c1c2e-8a34-4b8e-9a4e-0d7c2b5f1a10"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			if got := CheckURL(tt.base, id); got != tt.want {
				t.Errorf("CheckURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCheckURL(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantOK  bool
	}{
		{"valid", "https://gym.example.com/check/abc-123", "abc-123", true},
		{"query string ignored", "https://gym.example.com/check/abc?x=1", "abc", true},
		{"surrounding whitespace", "  http://localhost:8080/check/xyz\n", "xyz", true},
		{"other host still matches", "https://other.example.org/check/abc", "abc", true},
		{"trailing slash", "https://gym.example.com/check/abc/", "", false},
		{"nested path", "https://gym.example.com/app/check/abc", "", false},
		{"extra segment", "https://gym.example.com/check/abc/def", "", false},
		{"missing id", "https://gym.example.com/check/", "", false},
		{"relative path", "/check/abc", "", false},
		{"plain text", "hello world", "", false},
		{"wifi payload", "WIFI:S:gym;T:WPA;P:secret;;", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseCheckURL(tt.payload)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ParseCheckURL(%q) = (%q, %v), want (%q, %v)", tt.payload, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG("https://gym.example.com/check/abc", DefaultSize)
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != DefaultSize || bounds.Dy() != DefaultSize {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), DefaultSize, DefaultSize)
	}
}

func TestPNG_DefaultSize(t *testing.T) {
	data, err := PNG("payload", 0)
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != DefaultSize {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), DefaultSize)
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{0x89, 'P', 'N', 'G'})
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI() = %q, want data:image/png;base64 prefix", uri)
	}
	if uri != "data:image/png;base64,iVBORw==" {
		t.Errorf("DataURI() = %q", uri)
	}
}
