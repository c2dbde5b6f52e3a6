// Package qrcode builds and recognizes the member check-in QR payload.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"regexp"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
)

// DefaultSize is the width and height, in pixels, of generated codes.
const DefaultSize = 200

var checkPath = regexp.MustCompile(`^/check/([^/]+)$`)

// CheckURL returns the checkpoint URL encoded in a member's QR code.
func CheckURL(baseURL string, memberID uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + "/check/" + memberID.String()
}

// ParseCheckURL extracts the member id from a scanned payload. Payloads that
// are not absolute URLs with a path of exactly /check/{id} are rejected.
func ParseCheckURL(payload string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(payload))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	m := checkPath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PNG renders content as a square QR code with high error correction.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	code, err := qr.Encode(content, qr.H, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode QR code image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes in a data URI for inline display.
func DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
