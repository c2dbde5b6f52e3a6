package contact

import (
	"strings"
	"testing"

	"github.com/tendant/gymdesk/pkg/domain"
)

func stringPtr(s string) *string {
	return &s
}

func TestVCard(t *testing.T) {
	tests := []struct {
		name  string
		phone *string
		email *string
		want  string
	}{
		{
			name:  "all fields",
			phone: stringPtr("+1 555 0100"),
			email: stringPtr("ana@example.com"),
			want:  "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ana Perez\r\nTEL:+1 555 0100\r\nEMAIL:ana@example.com\r\nEND:VCARD\r\n",
		},
		{
			name:  "no phone",
			email: stringPtr("a@b.com"),
			want:  "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ana Perez\r\nEMAIL:a@b.com\r\nEND:VCARD\r\n",
		},
		{
			name:  "no email",
			phone: stringPtr("555"),
			want:  "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ana Perez\r\nTEL:555\r\nEND:VCARD\r\n",
		},
		{
			name:  "blank values are omitted",
			phone: stringPtr("  "),
			email: stringPtr(""),
			want:  "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ana Perez\r\nEND:VCARD\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &domain.Member{Name: "Ana Perez", Phone: tt.phone, Email: tt.email}
			if got := VCard(m); got != tt.want {
				t.Errorf("VCard() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVCard_ExactlyOneEmailWithoutPhone(t *testing.T) {
	m := &domain.Member{Name: "A", Email: stringPtr("a@b.com")}
	card := VCard(m)

	if strings.Contains(card, "TEL") {
		t.Error("card should not contain a TEL line")
	}
	if n := strings.Count(card, "EMAIL:"); n != 1 {
		t.Errorf("EMAIL lines = %d, want 1", n)
	}
}

func TestVCard_EscapesText(t *testing.T) {
	m := &domain.Member{Name: "Perez, Ana; Jr\\\nSecond"}
	card := VCard(m)
	want := `FN:Perez\, Ana\; Jr\\\nSecond`
	if !strings.Contains(card, want+"\r\n") {
		t.Errorf("VCard() = %q, want line %q", card, want)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ana Perez", "Ana_Perez.vcf"},
		{"José Núñez", "Jos_N_ez.vcf"},
		{"../../etc", "etc.vcf"},
		{"***", "contact.vcf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(&domain.Member{Name: tt.name}); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
