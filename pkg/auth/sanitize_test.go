package auth

import (
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "Hello World",
			want:  "Hello World",
		},
		{
			name:  "markup removed",
			input: "<b>Ana</b> Perez",
			want:  "Ana Perez",
		},
		{
			name:  "script content dropped",
			input: "<script>alert('xss')</script>Bob",
			want:  "Bob",
		},
		{
			name:  "ampersand kept as text",
			input: "Tom & Jerry",
			want:  "Tom & Jerry",
		},
		{
			name:  "quotes kept as text",
			input: `Ana "La Flaca" Perez`,
			want:  `Ana "La Flaca" Perez`,
		},
		{
			name:  "control characters removed",
			input: "Ana\x00\x07 Perez",
			want:  "Ana Perez",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  Ana  ",
			want:  "Ana",
		},
		{
			name:  "unicode preserved",
			input: "José Núñez",
			want:  "José Núñez",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeOptional(t *testing.T) {
	if got := SanitizeOptional(nil); got != nil {
		t.Errorf("SanitizeOptional(nil) = %v, want nil", *got)
	}

	blank := "   "
	if got := SanitizeOptional(&blank); got != nil {
		t.Errorf("SanitizeOptional(blank) = %q, want nil", *got)
	}

	onlyMarkup := "<p></p>"
	if got := SanitizeOptional(&onlyMarkup); got != nil {
		t.Errorf("SanitizeOptional(markup) = %q, want nil", *got)
	}

	notes := "Knee injury,\n<i>no squats</i>"
	got := SanitizeOptional(&notes)
	if got == nil || *got != "Knee injury,\nno squats" {
		t.Errorf("SanitizeOptional(notes) = %v, want %q", got, "Knee injury,\nno squats")
	}
}

func TestValidateStringLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		max     int
		wantErr bool
	}{
		{"within range", "hello", 1, 10, false},
		{"too short", "hi", 3, 10, true},
		{"too long", "hello world", 1, 5, true},
		{"no limits", "anything", 0, 0, false},
		{"multibyte counts runes", "ñññññ", 1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStringLength("field", tt.value, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStringLength() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
