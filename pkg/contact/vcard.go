// Package contact renders member contact cards.
package contact

import (
	"regexp"
	"strings"

	"github.com/tendant/gymdesk/pkg/domain"
)

// ContentType is the media type of a vCard payload.
const ContentType = "text/vcard; charset=utf-8"

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// VCard renders a version 3.0 vCard for m. TEL and EMAIL lines are omitted
// when the member has no phone or email.
func VCard(m *domain.Member) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCARD")
	writeLine(&b, "VERSION:3.0")
	writeLine(&b, "FN:"+textEscaper.Replace(m.Name))
	if v := trimmed(m.Phone); v != "" {
		writeLine(&b, "TEL:"+textEscaper.Replace(v))
	}
	if v := trimmed(m.Email); v != "" {
		writeLine(&b, "EMAIL:"+textEscaper.Replace(v))
	}
	writeLine(&b, "END:VCARD")
	return b.String()
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename returns a download name for the member's card.
func Filename(m *domain.Member) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(m.Name, "_"), "_.")
	if name == "" {
		name = "contact"
	}
	return name + ".vcf"
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
