package loader

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reLineBreak = regexp.MustCompile(`\r\n?`)

// DecodeText decodes plain-text bytes. A UTF-8 or UTF-16 byte order mark
// selects the encoding; otherwise UTF-8 is assumed and invalid bytes are dropped.
func DecodeText(data []byte) string {
	dec := unicode.BOMOverride(encoding.Nop.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		out = data
	}
	return strings.ToValidUTF8(string(out), "")
}

// NormalizeText unifies line endings, drops NULs and composes Unicode (NFC).
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = reLineBreak.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\f", "\n")
	return norm.NFC.String(s)
}

// Lines returns the non-empty, trimmed lines of text.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
