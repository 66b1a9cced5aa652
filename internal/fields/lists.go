package fields

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

// Skills tokenizes the skills block, falling back to an inline "Skills: a, b" line.
func Skills(block []string, text string) []string {
	return listOrInline(block, text, reInlineSkills.FindStringSubmatch)
}

// Languages tokenizes the languages block, falling back to an inline "Languages: a, b" line.
func Languages(block []string, text string) []string {
	return listOrInline(block, text, reInlineLanguages.FindStringSubmatch)
}

func listOrInline(block []string, text string, inline func(string) []string) []string {
	out := Tokenize(strings.Join(block, "\n"))
	if len(out) > 0 {
		return out
	}
	if m := inline(text); m != nil {
		return Tokenize(m[1])
	}
	return []string{}
}

// Tokenize splits on list delimiters, trims, drops one-character tokens and
// deduplicates case-insensitively.
func Tokenize(s string) []string {
	var toks []string
	for _, t := range reListDelims.Split(s, -1) {
		t = strings.TrimSpace(t)
		if len([]rune(t)) > 1 {
			toks = append(toks, t)
		}
	}
	return utils.DedupFold(toks)
}
