package sections

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

// Block is the run of lines under one section header, header excluded.
type Block struct {
	Header string
	Lines  []string
}

// Segment locates at most one block per section key. For each key the first
// line containing one of its variants is the header; the block runs until the
// next header-like line. A key with no header is absent from the result.
func Segment(lines []string) map[constants.SectionKey]Block {
	lower := make([]string, len(lines))
	for i, ln := range lines {
		lower[i] = strings.ToLower(ln)
	}

	out := make(map[constants.SectionKey]Block, len(Rules))
	for _, rule := range Rules {
		start := -1
		for i, l := range lower {
			if containsAny(l, rule.Variants) {
				start = i
				break
			}
		}
		if start < 0 {
			continue
		}
		end := len(lines)
		for j := start + 1; j < len(lines); j++ {
			if IsHeaderLike(lines[j]) {
				end = j
				break
			}
		}
		block := make([]string, end-start-1)
		copy(block, lines[start+1:end])
		out[rule.Key] = Block{Header: lines[start], Lines: block}
	}
	return out
}

// IsHeaderLike reports whether a line ends a block: a short all-caps line,
// or any line mentioning a section keyword.
func IsHeaderLike(line string) bool {
	if utils.WordCount(line) <= 4 && utils.IsUpper(line) {
		return true
	}
	return containsAny(strings.ToLower(line), allVariants)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
