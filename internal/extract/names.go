package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/cv-extractor/internal/ner"
)

// DefaultMaxNames is how many name candidates a profile carries.
const DefaultMaxNames = 8

// NameCandidates ranks the recognizer's person mentions by frequency, ties
// broken by first occurrence, and keeps the top n. It returns an error only
// when the recognizer fails; callers fall back to GuessName.
func NameCandidates(ctx context.Context, text string, rec ner.Recognizer, n int) ([]string, error) {
	if rec == nil {
		return nil, nil
	}
	mentions, err := rec.People(ctx, text)
	if err != nil {
		return nil, err
	}
	return RankByFrequency(mentions, n), nil
}

// RankByFrequency orders distinct items by count desc then first occurrence and keeps n.
func RankByFrequency(items []string, n int) []string {
	type tally struct {
		name  string
		count int
		first int
	}
	idx := map[string]*tally{}
	var order []*tally
	for i, it := range items {
		if t, ok := idx[it]; ok {
			t.count++
			continue
		}
		t := &tally{name: it, count: 1, first: i}
		idx[it] = t
		order = append(order, t)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if n > 0 && len(order) > n {
		order = order[:n]
	}
	out := make([]string, len(order))
	for i, t := range order {
		out[i] = t.name
	}
	return out
}

var (
	reNonLetters = regexp.MustCompile(`[^A-Za-z\s]`)
	reHasPhone   = regexp.MustCompile(`\+?\d[\d\s().-]{6,}`)
)

// GuessName looks for the candidate's name among the first ten header lines:
// two consecutive single-word alphabetic lines form "First Last", otherwise the
// first short line without contact details is used.
func GuessName(lines []string) string {
	head := lines
	if len(head) > 10 {
		head = head[:10]
	}
	for i := 0; i+1 < len(head); i++ {
		a, b := strings.TrimSpace(head[i]), strings.TrimSpace(head[i+1])
		if isAlphaWord(a) && isAlphaWord(b) {
			name := titleCase(a + " " + b)
			if n := len(name); n >= 3 && n <= 40 {
				return name
			}
		}
	}
	for _, ln := range head {
		if reEmail.MatchString(ln) || reHasPhone.MatchString(ln) {
			continue
		}
		words := strings.Fields(reNonLetters.ReplaceAllString(ln, " "))
		joined := strings.Join(words, " ")
		if len(joined) <= 1 || len(words) > 4 {
			continue
		}
		return titleCase(joined)
	}
	return ""
}

func isAlphaWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
