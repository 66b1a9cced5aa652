package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

var (
	reEmail = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	reURL   = regexp.MustCompile(`https?://[^\s,)\]]+`)
	// candidate spans only; validity is decided by phonenumbers
	rePhoneCandidate = regexp.MustCompile(`\+?\(?\d[\d ().\-]{5,}\d`)
	rePhoneSep       = regexp.MustCompile(`[\s().\-]+`)
	rePlusGap        = regexp.MustCompile(`\+[\s(]+`)
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Emails returns every email address in text, deduplicated case-insensitively.
func Emails(text string) []string {
	return utils.DedupFold(reEmail.FindAllString(text, -1))
}

// URLs returns every http(s) URL in text in encounter order.
func URLs(text string) []string {
	return utils.DedupExact(reURL.FindAllString(text, -1))
}

// Phones returns valid phone numbers in E.164 form. region is an ISO 3166
// alpha-2 hint used for numbers written without a country code; with no hint
// only numbers carrying a leading + can be recognised.
func Phones(text, region string) []string {
	region = strings.ToUpper(strings.TrimSpace(region))
	var out []string
	for _, cand := range rePhoneCandidate.FindAllString(text, -1) {
		out = append(out, phonesInSpan(cand, region)...)
	}
	return utils.DedupExact(out)
}

// phonesInSpan splits a candidate span into digit groups and takes, from the
// left, the longest run of groups that parses as a valid number. A span that
// holds two numbers, or a number next to a PIN code or a year, still yields
// the numbers it contains.
func phonesInSpan(span, region string) []string {
	groups := rePhoneSep.Split(strings.TrimSpace(rePlusGap.ReplaceAllString(span, "+")), -1)
	var out []string
	for i := 0; i < len(groups); {
		end := 0
		for j := len(groups); j > i; j-- {
			cand := strings.Join(groups[i:j], " ")
			if n := digitCount(cand); n < minPhoneDigits || n > maxPhoneDigits {
				continue
			}
			if e164, ok := parsePhone(cand, region); ok {
				out = append(out, e164)
				end = j
				break
			}
		}
		if end == 0 {
			i++
			continue
		}
		i = end
	}
	return out
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func parsePhone(cand, region string) (string, bool) {
	cand = strings.TrimSpace(cand)
	if !strings.HasPrefix(cand, "+") && region == "" {
		return "", false
	}
	num, err := phonenumbers.Parse(cand, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
