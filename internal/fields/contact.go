package fields

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/extract"
	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

// Contact collects emails, phones and address lines. Document-wide values are
// the baseline; a contact block, when present, overrides each list it has
// non-empty values for.
func Contact(allLines []string, text string, block []string, region string) entity.Contact {
	c := entity.Contact{
		Emails:    extract.Emails(text),
		Phones:    extract.Phones(text, region),
		Addresses: headerAddresses(allLines),
	}
	if len(block) == 0 {
		return c
	}

	blockText := strings.Join(block, "\n")
	if emails := extract.Emails(blockText); len(emails) > 0 {
		c.Emails = emails
	}
	if phones := extract.Phones(blockText, region); len(phones) > 0 {
		c.Phones = phones
	}
	var addr []string
	for _, ln := range block {
		if hasAddressKeyword(ln) || rePostalCode.MatchString(ln) || looksLikeStreet(ln) {
			addr = append(addr, ln)
		}
	}
	if len(addr) > 0 {
		c.Addresses = utils.DedupExact(addr)
	}
	return c
}

// headerAddresses scans the top of the document. With nothing matching it
// falls back to the lines right after the name.
func headerAddresses(lines []string) []string {
	head := lines
	if len(head) > 12 {
		head = head[:12]
	}
	var addr []string
	for _, ln := range head {
		if hasAddressKeyword(ln) || rePostalCode.MatchString(ln) {
			addr = append(addr, ln)
		}
	}
	if len(addr) == 0 && len(lines) >= 6 {
		for _, ln := range lines[1:6] {
			if len(ln) > 8 {
				addr = append(addr, ln)
			}
		}
	}
	return utils.DedupExact(addr)
}

// looksLikeStreet accepts block lines of more than three words carrying a
// digit, e.g. a house number.
func looksLikeStreet(line string) bool {
	return utils.WordCount(line) > 3 && utils.ContainsDigit(line)
}

func hasAddressKeyword(line string) bool {
	low := strings.ToLower(line)
	for _, k := range AddressKeywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}
