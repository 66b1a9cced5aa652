package fields

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

const maxSummaryRunes = 1200

// Summary joins the profile block, or the first six document lines when there
// is none, and caps the result at 1200 characters.
func Summary(block, allLines []string) string {
	if len(block) > 0 {
		return utils.TruncateRunes(strings.Join(block, " "), maxSummaryRunes)
	}
	head := allLines
	if len(head) > 6 {
		head = head[:6]
	}
	return utils.TruncateRunes(strings.Join(head, "\n"), maxSummaryRunes)
}
