package fields

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
)

// Education turns every non-empty block line into an item with its first year.
func Education(block []string) []entity.EducationItem {
	items := make([]entity.EducationItem, 0, len(block))
	for _, ln := range block {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		item := entity.EducationItem{Text: ln}
		if y := reYear.FindString(ln); y != "" {
			item.Year = entity.Ptr(y)
		}
		items = append(items, item)
	}
	return items
}
