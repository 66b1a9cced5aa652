package fields

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

const maxProjectDescription = 500

// Projects reads "Title - description", "Title: description" and bullet
// lines as new projects; other lines continue the previous description.
func Projects(block []string) []entity.Project {
	projects := []entity.Project{}
	for _, ln := range block {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		switch {
		case reBullet.MatchString(ln) || (strings.Contains(ln, " - ") && utils.WordCount(strings.SplitN(ln, " - ", 2)[0]) <= 6):
			parts := strings.SplitN(reBullet.ReplaceAllString(ln, ""), " - ", 2)
			p := entity.Project{Title: strings.TrimSpace(parts[0])}
			if len(parts) > 1 {
				p.Description = strings.TrimSpace(parts[1])
			}
			projects = append(projects, p)
		case strings.Contains(ln, ":") && utils.WordCount(strings.SplitN(ln, ":", 2)[0]) <= 6:
			parts := strings.SplitN(ln, ":", 2)
			projects = append(projects, entity.Project{
				Title:       strings.TrimSpace(parts[0]),
				Description: strings.TrimSpace(parts[1]),
			})
		case len(projects) > 0 && utf8.RuneCountInString(projects[len(projects)-1].Description) < maxProjectDescription:
			last := &projects[len(projects)-1]
			last.Description = strings.TrimSpace(last.Description + " " + ln)
		default:
			projects = append(projects, entity.Project{Title: ln})
		}
	}
	return projects
}
