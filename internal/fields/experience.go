package fields

import (
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/utils"
)

// Experience splits the block into entries and reads role, company and dates
// from each.
func Experience(block []string) []entity.ExperienceEntry {
	entries := SplitEntries(block)
	out := make([]entity.ExperienceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, parseEntry(e))
	}
	return out
}

// SplitEntries groups block lines into entries. Only a bullet starts a new
// entry once one is open; date lines and short capitalised lines join it.
func SplitEntries(block []string) []string {
	var entries [][]string
	var current []string
	flush := func() {
		if len(current) > 0 {
			entries = append(entries, current)
		}
	}
	for _, ln := range block {
		switch {
		case reBullet.MatchString(ln):
			flush()
			current = []string{reBullet.ReplaceAllString(ln, "")}
		case reDateLine.MatchString(ln) && len(current) > 0:
			current = append(current, ln)
		case utils.WordCount(ln) <= 6 && utils.StartsUpper(ln) && !utils.IsAlpha(ln):
			if len(current) > 0 && current[len(current)-1] != "" {
				current = append(current, ln)
			} else {
				flush()
				current = []string{ln}
			}
		default:
			current = append(current, ln)
		}
	}
	flush()

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s := strings.TrimSpace(strings.Join(e, "\n")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseEntry(raw string) entity.ExperienceEntry {
	e := entity.ExperienceEntry{Raw: raw}

	if d := reDateRange.FindString(raw); d != "" {
		e.Dates = entity.Ptr(d)
	} else if y := reYear.FindString(raw); y != "" {
		e.Dates = entity.Ptr(y)
	}

	first := raw
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	e.Role, e.Company = splitRoleCompany(first)
	return e
}

// splitRoleCompany tries " at ", then a dash, then a comma; failing those a
// role keyword makes the whole line the role, otherwise it is the company.
func splitRoleCompany(line string) (role, company *string) {
	pair := func(parts []string) (*string, *string) {
		r := entity.Ptr(strings.TrimSpace(parts[0]))
		if len(parts) > 1 {
			return r, entity.Ptr(strings.TrimSpace(parts[1]))
		}
		return r, nil
	}
	switch {
	case strings.Contains(strings.ToLower(line), " at "):
		return pair(reAtSplit.Split(line, -1))
	case reDashSplit.MatchString(line):
		return pair(reDashSplit.Split(line, 2))
	case strings.Contains(line, ","):
		return pair(strings.SplitN(line, ",", 2))
	case reRoleKeyword.MatchString(line):
		return entity.Ptr(strings.TrimSpace(line)), nil
	default:
		return nil, entity.Ptr(strings.TrimSpace(line))
	}
}
