package sections

import "github.com/joseph-ayodele/cv-extractor/constants"

// Rule lists the header variants that open one section. Matching is a
// lower-case substring test against the whole line.
type Rule struct {
	Key      constants.SectionKey
	Variants []string
}

// Rules is the segmenter's keyword table.
var Rules = []Rule{
	{constants.SectionContact, []string{"contact", "contact information", "contact info"}},
	{constants.SectionLanguages, []string{"languages", "language"}},
	{constants.SectionProjects, []string{"projects", "personal projects", "selected projects"}},
	{constants.SectionExperience, []string{"experience", "work experience", "professional experience", "employment history", "work history"}},
	{constants.SectionEducation, []string{"education", "academic", "qualifications", "qualification"}},
	{constants.SectionSkills, []string{"skills", "technical skills", "key skills", "core skills"}},
	{constants.SectionProfile, []string{"profile", "summary", "professional summary", "objective"}},
}

// allVariants is every variant of every key; any of them ends a block.
var allVariants = func() []string {
	var out []string
	for _, r := range Rules {
		out = append(out, r.Variants...)
	}
	return out
}()
