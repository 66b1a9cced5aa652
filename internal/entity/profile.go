package entity

// CandidateProfile is the structured view of one résumé. Every list is
// non-nil after Normalize so the JSON form always carries every key.
type CandidateProfile struct {
	Emails         []string `json:"emails"`
	Phones         []string `json:"phones"`
	URLs           []string `json:"urls"`
	NameCandidates []string `json:"name_candidates"`
	Sections       Sections `json:"sections"`
}

type Sections struct {
	Contact        Contact           `json:"contact"`
	Languages      []string          `json:"languages"`
	Skills         []string          `json:"skills"`
	Education      []EducationItem   `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Projects       []Project         `json:"projects"`
	ProfileSummary string            `json:"profile_summary"`
}

type Contact struct {
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
	Addresses []string `json:"addresses"`
}

type EducationItem struct {
	Text string  `json:"text"`
	Year *string `json:"year"`
}

type ExperienceEntry struct {
	Raw     string  `json:"raw"`
	Role    *string `json:"role"`
	Company *string `json:"company"`
	Dates   *string `json:"dates"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewCandidateProfile returns a shape-complete empty profile.
func NewCandidateProfile() CandidateProfile {
	var p CandidateProfile
	p.Normalize()
	return p
}

// Normalize replaces nil slices with empty ones.
func (p *CandidateProfile) Normalize() {
	p.Emails = nonNil(p.Emails)
	p.Phones = nonNil(p.Phones)
	p.URLs = nonNil(p.URLs)
	p.NameCandidates = nonNil(p.NameCandidates)

	s := &p.Sections
	s.Contact.Emails = nonNil(s.Contact.Emails)
	s.Contact.Phones = nonNil(s.Contact.Phones)
	s.Contact.Addresses = nonNil(s.Contact.Addresses)
	s.Languages = nonNil(s.Languages)
	s.Skills = nonNil(s.Skills)
	s.Education = nonNil(s.Education)
	s.Experience = nonNil(s.Experience)
	s.Projects = nonNil(s.Projects)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
