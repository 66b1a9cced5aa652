package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/extract"
	"github.com/joseph-ayodele/cv-extractor/internal/fields"
	"github.com/joseph-ayodele/cv-extractor/internal/loader"
	"github.com/joseph-ayodele/cv-extractor/internal/ner"
	"github.com/joseph-ayodele/cv-extractor/internal/sections"
)

// Aggregator turns normalized text into a CandidateProfile. Document-wide
// fields ignore sections; each section field runs its own extractor, and a
// failing extractor leaves its field empty.
type Aggregator struct {
	ner      ner.Recognizer
	maxNames int
	logger   *slog.Logger
}

func NewAggregator(rec ner.Recognizer, maxNames int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if maxNames <= 0 {
		maxNames = extract.DefaultMaxNames
	}
	return &Aggregator{ner: rec, maxNames: maxNames, logger: logger}
}

// Aggregate builds the profile. region is the phone-number locale hint.
func (a *Aggregator) Aggregate(ctx context.Context, text, region string) entity.CandidateProfile {
	lines := loader.Lines(text)
	blocks := sections.Segment(lines)
	block := func(k constants.SectionKey) []string { return blocks[k].Lines }

	var p entity.CandidateProfile
	p.Emails = guard(a.logger, "emails", func() []string { return extract.Emails(text) })
	p.Phones = guard(a.logger, "phones", func() []string { return extract.Phones(text, region) })
	p.URLs = guard(a.logger, "urls", func() []string { return extract.URLs(text) })
	p.NameCandidates = guard(a.logger, "name_candidates", func() []string { return a.names(ctx, text, lines) })

	s := &p.Sections
	s.Contact = guard(a.logger, "contact", func() entity.Contact {
		return fields.Contact(lines, text, block(constants.SectionContact), region)
	})
	s.Languages = guard(a.logger, "languages", func() []string { return fields.Languages(block(constants.SectionLanguages), text) })
	s.Skills = guard(a.logger, "skills", func() []string { return fields.Skills(block(constants.SectionSkills), text) })
	s.Education = guard(a.logger, "education", func() []entity.EducationItem { return fields.Education(block(constants.SectionEducation)) })
	s.Experience = guard(a.logger, "experience", func() []entity.ExperienceEntry { return fields.Experience(block(constants.SectionExperience)) })
	s.Projects = guard(a.logger, "projects", func() []entity.Project { return fields.Projects(block(constants.SectionProjects)) })
	s.ProfileSummary = guard(a.logger, "profile_summary", func() string {
		return fields.Summary(block(constants.SectionProfile), lines)
	})

	p.Normalize()
	return p
}

// names prefers recognizer output and falls back to the header-line guess
// when there is no recognizer, it fails, or it finds nobody.
func (a *Aggregator) names(ctx context.Context, text string, lines []string) []string {
	names, err := extract.NameCandidates(ctx, text, a.ner, a.maxNames)
	if err != nil {
		a.logger.Warn("name recognition failed, guessing from header", "error", err)
	}
	if len(names) > 0 {
		return names
	}
	if g := extract.GuessName(lines); g != "" {
		return []string{g}
	}
	return nil
}

// guard runs one extractor; a panic is logged and yields the zero value.
func guard[T any](logger *slog.Logger, field string, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("extractor failed", "field", field, "panic", r)
			var zero T
			out = zero
		}
	}()
	return fn()
}
