package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-extractor/constants"
)

func TestSegment(t *testing.T) {
	lines := []string{
		"Jane Doe",
		"jane@x.com",
		"Professional Summary",
		"Backend engineer with ten years in Go.",
		"WORK EXPERIENCE",
		"Senior Engineer at Acme Corp",
		"01/2019 - 03/2022",
		"ACME CORP",
		"Built billing.",
		"Education",
		"BSc Computer Science, 2012",
		"Skills: Go, SQL",
	}
	blocks := Segment(lines)

	require.Contains(t, blocks, constants.SectionProfile)
	assert.Equal(t, "Professional Summary", blocks[constants.SectionProfile].Header)
	assert.Equal(t, []string{"Backend engineer with ten years in Go."}, blocks[constants.SectionProfile].Lines)

	require.Contains(t, blocks, constants.SectionExperience)
	assert.Equal(t, []string{"Senior Engineer at Acme Corp", "01/2019 - 03/2022"}, blocks[constants.SectionExperience].Lines)

	assert.Equal(t, []string{"BSc Computer Science, 2012"}, blocks[constants.SectionEducation].Lines)

	skills := blocks[constants.SectionSkills]
	assert.Equal(t, "Skills: Go, SQL", skills.Header)
	assert.Empty(t, skills.Lines)

	assert.NotContains(t, blocks, constants.SectionProjects)
	assert.NotContains(t, blocks, constants.SectionContact)
}

func TestSegment_FirstOccurrenceWins(t *testing.T) {
	lines := []string{"SKILLS", "Go", "Education", "MSc", "Technical Skills", "Rust"}
	blocks := Segment(lines)
	assert.Equal(t, "SKILLS", blocks[constants.SectionSkills].Header)
	assert.Equal(t, []string{"Go"}, blocks[constants.SectionSkills].Lines)
}

func TestSegment_IncidentalKeywordEndsBlock(t *testing.T) {
	lines := []string{"Experience", "Engineer at Acme", "Led the skills matrix rollout", "More detail"}
	blocks := Segment(lines)
	assert.Equal(t, []string{"Engineer at Acme"}, blocks[constants.SectionExperience].Lines)
	assert.Equal(t, []string{"More detail"}, blocks[constants.SectionSkills].Lines)
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(nil))
}

func TestIsHeaderLike(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ACME CORP", true},
		{"EDUCATION", true},
		{"THIS LINE HAS FIVE WORDS", false},
		{"Projects", true},
		{"Fluent in two languages", true},
		{"Senior Engineer at Acme Corp", false},
		{"01/2019 - 03/2022", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHeaderLike(tt.line), tt.line)
	}
}
