package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
)

func TestValidateProfile_EmptyProfile(t *testing.T) {
	b, err := json.Marshal(entity.NewCandidateProfile())
	require.NoError(t, err)
	assert.NoError(t, ValidateProfile(b))
}

func TestValidateProfile_RejectsMissingKeys(t *testing.T) {
	var zero entity.CandidateProfile // nil slices encode as null
	b, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.Error(t, ValidateProfile(b))

	assert.Error(t, ValidateProfile([]byte(`{"emails":[]}`)))
}

func TestValidateProfile_NullableFields(t *testing.T) {
	p := entity.NewCandidateProfile()
	p.Sections.Education = []entity.EducationItem{{Text: "BSc", Year: entity.Ptr("2015")}, {Text: "School"}}
	p.Sections.Experience = []entity.ExperienceEntry{{Raw: "Acme", Company: entity.Ptr("Acme")}}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NoError(t, ValidateProfile(b))

	p.Sections.Education[0].Year = entity.Ptr("15")
	b, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Error(t, ValidateProfile(b))
}

func TestValidateResult(t *testing.T) {
	r := entity.Result{
		SourceFile:    "cv.pdf",
		ExtractedWith: "x",
		Fields:        entity.NewCandidateProfile(),
		Diagnostics:   &entity.Diagnostics{Method: "text", Bytes: 10},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NoError(t, ValidateResult(b))

	r.Diagnostics = nil
	b, err = json.Marshal(r)
	require.NoError(t, err)
	assert.NoError(t, ValidateResult(b))

	assert.Error(t, ValidateResult([]byte(`{"source_file":"a","extracted_with":"b","fields":{},"extra":1}`)))
}
