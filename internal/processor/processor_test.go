package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/pipeline"
	"github.com/joseph-ayodele/cv-extractor/internal/repository"
	"github.com/joseph-ayodele/cv-extractor/internal/schema"
)

const cv = "Zoë Müller\nzoe@example.com\nSkills\nGo, Rust & C++\n"

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestProcessFile_WritesArtifacts(t *testing.T) {
	in := writeInput(t, "jane.txt", cv)
	out := t.TempDir()

	proc := NewProcessor(nil, pipeline.New(nil, nil, nil), WithOutputDir(out))
	oc, err := proc.ProcessFile(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "jane_CV.json"), oc.Artifact)
	assert.Len(t, oc.Hash, 64)
	assert.NotEmpty(t, oc.RunID)

	perDoc, err := os.ReadFile(oc.Artifact)
	require.NoError(t, err)
	latest, err := os.ReadFile(filepath.Join(out, LatestArtifact))
	require.NoError(t, err)
	assert.Equal(t, perDoc, latest)

	// non-ASCII and & survive unescaped
	assert.Contains(t, string(perDoc), "Zoë Müller")
	assert.Contains(t, string(perDoc), "Rust & C++")
	require.NoError(t, schema.ValidateResult(perDoc))

	var res entity.Result
	require.NoError(t, json.Unmarshal(perDoc, &res))
	assert.Equal(t, in, res.SourceFile)
	assert.Equal(t, constants.ExtractedWithLabel, res.ExtractedWith)
	assert.Equal(t, []string{"zoe@example.com"}, res.Fields.Emails)
}

func TestProcessFile_DefaultsToInputDir(t *testing.T) {
	in := writeInput(t, "cv.md", cv)
	oc, err := NewProcessor(nil, pipeline.New(nil, nil, nil)).ProcessFile(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "cv_CV.json"), oc.Artifact)
}

func TestProcessFile_UsesTextCache(t *testing.T) {
	ctx := context.Background()
	in := writeInput(t, "jane.txt", cv)
	cache := repository.NewTextCacheRepository(nil, 0, nil)
	proc := NewProcessor(nil, pipeline.New(nil, nil, nil), WithTextCache(cache), WithOutputDir(t.TempDir()))

	first, err := proc.ProcessFile(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Result.Diagnostics.Cached)

	stored, err := cache.Get(ctx, first.Hash)
	require.NoError(t, err)
	assert.Equal(t, constants.MethodText, stored.Method)

	second, err := proc.ProcessFile(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Result.Diagnostics.Cached)
	assert.Equal(t, first.Result.Fields, second.Result.Fields)
}

func TestProcessFile_Errors(t *testing.T) {
	proc := NewProcessor(nil, pipeline.New(nil, nil, nil), WithOutputDir(t.TempDir()))

	_, err := proc.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = proc.ProcessFile(context.Background(), writeInput(t, "cv.exe", "x"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestWithPhoneRegion(t *testing.T) {
	p := NewProcessor(nil, nil, WithPhoneRegion(" in "))
	assert.Equal(t, "IN", p.region)
}
