package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

type recorder struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[filepath.Base(path)] {
		return errors.New("cannot read")
	}
	r.paths = append(r.paths, filepath.Base(path))
	return nil
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.txt"), "Jane Doe")
	write(t, filepath.Join(root, "nested", "b.pdf"), "%PDF-1.4 b")
	write(t, filepath.Join(root, "nested", "copy.txt"), "Jane Doe")
	write(t, filepath.Join(root, "notes.exe"), "x")
	write(t, filepath.Join(root, ".hidden", "c.txt"), "hidden")
	write(t, filepath.Join(root, "broken.docx"), "PK?")

	rec := &recorder{fail: map[string]bool{"broken.docx": true}}
	results, stats, err := NewIngestor(nil, true).IngestDirectory(context.Background(), root, rec.handle)
	require.NoError(t, err)

	sort.Strings(rec.paths)
	assert.Equal(t, []string{"a.txt", "b.pdf"}, rec.paths)
	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Len(t, results, 4)

	for _, r := range results {
		if filepath.Base(r.Path) == "broken.docx" {
			assert.Equal(t, "cannot read", r.Err)
		} else {
			assert.Len(t, r.HashHex, 64)
		}
	}
}

func TestIngestDirectory_RequiresRoot(t *testing.T) {
	_, _, err := NewIngestor(nil, false).IngestDirectory(context.Background(), " ", nil)
	assert.Error(t, err)
}

func TestIngestPath_FailedContentCanBeRetried(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cv.txt")
	write(t, p, "retry me")
	ing := NewIngestor(nil, false)

	_, err := ing.IngestPath(context.Background(), p, func(context.Context, string) error { return errors.New("busy") })
	require.Error(t, err)

	r, err := ing.IngestPath(context.Background(), p, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.False(t, r.Deduplicated)
}

func TestAllowedExtAndHidden(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("docx"))
	assert.False(t, AllowedExt(".exe"))
	assert.False(t, AllowedExt(""))
	assert.True(t, IsHidden("/a/.git"))
	assert.False(t, IsHidden("/a/cv.pdf"))
}

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "existing.pdf"), "%PDF")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "existing.pdf"), next(t, events))

	write(t, filepath.Join(root, "ignored.exe"), "x")
	write(t, filepath.Join(root, "new.txt"), "Jane Doe")
	assert.Equal(t, filepath.Join(root, "new.txt"), next(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
