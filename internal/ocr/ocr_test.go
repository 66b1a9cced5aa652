package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

type call struct {
	name string
	args []string
}

// fakeRunner renders pages for pdftoppm and echoes the image name for tesseract.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []call
	pages     int
	failOn    string
	tsvOutput string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()

	if name == f.failOn {
		return nil, &CommandError{Tool: name, Stderr: "boom", Err: errors.New("exit status 1")}
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), nil, 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case "tesseract":
		if args[len(args)-1] == "tsv" {
			return []byte(f.tsvOutput), nil
		}
		return []byte("text of " + filepath.Base(args[0]) + "\n-----\n"), nil
	case "pdftotext":
		return []byte("Page one\fPage two\f"), nil
	}
	return nil, nil
}

func (f *fakeRunner) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, r Runner, cfg Config) *Engine {
	t.Helper()
	cfg.ArtifactCacheDir = t.TempDir()
	e := NewEngine(cfg, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), WithRunner(r))
	require.NoError(t, e.Init(context.Background()))
	t.Cleanup(e.Shutdown)
	return e
}

func TestRecognizePDF_JoinsPagesInOrder(t *testing.T) {
	r := &fakeRunner{pages: 11}
	e := newTestEngine(t, r, Config{})

	res, err := e.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, 11, res.Pages)
	assert.Equal(t, constants.MethodPDFOCR, res.Method)
	parts := strings.Split(res.Text, "\n\n")
	require.Len(t, parts, 11)
	assert.Equal(t, "text of page-1.png", parts[0])
	assert.Equal(t, "text of page-10.png", parts[9])
	assert.Equal(t, 11, r.count("tesseract"))

	require.NotEmpty(t, r.calls)
	assert.Equal(t, "pdftoppm", r.calls[0].name)
	assert.Equal(t, []string{"-r", "300", "-png"}, r.calls[0].args[:3])
}

func TestRecognizePDF_MaxPages(t *testing.T) {
	r := &fakeRunner{pages: 5}
	e := newTestEngine(t, r, Config{MaxPages: 2})

	res, err := e.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, res.Warnings, 1)
}

func TestRecognizePDF_FailuresAreFatal(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{"rasterisation", "pdftoppm"},
		{"recognition", "tesseract"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &fakeRunner{pages: 1, failOn: tt.failOn}, Config{})
			_, err := e.RecognizePDF(context.Background(), "/tmp/scan.pdf")
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrOCRFailed))
		})
	}
}

func TestToolFailureReportsStderr(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := NewEngine(Config{}, logger, WithRunner(&fakeRunner{pages: 1, failOn: "pdftoppm"}))
	require.NoError(t, e.Init(context.Background()))
	t.Cleanup(e.Shutdown)

	ctx := common.WithRunID(common.WithSource(context.Background(), "/in/jane.pdf"), "run-7")
	res, err := e.RecognizePDF(ctx, "/tmp/scan.pdf")
	require.Error(t, err)

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "pdftoppm", ce.Tool)
	assert.Equal(t, []string{"boom"}, res.Warnings)

	out := logs.String()
	assert.Contains(t, out, "stage=rasterise")
	assert.Contains(t, out, "run_id=run-7")
	assert.Contains(t, out, "source=/in/jane.pdf")
}

func TestStderrTail(t *testing.T) {
	assert.Equal(t, "bad page", stderrTail([]byte("  bad page\n")))
	long := stderrTail([]byte(strings.Repeat("a", 4<<10) + "fatal"))
	assert.True(t, strings.HasSuffix(long, "fatal"))
	assert.True(t, strings.HasPrefix(long, "..."))
	assert.Len(t, long, stderrTailBytes+3)
}

func TestRecognizePDF_NoPagesRendered(t *testing.T) {
	e := newTestEngine(t, &fakeRunner{pages: 0}, Config{})
	_, err := e.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	assert.ErrorIs(t, err, common.ErrOCRFailed)
}

func TestRecognizeImage(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tJane\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\tDoe\n"
	r := &fakeRunner{tsvOutput: tsv}
	e := newTestEngine(t, r, Config{EnableTSVConfidence: true, TessdataDir: "/data/tess"})

	res, err := e.RecognizeImage(context.Background(), "/tmp/cv.png")
	require.NoError(t, err)
	assert.Equal(t, "text of cv.png", res.Text)
	assert.Equal(t, constants.MethodImageOCR, res.Method)
	assert.Greater(t, res.Confidence, float32(0.5))
	assert.Contains(t, r.calls[0].args, "--tessdata-dir")
}

func TestEngineLifecycle(t *testing.T) {
	e := NewEngine(Config{}, nil, WithRunner(&fakeRunner{}))
	_, err := e.RecognizeImage(context.Background(), "/tmp/cv.png")
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	require.NoError(t, e.Init(context.Background()))
	require.NoError(t, e.Init(context.Background()))
	e.Shutdown()

	_, err = e.PDFText(context.Background(), "/tmp/cv.pdf")
	assert.ErrorIs(t, err, common.ErrNotInitialized)
	assert.ErrorIs(t, e.Init(context.Background()), common.ErrNotInitialized)
}

func TestPDFText_CountsPages(t *testing.T) {
	e := newTestEngine(t, &fakeRunner{}, Config{})
	res, err := e.PDFText(context.Background(), "/tmp/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Page one\nPage two\n", res.Text)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf and tabs", "Jane\tDoe\r\nEngineer  at  Acme\r", "Jane Doe\nEngineer at Acme"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"box noise", "Skills\n______\nGo", "Skills\n\nGo"},
		{"keeps leading zeros", "01/2019 - 03/2022", "01/2019 - 03/2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestMeanTSVConfidence(t *testing.T) {
	assert.Equal(t, float32(0), meanTSVConfidence("header only\n"))
	tsv := "h\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t80\tword\n"
	assert.InDelta(t, 0.8, meanTSVConfidence(tsv), 0.0001)
}

func TestHEICConversionIsCached(t *testing.T) {
	cacheDir := t.TempDir()
	r := runnerFunc(func(name string, args []string) error {
		return os.WriteFile(args[len(args)-1], []byte("png"), 0o644)
	})
	cfg := Config{HeicConverter: "magick", ArtifactCacheDir: cacheDir}

	out, _, cleanup, err := NewEngine(cfg, nil, WithRunner(r)).heicToPNG(context.Background(), "/tmp/in.heic", "abc")
	require.NoError(t, err)
	assert.Nil(t, cleanup)
	assert.Equal(t, filepath.Join(cacheDir, "abc.png"), out)

	failing := runnerFunc(func(string, []string) error { return errors.New("should not run") })
	again, _, _, err := NewEngine(cfg, nil, WithRunner(failing)).heicToPNG(context.Background(), "/tmp/in.heic", "abc")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, _, cleanup, err = NewEngine(Config{HeicConverter: "unknown"}, nil, WithRunner(r)).heicToPNG(context.Background(), "/tmp/in.heic", "")
	assert.Error(t, err)
	if cleanup != nil {
		cleanup()
	}
}

type runnerFunc func(name string, args []string) error

func (f runnerFunc) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	return nil, f(name, args)
}
