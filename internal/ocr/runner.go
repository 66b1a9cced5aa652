package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

// Runner executes one external tool and returns its stdout. A failing tool
// yields a *CommandError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandError is a failed poppler, tesseract or converter invocation.
type CommandError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// poppler and tesseract print the real failure last
const stderrTailBytes = 2 << 10

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &CommandError{Tool: filepath.Base(name), Stderr: stderrTail(stderr.Bytes()), Err: err}
	}
	return stdout.Bytes(), nil
}

func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > stderrTailBytes {
		s = "..." + strings.ToValidUTF8(s[len(s)-stderrTailBytes:], "")
	}
	return s
}

// run executes bin for one OCR stage and logs it against the document the
// context carries.
func (e *Engine) run(ctx context.Context, stage, bin string, args ...string) ([]byte, error) {
	log := e.logger.With("stage", stage, "tool", filepath.Base(bin))
	if id := common.RunIDFromContext(ctx); id != "" {
		log = log.With("run_id", id)
	}
	if src := common.SourceFromContext(ctx); src != "" {
		log = log.With("source", src)
	}

	start := time.Now()
	out, err := e.runner.Run(ctx, bin, args...)
	if err != nil {
		log.Warn("ocr tool failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return out, err
	}
	log.Debug("ocr tool done", "duration_ms", time.Since(start).Milliseconds(), "stdout_bytes", len(out))
	return out, nil
}

// stderrWarnings turns a tool failure into diagnostic warnings.
func stderrWarnings(err error) []string {
	var ce *CommandError
	if errors.As(err, &ce) && ce.Stderr != "" {
		return []string{ce.Stderr}
	}
	return nil
}
