package ner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jdkato/prose/v2"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

const labelPerson = "PERSON"

// Recognizer finds person-name mentions in text, in document order and with repeats.
type Recognizer interface {
	People(ctx context.Context, text string) ([]string, error)
}

// Engine is a prose-backed Recognizer. The tagging model is loaded once by
// Init and shared read-only by every caller until Shutdown.
type Engine struct {
	logger *slog.Logger

	mu     sync.RWMutex
	model  *prose.Model
	closed bool
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Init loads the model by tagging a small warm-up document and keeps it for
// every later People call.
func (e *Engine) Init(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("ner engine: %w", common.ErrNotInitialized)
	}
	if e.model != nil {
		return nil
	}
	start := time.Now()
	doc, err := prose.NewDocument("Jane Smith joined Acme in London.", prose.WithSegmentation(false))
	if err != nil {
		return fmt.Errorf("ner warm-up: %w", err)
	}
	e.model = doc.Model
	e.logger.Debug("ner engine initialised", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Shutdown releases the engine; later calls fail with ErrNotInitialized.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = nil
	e.closed = true
}

func (e *Engine) People(ctx context.Context, text string) ([]string, error) {
	e.mu.RLock()
	model := e.model
	e.mu.RUnlock()
	if model == nil {
		return nil, fmt.Errorf("ner engine: %w", common.ErrNotInitialized)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(model))
	if err != nil {
		return nil, fmt.Errorf("ner tag: %w", err)
	}
	var people []string
	for _, ent := range doc.Entities() {
		if ent.Label != labelPerson {
			continue
		}
		if name := strings.TrimSpace(ent.Text); name != "" {
			people = append(people, name)
		}
	}
	return people, nil
}
