package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path         string
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Handler processes one discovered document.
type Handler func(ctx context.Context, path string) error

// Ingestor feeds supported files to a Handler, skipping content it has
// already seen during its lifetime.
type Ingestor struct {
	logger     *slog.Logger
	skipHidden bool

	mu   sync.Mutex
	seen map[string]string // hash -> first path
}

func NewIngestor(logger *slog.Logger, skipHidden bool) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{logger: logger, skipHidden: skipHidden, seen: map[string]string{}}
}

// IngestPath hashes one file and hands it to h unless its content was
// already ingested.
func (i *Ingestor) IngestPath(ctx context.Context, path string, h Handler) (FileResult, error) {
	out := FileResult{Path: path}
	if !AllowedExt(filepath.Ext(path)) {
		return out, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(path))
	}
	sum, err := HashFile(path)
	if err != nil {
		i.logger.Error("hash error", "path", path, "error", err)
		return out, err
	}
	out.HashHex = sum

	i.mu.Lock()
	first, dup := i.seen[sum]
	if !dup {
		i.seen[sum] = path
	}
	i.mu.Unlock()
	if dup {
		i.logger.Info("skipping duplicate content", "path", path, "first", first)
		out.Deduplicated = true
		return out, nil
	}

	if err := h(ctx, path); err != nil {
		// let a later retry of the same content through
		i.mu.Lock()
		delete(i.seen, sum)
		i.mu.Unlock()
		return out, err
	}
	return out, nil
}

// IngestDirectory walks root and calls IngestPath for each supported file.
// Per-file failures are collected, not returned.
func (i *Ingestor) IngestDirectory(ctx context.Context, root string, h Handler) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if i.skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path, h)
		if err != nil {
			r.Err = err.Error()
			results = append(results, r)
			stats.Failed++
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("directory ingested", "root", root,
		"scanned", stats.Scanned, "matched", stats.Matched, "succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}

// HashFile returns the hex SHA-256 of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
