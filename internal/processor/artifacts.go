package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
)

// LatestArtifact always holds the most recent result in a directory.
const LatestArtifact = "CV.json"

// WriteArtifacts writes <stem>_CV.json and CV.json into dir and returns the
// per-document path.
func WriteArtifacts(dir, stem string, res *entity.Result) (string, error) {
	b, err := EncodeResult(res)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, stem+"_CV.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	latest := filepath.Join(dir, LatestArtifact)
	if err := os.WriteFile(latest, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", latest, err)
	}
	return path, nil
}

// EncodeResult renders indented JSON with non-ASCII and HTML characters kept as-is.
func EncodeResult(res *entity.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}
