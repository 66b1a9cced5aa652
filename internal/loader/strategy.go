package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
)

// Extraction is what a strategy recovered from a document.
type Extraction struct {
	Text       string
	Pages      int
	Confidence float32
}

// Strategy is one way of getting text out of a document. An empty Text with a
// nil error means "nothing here, try the next one".
type Strategy interface {
	Name() string
	TryExtract(ctx context.Context, src *Source) (Extraction, error)
}

// RunChain tries strategies in order and returns the first non-empty
// extraction with the name of the strategy that produced it. Failures are
// recorded on diag and the chain moves on, except OCR failures which abort.
func RunChain(ctx context.Context, chain []Strategy, src *Source, diag *entity.Diagnostics) (Extraction, string, error) {
	var last Extraction
	for _, s := range chain {
		if err := ctx.Err(); err != nil {
			return Extraction{}, "", err
		}
		diag.Tried = append(diag.Tried, s.Name())
		ex, err := safeExtract(ctx, s, src)
		if err != nil {
			if errors.Is(err, common.ErrOCRFailed) {
				diag.RecordError(s.Name(), err)
				return Extraction{}, "", err
			}
			diag.RecordError(s.Name(), err)
			continue
		}
		if ex.Pages > last.Pages {
			last.Pages = ex.Pages
		}
		if strings.TrimSpace(ex.Text) != "" {
			diag.Success = s.Name()
			return ex, s.Name(), nil
		}
	}
	return last, "", nil
}

// safeExtract turns a panicking third-party reader into an ordinary error.
func safeExtract(ctx context.Context, s Strategy, src *Source) (ex Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, err = Extraction{}, fmt.Errorf("%s panicked: %v", s.Name(), r)
		}
	}()
	return s.TryExtract(ctx, src)
}
