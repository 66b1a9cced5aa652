package export

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cv-extractor/internal/entity"
)

// SheetName is the worksheet holding one row per document.
const SheetName = "Profiles"

// Row is one processed (or failed) document of a batch run.
type Row struct {
	Path     string
	Result   *entity.Result
	Artifact string
	Err      error
}

// Service renders batch results as an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"Source File",
	"Status",
	"Name",
	"Emails",
	"Phones",
	"Skills",
	"Languages",
	"Experience Entries",
	"Latest Role",
	"Method",
	"Artifact",
}

// ProfilesXLSX returns the workbook bytes.
func (s *Service) ProfilesXLSX(rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, r.Path)
		if r.Err != nil || r.Result == nil {
			msg := "failed"
			if r.Err != nil {
				msg = truncate(r.Err.Error(), 140)
			}
			write(2, msg)
			continue
		}
		p := r.Result.Fields
		write(2, "ok")
		write(3, first(p.NameCandidates))
		write(4, strings.Join(p.Emails, ", "))
		write(5, strings.Join(p.Phones, ", "))
		write(6, truncate(strings.Join(p.Sections.Skills, ", "), 200))
		write(7, strings.Join(p.Sections.Languages, ", "))
		write(8, len(p.Sections.Experience))
		write(9, latestRole(p.Sections.Experience))
		if d := r.Result.Diagnostics; d != nil {
			write(10, d.Method)
		}
		write(11, r.Artifact)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 48)
	_ = f.SetColWidth(SheetName, "B", "B", 12)
	_ = f.SetColWidth(SheetName, "C", "C", 24)
	_ = f.SetColWidth(SheetName, "D", "E", 32)
	_ = f.SetColWidth(SheetName, "F", "G", 48)
	_ = f.SetColWidth(SheetName, "I", "I", 28)
	_ = f.SetColWidth(SheetName, "K", "K", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// WriteProfilesXLSX writes the workbook to path.
func (s *Service) WriteProfilesXLSX(path string, rows []Row) error {
	b, err := s.ProfilesXLSX(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func latestRole(exp []entity.ExperienceEntry) string {
	for _, e := range exp {
		if e.Role != nil {
			return *e.Role
		}
	}
	return ""
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
