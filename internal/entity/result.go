package entity

// Result is the artifact written for each processed document.
type Result struct {
	SourceFile    string           `json:"source_file"`
	ExtractedWith string           `json:"extracted_with"`
	Fields        CandidateProfile `json:"fields"`
	Diagnostics   *Diagnostics     `json:"diagnostics,omitempty"`
}

// Diagnostics records how the text was obtained. It never changes the profile.
type Diagnostics struct {
	Format     string            `json:"format,omitempty"`
	Method     string            `json:"method"`
	Pages      int               `json:"pages,omitempty"`
	Bytes      int               `json:"bytes"`
	Tried      []string          `json:"tried,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Success    string            `json:"success,omitempty"`
	Confidence float32           `json:"confidence,omitempty"`
	Notes      []string          `json:"notes,omitempty"`
	Cached     bool              `json:"cached,omitempty"`
}

// Diagnostic notes.
const (
	NoteEmptyStream   = "empty_stream"
	NoteTextLayer     = "selectable_text"
	NoteOCRFallback   = "ocr_fallback"
	NoteDOCXMalformed = "docx_unreadable"
)

// AddNote appends a note once.
func (d *Diagnostics) AddNote(note string) {
	for _, n := range d.Notes {
		if n == note {
			return
		}
	}
	d.Notes = append(d.Notes, note)
}

// RecordError remembers why a strategy failed.
func (d *Diagnostics) RecordError(strategy string, err error) {
	if err == nil {
		return
	}
	if d.Errors == nil {
		d.Errors = map[string]string{}
	}
	d.Errors[strategy] = err.Error()
}
