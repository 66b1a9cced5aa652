package loader

import (
	"os"
	"path/filepath"
	"sync"
)

// Source hands a document to strategies either as bytes or, for external
// tools, as a temporary file created on first use.
type Source struct {
	Name string
	Data []byte

	once sync.Once
	dir  string
	path string
	err  error
}

func newSource(doc RawDocument) *Source {
	return &Source{Name: doc.Name, Data: doc.Data}
}

// Path spills the document to a temp file and returns its path.
func (s *Source) Path() (string, error) {
	s.once.Do(func() {
		s.dir, s.err = os.MkdirTemp("", "cvx-src-*")
		if s.err != nil {
			return
		}
		name := filepath.Base(s.Name)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "document"
		}
		s.path = filepath.Join(s.dir, name)
		s.err = os.WriteFile(s.path, s.Data, 0o600)
	})
	return s.path, s.err
}

func (s *Source) cleanup() {
	if s.dir != "" {
		_ = os.RemoveAll(s.dir)
	}
}
