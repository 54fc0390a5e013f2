package faqsource

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

// FileSource reads the FAQ document from local disk on every Load.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource constructs a source for path; the format follows the extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, format: FormatFromPath(path)}
}

// Load implements faq.Source.
func (s *FileSource) Load(_ context.Context) ([]faq.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}
	return Decode(data, s.format)
}

// Describe implements faq.Source.
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// Path returns the watched file path.
func (s *FileSource) Path() string {
	return s.path
}

var _ faq.Source = (*FileSource)(nil)
