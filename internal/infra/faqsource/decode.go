// Package faqsource loads FAQ entries from files, object storage and Postgres.
package faqsource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

// Format identifies the encoding of a corpus document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var errQuestionShape = errors.New("question must be a string or a list of strings")

// FormatFromPath picks the format from a file or object name. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// questionField accepts either a single question or a list of paraphrases.
type questionField []string

func (q *questionField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*q = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*q = questionField{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return errQuestionShape
	}
	*q = list
	return nil
}

func (q *questionField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*q = nil
			return nil
		}
		var single string
		if err := node.Decode(&single); err != nil {
			return errQuestionShape
		}
		*q = questionField{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return errQuestionShape
		}
		*q = list
		return nil
	default:
		return errQuestionShape
	}
}

// rawEntry mirrors one record of the FAQ document.
type rawEntry struct {
	Question questionField `json:"question" yaml:"question"`
	Answer   string        `json:"answer" yaml:"answer"`
}

func (r rawEntry) entry() faq.Entry {
	return faq.Entry{Questions: append([]string(nil), r.Question...), Answer: r.Answer}
}

// Decode parses a FAQ document: a list of {question, answer} records where
// question is a string or a list of strings. Problems are reported as
// *faq.LoadError carrying the index of the offending record.
func Decode(data []byte, format Format) ([]faq.Entry, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON, "":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", format)
	}
}

func decodeJSON(data []byte) ([]faq.Entry, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &faq.LoadError{Entry: -1, Reason: "corpus must be a JSON list: " + err.Error(), Err: faq.ErrMalformedEntry}
	}
	entries := make([]faq.Entry, 0, len(records))
	for i, record := range records {
		var raw rawEntry
		if err := json.Unmarshal(record, &raw); err != nil {
			return nil, faq.MalformedEntry(i, errReason(err))
		}
		entries = append(entries, raw.entry())
	}
	return entries, nil
}

func decodeYAML(data []byte) ([]faq.Entry, error) {
	var records []yaml.Node
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, &faq.LoadError{Entry: -1, Reason: "corpus must be a YAML list: " + err.Error(), Err: faq.ErrMalformedEntry}
	}
	entries := make([]faq.Entry, 0, len(records))
	for i := range records {
		var raw rawEntry
		if err := records[i].Decode(&raw); err != nil {
			return nil, faq.MalformedEntry(i, errReason(err))
		}
		entries = append(entries, raw.entry())
	}
	return entries, nil
}

func errReason(err error) string {
	if errors.Is(err, errQuestionShape) {
		return errQuestionShape.Error()
	}
	return err.Error()
}
