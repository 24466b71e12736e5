// Package loader reads registration documents from JSON or YAML files.
//
// A file holds one document object or a list of them. YAML files may carry
// several documents separated by "---". Dates use the yyyy-MM-dd form and
// tax identifiers must be quoted so they stay strings.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DanielPopoola/crpt-document-client/internal/domain"
	"gopkg.in/yaml.v3"
)

// Entry is one document read from a file.
type Entry struct {
	Source   string
	Index    int
	Document *domain.Document
}

func (e Entry) String() string {
	return fmt.Sprintf("%s[%d]", e.Source, e.Index)
}

// LoadFiles reads every path in order and returns their documents.
func LoadFiles(paths []string) ([]Entry, error) {
	var entries []Entry
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return entries, nil
}

// Decode reads all documents from r. source labels the returned entries.
func Decode(r io.Reader, source string) ([]Entry, error) {
	dec := yaml.NewDecoder(r)

	var entries []Entry
	for {
		var raw any
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := raw.(type) {
		case nil:
			continue
		case []any:
			for _, item := range v {
				doc, err := toDocument(item)
				if err != nil {
					return nil, fmt.Errorf("document %d: %w", len(entries), err)
				}
				entries = append(entries, Entry{Source: source, Index: len(entries), Document: doc})
			}
		case map[string]any:
			doc, err := toDocument(v)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", len(entries), err)
			}
			entries = append(entries, Entry{Source: source, Index: len(entries), Document: doc})
		default:
			return nil, fmt.Errorf("expected a document or a list of documents, got %T", raw)
		}
	}
	return entries, nil
}

// toDocument goes through JSON so that the document's own field tags and
// date decoding apply.
func toDocument(raw any) (*domain.Document, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf("expected an object, got %T", raw)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
