// Package crpt talks to the CRPT document-registration API.
package crpt

import (
	"bytes"
	"encoding/json"

	"github.com/DanielPopoola/crpt-document-client/internal/domain"
)

// JSONSerializer produces the wire form of a document: UTF-8 JSON, dates as
// yyyy-MM-dd, no HTML escaping, no trailing newline. Field contents are sent
// as given; only a document that cannot be encoded is rejected.
type JSONSerializer struct{}

func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Serialize(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		return nil, domain.NewMissingDocumentError()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, domain.NewInvalidDocumentError(err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
