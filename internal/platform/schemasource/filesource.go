// Package schemasource implements the two SchemaSource backends named in
// spec.md §6's schema_source option: a local JSON document (FileSource) and
// an HTTP(S) schema registry (RemoteSource).
package schemasource

import (
	"encoding/json"
	"os"

	"ficengine/internal/domain"
)

// FileSource loads table schemas from a single JSON document mapping table
// name to a list of field descriptors:
//
//	{"CLIENT": [{"name": "id", "type": "integer", "offset": 0, "length": 4}]}
//
// The document is read fresh on every Load call, consistent with this
// engine's no-held-handles discipline.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements domain.SchemaSource.
func (s *FileSource) Load(table string) ([]domain.FieldDescriptor, bool, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, domain.IO(s.Path, 0, 0, err)
	}

	var doc map[string][]domain.FieldDescriptor
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, domain.InvalidFormatf("schema file %s: %v", s.Path, err)
	}

	fields, ok := doc[table]
	return fields, ok, nil
}
