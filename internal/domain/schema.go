package domain

// TableSchema is the ordered list of fields that describes how to decode a
// data file's record payloads. Schemas are immutable once built and are
// shared read-only by the catalog — there is no back-reference from a
// schema to the catalog that produced it.
type TableSchema struct {
	Fields          []FieldDescriptor
	RecordLength    int
	RecordCountFile uint32 // record_count as declared by the data-file header, not active-minus-deleted
}

// FieldCount returns the number of fields in the schema.
func (s *TableSchema) FieldCount() int { return len(s.Fields) }

// Field looks up a field by name, in schema order.
func (s *TableSchema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// PayloadLength returns the record length available to field offsets: the
// on-disk record length minus the 1-byte deletion flag (spec.md §3).
func (s *TableSchema) PayloadLength() int {
	if s.RecordLength <= 0 {
		return 0
	}
	return s.RecordLength - 1
}

// Validate checks the structural invariants from spec.md §4.4: offsets
// strictly increasing by the field's declared length with no overlaps, and
// total covered length not exceeding the payload length (the record length
// minus the 1-byte deletion flag that field offsets are never relative to).
func (s *TableSchema) Validate() error {
	next := 0
	for i, f := range s.Fields {
		if f.Length <= 0 {
			return SchemaInvalidf("field %q (#%d) has non-positive length %d", f.Name, i, f.Length)
		}
		if f.Offset < next {
			return SchemaInvalidf("field %q (#%d) overlaps previous field: offset %d < %d", f.Name, i, f.Offset, next)
		}
		next = f.End()
	}
	if payload := s.PayloadLength(); next > payload {
		return SchemaInvalidf("fields cover %d bytes, exceeding payload length %d", next, payload)
	}
	return nil
}
