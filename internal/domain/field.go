package domain

import "fmt"

// FieldType is the semantic type tag attached to a FieldDescriptor.
type FieldType int

const (
	Integer FieldType = iota
	Float
	String
	Date
	Memo
	Binary
	Unknown
)

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Date:
		return "date"
	case Memo:
		return "memo"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// MarshalJSON renders a FieldType by its lowercase name, so external schema
// sources (spec.md §4.2's "well-known JSON/YAML schema description") read as
// plain strings rather than integer tags.
func (t FieldType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the lowercase names produced by MarshalJSON.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) >= 2 && data[0] == '"' {
		s = string(data[1 : len(data)-1])
	}
	switch s {
	case "integer":
		*t = Integer
	case "float":
		*t = Float
	case "string":
		*t = String
	case "date":
		*t = Date
	case "memo":
		*t = Memo
	case "binary":
		*t = Binary
	case "unknown":
		*t = Unknown
	default:
		return fmt.Errorf("unknown field type %q", s)
	}
	return nil
}

// FieldDescriptor is a single schema element: name, semantic type, and its
// byte range inside a record's payload (the bytes after the deletion flag).
type FieldDescriptor struct {
	Name   string    `json:"name"`
	Type   FieldType `json:"type"`
	Offset int       `json:"offset"`
	Length int       `json:"length"`
}

// End returns the offset one past the field's last byte.
func (f FieldDescriptor) End() int { return f.Offset + f.Length }
