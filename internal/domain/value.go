package domain

import "strconv"

// ValueKind tags which variant a TypedValue holds.
type ValueKind int

const (
	ValueInteger ValueKind = iota
	ValueFloat
	ValueString
	ValueBinary
	ValueNull
)

// TypedValue is a tagged union over the decoded field variants named in
// spec.md §3: Integer (64-bit signed), Float (64-bit), String, Binary
// bytes, or Null. Exactly one of the typed accessors is meaningful,
// selected by Kind.
type TypedValue struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Str  string
	Bin  []byte
}

func NewIntValue(v int64) TypedValue      { return TypedValue{Kind: ValueInteger, Int: v} }
func NewFloatValue(v float64) TypedValue  { return TypedValue{Kind: ValueFloat, Flt: v} }
func NewStringValue(v string) TypedValue  { return TypedValue{Kind: ValueString, Str: v} }
func NewBinaryValue(v []byte) TypedValue  { return TypedValue{Kind: ValueBinary, Bin: v} }
func NewNullValue() TypedValue            { return TypedValue{Kind: ValueNull} }

// IsNull reports whether the value is the Null variant.
func (v TypedValue) IsNull() bool { return v.Kind == ValueNull }

// Render stringifies the value using the canonical rendering QueryEngine's
// select filter matching relies on: integers and floats in canonical
// decimal, strings as-is, binary as lowercase hex, null never matching a
// non-empty filter.
func (v TypedValue) Render() (string, bool) {
	switch v.Kind {
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10), true
	case ValueFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64), true
	case ValueString:
		return v.Str, true
	case ValueBinary:
		const hexDigits = "0123456789abcdef"
		out := make([]byte, len(v.Bin)*2)
		for i, b := range v.Bin {
			out[i*2] = hexDigits[b>>4]
			out[i*2+1] = hexDigits[b&0x0f]
		}
		return string(out), true
	default:
		return "", false
	}
}

// TypedRecord is the decoded output of a RecordFrame against a TableSchema:
// the record's index, a name→TypedValue map with exactly one entry per
// schema field in schema order, and a name→text map holding only the
// Memo-typed fields that resolved successfully.
type TypedRecord struct {
	Index     uint32
	Deleted   bool
	FieldOrder []string
	Fields    map[string]TypedValue
	Memos     map[string]string
}

// Get returns a field's value by name.
func (r *TypedRecord) Get(name string) (TypedValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}
