// Package decoder implements RecordDecoder: turning a RecordFrame plus a
// TableSchema into a TypedRecord (spec.md §4.6).
package decoder

import (
	"encoding/binary"
	"log"
	"math"

	"ficengine/internal/domain"
	"ficengine/internal/platform/encoding"
)

// MemoReader resolves a memo pointer to its decoded text, as implemented
// by internal/platform/memofile.Reader.
type MemoReader interface {
	ReadText(offset uint32) (text string, ok bool, err error)
}

// Decoder decodes record frames against a schema.
type Decoder struct {
	policy encoding.Policy
}

// New returns a Decoder using spec.md §4.2's default windows-1252-then-utf-8
// policy.
func New() *Decoder { return &Decoder{policy: encoding.DefaultPolicy} }

// NewWithPolicy returns a Decoder using policy for String and Memo fields,
// letting the catalog's configured string_encoding_primary/fallback
// (spec.md §6) take effect.
func NewWithPolicy(policy encoding.Policy) *Decoder { return &Decoder{policy: policy} }

// Policy returns d's text decode policy, so callers that build a matching
// MemoReader (internal/platform/memofile.OpenWithPolicy) use the same
// codec pair for memo text as d uses for String fields.
func (d *Decoder) Policy() encoding.Policy { return d.policy }

// Decode turns frame into a TypedRecord using schema's field layout. memo
// may be nil, in which case Memo fields are left Null with no memo-map
// entry, matching the "memo reader unavailable" failure path in spec.md
// §4.2/§4.6.
//
// A field whose declared offset+length reaches past the end of frame's
// actual payload fails the whole record with a Truncated error instead of
// silently substituting an empty value: the schema was validated against
// the table's record length at inspection time, so a payload that no
// longer has those bytes means the data file was externally truncated or
// rewritten with shorter records since (spec.md §4.1's "tolerated but
// reported" truncation). This is the one non-memo way a single record's
// decode can fail; callers following the skip-and-continue policy (spec.md
// §7) attach the error to that record's index and keep going.
func (d *Decoder) Decode(frame domain.RecordFrame, schema *domain.TableSchema, memo MemoReader) (domain.TypedRecord, error) {
	record := domain.TypedRecord{
		Index:      frame.Index,
		Deleted:    frame.Deleted,
		FieldOrder: make([]string, 0, len(schema.Fields)),
		Fields:     make(map[string]domain.TypedValue, len(schema.Fields)),
		Memos:      make(map[string]string),
	}

	for _, field := range schema.Fields {
		record.FieldOrder = append(record.FieldOrder, field.Name)

		end := field.Offset + field.Length
		if field.Offset < 0 || end > len(frame.Payload) {
			return domain.TypedRecord{}, domain.Truncatedf(
				"record %d: field %q needs bytes [%d:%d), payload has %d",
				frame.Index, field.Name, field.Offset, end, len(frame.Payload))
		}
		raw := frame.Payload[field.Offset:end]

		switch field.Type {
		case domain.Integer:
			v, ok := decodeInteger(raw)
			if !ok {
				record.Fields[field.Name] = domain.NewBinaryValue(append([]byte(nil), raw...))
				continue
			}
			record.Fields[field.Name] = domain.NewIntValue(v)

		case domain.Float:
			v, ok := decodeFloat(raw)
			if !ok {
				record.Fields[field.Name] = domain.NewBinaryValue(append([]byte(nil), raw...))
				continue
			}
			record.Fields[field.Name] = domain.NewFloatValue(v)

		case domain.String:
			record.Fields[field.Name] = domain.NewStringValue(d.decodeString(raw))

		case domain.Memo:
			record.Fields[field.Name] = domain.NewNullValue()
			if len(raw) < 4 || memo == nil {
				continue
			}
			pointer := binary.LittleEndian.Uint32(raw[:4])
			if pointer == 0 {
				continue
			}
			text, ok, err := memo.ReadText(pointer)
			if err != nil {
				log.Printf("warn: record %d: memo field %q at pointer %d omitted: %v", frame.Index, field.Name, pointer, err)
				continue
			}
			if !ok {
				continue
			}
			record.Memos[field.Name] = text

		case domain.Binary, domain.Date, domain.Unknown:
			record.Fields[field.Name] = domain.NewBinaryValue(append([]byte(nil), raw...))

		default:
			record.Fields[field.Name] = domain.NewBinaryValue(append([]byte(nil), raw...))
		}
	}

	return record, nil
}

// decodeInteger reads raw as a little-endian signed integer of width 1, 2,
// 4, or 8 bytes. Other widths are reported as unsupported.
func decodeInteger(raw []byte) (int64, bool) {
	switch len(raw) {
	case 1:
		return int64(int8(raw[0])), true
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(raw))), true
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(raw))), true
	case 8:
		return int64(binary.LittleEndian.Uint64(raw)), true
	default:
		return 0, false
	}
}

// decodeFloat reads raw as IEEE 754 binary32 (length 4) or binary64
// (length 8). Other widths are reported as unsupported.
func decodeFloat(raw []byte) (float64, bool) {
	switch len(raw) {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), true
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), true
	default:
		return 0, false
	}
}

// decodeString finds the first zero byte within raw (using the full slice
// if none is found) and decodes it with d's text policy. Trailing and
// leading whitespace are preserved.
func (d *Decoder) decodeString(raw []byte) string {
	n := len(raw)
	for i, b := range raw {
		if b == 0 {
			n = i
			break
		}
	}
	text, ok := d.policy.DecodeText(raw[:n])
	if !ok {
		return string(raw[:n])
	}
	return text
}
