package decoder

import (
	"encoding/binary"
	"testing"

	"ficengine/internal/domain"
	"ficengine/internal/platform/encoding"
)

type stubMemo struct {
	texts map[uint32]string
}

func (m stubMemo) ReadText(offset uint32) (string, bool, error) {
	t, ok := m.texts[offset]
	return t, ok, nil
}

func schemaWith(fields ...domain.FieldDescriptor) *domain.TableSchema {
	return &domain.TableSchema{Fields: fields}
}

func TestDecodeIntegerWidths(t *testing.T) {
	payload := make([]byte, 8)
	n := int64(-7)
	binary.LittleEndian.PutUint64(payload, uint64(n))
	schema := schemaWith(domain.FieldDescriptor{Name: "n", Type: domain.Integer, Offset: 0, Length: 8})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := rec.Get("n")
	if !ok || v.Kind != domain.ValueInteger || v.Int != -7 {
		t.Fatalf("got %+v", v)
	}
}

func TestDecodeIntegerUnsupportedWidthFallsBackToBinary(t *testing.T) {
	payload := []byte{1, 2, 3} // width 3 is not one of 1/2/4/8
	schema := schemaWith(domain.FieldDescriptor{Name: "n", Type: domain.Integer, Offset: 0, Length: 3})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("n")
	if v.Kind != domain.ValueBinary {
		t.Fatalf("got kind %v, want Binary", v.Kind)
	}
}

func TestDecodeFloatWidths(t *testing.T) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, 0x3F800000) // 1.0f
	schema := schemaWith(domain.FieldDescriptor{Name: "f", Type: domain.Float, Offset: 0, Length: 4})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("f")
	if v.Kind != domain.ValueFloat || v.Flt != 1.0 {
		t.Fatalf("got %+v", v)
	}
}

func TestDecodeStringStopsAtFirstZeroByte(t *testing.T) {
	payload := append([]byte("DUPONT"), 0, 0, 0, 0)
	schema := schemaWith(domain.FieldDescriptor{Name: "name", Type: domain.String, Offset: 0, Length: len(payload)})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("name")
	if v.Str != "DUPONT" {
		t.Fatalf("got %q, want DUPONT", v.Str)
	}
}

func TestDecodeStringEmptyIsEmptyNotNull(t *testing.T) {
	payload := []byte{0, 0, 0}
	schema := schemaWith(domain.FieldDescriptor{Name: "name", Type: domain.String, Offset: 0, Length: 3})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("name")
	if v.Kind != domain.ValueString || v.Str != "" {
		t.Fatalf("got %+v, want empty String not Null", v)
	}
}

func TestDecodeMemoResolvesThroughReader(t *testing.T) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, 1024)
	schema := schemaWith(domain.FieldDescriptor{Name: "notes", Type: domain.Memo, Offset: 0, Length: 4})

	memo := stubMemo{texts: map[uint32]string{1024: "Client VIP"}}
	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, memo)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("notes")
	if !v.IsNull() {
		t.Fatalf("memo field in fields map must be Null, got %+v", v)
	}
	if rec.Memos["notes"] != "Client VIP" {
		t.Fatalf("memo map = %v, want notes=Client VIP", rec.Memos)
	}
}

func TestDecodeMemoZeroPointerMeansNoMemo(t *testing.T) {
	payload := make([]byte, 4)
	schema := schemaWith(domain.FieldDescriptor{Name: "notes", Type: domain.Memo, Offset: 0, Length: 4})

	memo := stubMemo{texts: map[uint32]string{}}
	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, memo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Memos["notes"]; ok {
		t.Fatal("zero pointer must not produce a memo-map entry")
	}
}

func TestDecodeMemoFailureOmitsFromMemoMap(t *testing.T) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, 999)
	schema := schemaWith(domain.FieldDescriptor{Name: "notes", Type: domain.Memo, Offset: 0, Length: 4})

	memo := stubMemo{texts: map[uint32]string{}} // 999 not present -> ok=false
	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, memo)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Memos["notes"]; ok {
		t.Fatal("failed memo resolution must not produce a memo-map entry")
	}
}

func TestDecodeBinaryCopiesVerbatim(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	schema := schemaWith(domain.FieldDescriptor{Name: "raw", Type: domain.Binary, Offset: 0, Length: 4})

	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("raw")
	if v.Kind != domain.ValueBinary || string(v.Bin) != string(payload) {
		t.Fatalf("got %+v", v)
	}
}

func TestNewWithPolicyUsesConfiguredCodecForStrings(t *testing.T) {
	// 0xC3 0xA9 decodes cleanly under windows-1252 as "Ã©", so the default
	// policy never reaches its UTF-8 fallback. A policy whose primary IS
	// utf-8 must decode the same two bytes as "é" instead.
	policy, err := encoding.NewPolicy(encoding.UTF8, encoding.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte{0xC3, 0xA9}
	schema := schemaWith(domain.FieldDescriptor{Name: "s", Type: domain.String, Offset: 0, Length: 2})

	rec, err := NewWithPolicy(policy).Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := rec.Get("s")
	if want := "é"; v.Str != want {
		t.Fatalf("got %q, want %q", v.Str, want)
	}
}

func TestDecodeFieldBeyondPayloadIsTruncated(t *testing.T) {
	// payload is 4 bytes, but the schema (as it would be after the data
	// file's records shrank without a catalog rescan) declares a field
	// needing 8.
	payload := []byte{1, 2, 3, 4}
	schema := schemaWith(domain.FieldDescriptor{Name: "n", Type: domain.Integer, Offset: 0, Length: 8})

	_, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err == nil {
		t.Fatal("expected a Truncated error, got nil")
	}
	if kind, ok := domain.KindOf(err); !ok || kind != domain.KindTruncated {
		t.Fatalf("got kind %v (ok=%v), want Truncated", kind, ok)
	}
}

func TestDecodeProducesExactlyOneEntryPerField(t *testing.T) {
	payload := make([]byte, 9)
	schema := schemaWith(
		domain.FieldDescriptor{Name: "a", Type: domain.Integer, Offset: 0, Length: 4},
		domain.FieldDescriptor{Name: "b", Type: domain.Integer, Offset: 4, Length: 1},
		domain.FieldDescriptor{Name: "c", Type: domain.Binary, Offset: 5, Length: 4},
	)
	rec, err := New().Decode(domain.RecordFrame{Payload: payload}, schema, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Fields) != 3 || len(rec.FieldOrder) != 3 {
		t.Fatalf("got %d fields / %d ordered names, want 3 each", len(rec.Fields), len(rec.FieldOrder))
	}
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if rec.FieldOrder[i] != name {
			t.Fatalf("FieldOrder = %v, want %v", rec.FieldOrder, want)
		}
	}
}
