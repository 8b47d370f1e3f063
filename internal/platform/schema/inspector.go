// Package schema implements SchemaInspector: producing a structural
// schema for a data file, either from an external schema source or the
// documented structural default (spec.md §4.4).
package schema

import "ficengine/internal/domain"

// defaultIDLength, defaultFlagsLength are the default schema's fixed
// leading fields (spec.md §4.4): a 4-byte Integer `id` at offset 0
// followed by a 1-byte Integer `flags` at offset 4.
const (
	defaultIDLength    = 4
	defaultFlagsLength = 1
)

// Inspector produces a TableSchema for a data file, consulting an external
// SchemaSource first and falling back to the structural default when none
// is configured or it has no entry for the table.
type Inspector struct {
	Source domain.SchemaSource
}

// New returns an Inspector. source may be nil, in which case every table
// gets the structural default schema.
func New(source domain.SchemaSource) *Inspector {
	return &Inspector{Source: source}
}

// Inspect builds the schema for a table whose data file declares
// recordLength-byte records and a header record_count of recordCount
// (deleted records included). recordCount is
// carried onto the schema unchanged as RecordCountFile, the value spec.md
// §8 invariant #3 requires select(T, {}).total to equal.
func (i *Inspector) Inspect(table string, recordLength, recordCount uint32) (*domain.TableSchema, error) {
	if i.Source != nil {
		fields, ok, err := i.Source.Load(table)
		if err != nil {
			return nil, err
		}
		if ok {
			schema := &domain.TableSchema{Fields: fields, RecordLength: int(recordLength), RecordCountFile: recordCount}
			if err := schema.Validate(); err != nil {
				return nil, err
			}
			return schema, nil
		}
	}
	return defaultSchema(recordLength, recordCount), nil
}

// defaultSchema builds the minimal, non-inferred schema documented in
// spec.md §4.4: id (Integer, offset 0, length 4), flags (Integer, offset
// 4, length 1), and — if any bytes remain — a trailing Binary `data`
// field covering the rest of the payload.
func defaultSchema(recordLength, recordCount uint32) *domain.TableSchema {
	fields := []domain.FieldDescriptor{
		{Name: "id", Type: domain.Integer, Offset: 0, Length: defaultIDLength},
		{Name: "flags", Type: domain.Integer, Offset: defaultIDLength, Length: defaultFlagsLength},
	}
	covered := defaultIDLength + defaultFlagsLength
	// recordLength here is the full on-disk record length, but a
	// FieldDescriptor's offsets are relative to the payload (record minus
	// the 1-byte deletion flag) — see spec.md §3.
	payloadLength := int(recordLength) - 1
	if remaining := payloadLength - covered; remaining > 0 {
		fields = append(fields, domain.FieldDescriptor{
			Name:   "data",
			Type:   domain.Binary,
			Offset: covered,
			Length: remaining,
		})
	}
	return &domain.TableSchema{Fields: fields, RecordLength: int(recordLength), RecordCountFile: recordCount}
}
