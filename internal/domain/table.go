package domain

import "github.com/google/uuid"

// TableEntry is the triple of on-disk paths that make up one table:
// exactly one data file, at most one memo file, and zero or more index
// files ordered by numeric suffix (missing suffix sorts first).
type TableEntry struct {
	Name       string // case-preserved, as discovered on disk
	DataPath   string
	MemoPath   string // empty when the table has no memo file
	IndexPaths []string
}

// HasMemo reports whether the table has a memo sidecar file.
func (t TableEntry) HasMemo() bool { return t.MemoPath != "" }

// SchemaSource loads an externally-supplied field layout for a table, used
// by SchemaInspector instead of the structural default when the catalog is
// configured with one (spec.md §4.4, §6 `schema_source`).
type SchemaSource interface {
	// Load returns the field descriptors for table, or ok=false if the
	// source has no entry for it.
	Load(table string) (fields []FieldDescriptor, ok bool, err error)
}

// ActivityPublisher is the optional audit hook invoked after a successful
// mutating operation. It is not part of the core contract in spec.md §4.7;
// QueryEngine calls it best-effort and never lets it affect write outcome.
type ActivityPublisher interface {
	Publish(event ActivityEvent)
}

// ActivityEvent records a single mutation for the optional activity
// broadcaster. EventID is a fresh UUID assigned at construction, giving
// subscribers a stable identity for the event independent of table,
// record id, or timestamp collisions.
type ActivityEvent struct {
	EventID   string
	Table     string
	Operation string
	RecordID  uint32
	Timestamp int64
}

// NewActivityEvent builds an ActivityEvent with a fresh EventID.
func NewActivityEvent(table, operation string, recordID uint32, timestamp int64) ActivityEvent {
	return ActivityEvent{
		EventID:   uuid.NewString(),
		Table:     table,
		Operation: operation,
		RecordID:  recordID,
		Timestamp: timestamp,
	}
}
