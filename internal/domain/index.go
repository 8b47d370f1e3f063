package domain

// IndexEntry is a fixed-width key plus the record id it maps to, in file
// order. Offset is retained to support future range scans (spec.md §4.3).
type IndexEntry struct {
	Key      []byte
	RecordID uint32
	Offset   int64
}
