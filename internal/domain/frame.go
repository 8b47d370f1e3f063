package domain

// RecordFrame is the raw bytes and deletion flag for a single record. It is
// an immutable view: callers that need it to outlive a single read call
// must copy Payload themselves.
type RecordFrame struct {
	Index        uint32
	Deleted      bool
	Payload      []byte
	MemoPointers []uint32
}

// DataFileHeader is the fixed-size prefix of a data file, decoded per
// spec.md §4.1/§6.
type DataFileHeader struct {
	Magic        [4]byte
	Version      uint16
	RecordLength uint32 // normalized; may differ from the raw on-disk u16 when the length==1 sentinel applies
	RecordCount  uint16
	DeletedCount uint16
	Flags        uint16
	HeaderSize   uint32
	DataOffset   uint32
}
