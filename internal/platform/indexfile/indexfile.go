// Package indexfile implements IndexFileReader: ordered key→record-id
// lookup over a table's index sidecar file (spec.md §4.3).
package indexfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"ficengine/internal/domain"
)

// headerSize is the fixed 12-byte index file header: magic (4), entry
// count (4), key length (4), all little-endian (spec.md §6).
const headerSize = 12

// Reader loads an index file's entries on demand. Per spec.md §4.3,
// entries() and find_by_key() are self-contained operations; this Reader
// re-reads the file on each call rather than caching an open handle,
// consistent with the per-operation resource discipline in §5.
type Reader struct {
	path string
}

// Open returns a Reader for the index file at path.
func Open(path string) *Reader {
	return &Reader{path: path}
}

// Entries returns all key→record-id entries in file order. The result is
// a materialized slice, not a restartable cursor — spec.md §4.3 only
// requires that a fresh call re-reads the file.
func (r *Reader) Entries() ([]domain.IndexEntry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, domain.IO(r.path, 0, headerSize, err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, domain.InvalidFormatf("index header truncated: %v", err)
	}
	br := bytes.NewReader(header[4:])
	var entryCount, keyLength uint32
	if err := binary.Read(br, binary.LittleEndian, &entryCount); err != nil {
		return nil, domain.InvalidFormatf("index header decode: %v", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &keyLength); err != nil {
		return nil, domain.InvalidFormatf("index header decode: %v", err)
	}

	entries := make([]domain.IndexEntry, 0, entryCount)
	offset := int64(headerSize)
	entryWidth := int64(keyLength) + 4

	for i := uint32(0); i < entryCount; i++ {
		key := make([]byte, keyLength)
		if _, err := io.ReadFull(f, key); err != nil {
			return nil, domain.Truncated(r.path, offset, entryWidth, err)
		}
		var recordID uint32
		if err := binary.Read(f, binary.LittleEndian, &recordID); err != nil {
			return nil, domain.Truncated(r.path, offset, entryWidth, err)
		}
		entries = append(entries, domain.IndexEntry{Key: key, RecordID: recordID, Offset: offset})
		offset += entryWidth
	}

	return entries, nil
}

// FindByKey returns the first entry whose key equals key, comparing raw
// bytes with no normalization. When the file is known sorted an
// implementation may binary-search, but the result must match the linear
// algorithm's first-match-wins behavior under duplicates (spec.md §4.3);
// this Reader always scans linearly, which is trivially consistent with
// itself.
func (r *Reader) FindByKey(key []byte) (domain.IndexEntry, bool, error) {
	entries, err := r.Entries()
	if err != nil {
		return domain.IndexEntry{}, false, err
	}
	for _, e := range entries {
		if bytes.Equal(e.Key, key) {
			return e, true, nil
		}
	}
	return domain.IndexEntry{}, false, nil
}
