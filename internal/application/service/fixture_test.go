package service

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/datafile"
	"ficengine/internal/platform/schema"
)

// buildCatalog writes a CLIENT.fic file with recordCount fixed-length,
//64-byte records (default structural schema: id at offset 0, flags at
// offset 4, data covering the rest) and returns a Catalog rescanned over
// dir.
func buildCatalog(t *testing.T, dir string, recordCount int, deletedIndex int) *catalog.Catalog {
	t.Helper()
	writeClientFile(t, dir, 64, recordCount, deletedIndex)

	cat := catalog.New(schema.New(nil), func(dataPath string) (uint32, uint32, error) {
		r, err := datafile.Open(dataPath)
		if err != nil {
			return 0, 0, err
		}
		header := r.Header()
		return header.RecordLength, uint32(header.RecordCount), nil
	})
	if err := cat.Rescan(dir); err != nil {
		t.Fatal(err)
	}
	return cat
}

// writeClientFile (re)writes dir/CLIENT.fic with recordCount
// recordLength-byte records, the record at deletedIndex (if >= 0) marked
// deleted. Each record's id field (offset 1..5, payload-relative offset
// 0..4) is set to its index.
func writeClientFile(t *testing.T, dir string, recordLength, recordCount, deletedIndex int) {
	t.Helper()
	path := filepath.Join(dir, "CLIENT.fic")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	header := make([]byte, datafile.HeaderSize)
	copy(header[0:4], []byte("PCS\x00"))
	binary.LittleEndian.PutUint16(header[8:10], uint16(recordLength))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordCount))
	if _, err := f.Write(header); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < recordCount; i++ {
		rec := make([]byte, recordLength)
		if i == deletedIndex {
			rec[0] = 0x01
		}
		if recordLength >= 5 {
			binary.LittleEndian.PutUint32(rec[1:5], uint32(i))
		}
		if _, err := f.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
