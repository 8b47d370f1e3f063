package service

import (
	"ficengine/internal/domain"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/datafile"
	"ficengine/internal/platform/decoder"
	"ficengine/internal/platform/encoding"
	"ficengine/internal/platform/memofile"
)

// openTable resolves a table's catalog entry, its cached schema, and a
// fresh DataFileReader over its data file — the common setup every
// read/write service needs before touching record bytes.
func openTable(cat *catalog.Catalog, table string) (domain.TableEntry, *domain.TableSchema, *datafile.Reader, error) {
	entry, err := cat.Resolve(table)
	if err != nil {
		return domain.TableEntry{}, nil, nil, err
	}
	schema, err := cat.Schema(table)
	if err != nil {
		return domain.TableEntry{}, nil, nil, err
	}
	reader, err := datafile.Open(entry.DataPath)
	if err != nil {
		return domain.TableEntry{}, nil, nil, err
	}
	return entry, schema, reader, nil
}

// memoReaderFor returns a decoder.MemoReader for entry using policy for
// memo text decoding, or a true nil interface (not a nil *memofile.Reader
// wrapped in a non-nil interface) when the table has no memo sidecar —
// Decoder checks memo == nil.
func memoReaderFor(entry domain.TableEntry, policy encoding.Policy) decoder.MemoReader {
	if !entry.HasMemo() {
		return nil
	}
	return memofile.OpenWithPolicy(entry.MemoPath, policy)
}
