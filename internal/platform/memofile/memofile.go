// Package memofile implements MemoFileReader: length-prefixed blob reads
// at caller-supplied offsets inside a table's memo sidecar file
// (spec.md §4.2).
package memofile

import (
	"encoding/binary"
	"io"
	"os"

	"ficengine/internal/domain"
	"ficengine/internal/platform/encoding"
)

// lengthPrefixSize is the 4-byte little-endian length prefix at the start
// of every memo block.
const lengthPrefixSize = 4

// Reader reads memo blocks from a single memo file. Like datafile.Reader,
// it holds no open handle between calls — each ReadBlock opens, reads, and
// closes the file itself (spec.md §5).
type Reader struct {
	path   string
	policy encoding.Policy
}

// Open returns a Reader for the memo file at path, using spec.md §4.2's
// default windows-1252-then-utf-8 policy. It does not itself open the
// file; existence is checked lazily on first ReadBlock, matching the
// per-operation resource discipline of spec.md §5.
func Open(path string) *Reader {
	return &Reader{path: path, policy: encoding.DefaultPolicy}
}

// OpenWithPolicy returns a Reader using policy for memo text decoding,
// letting the catalog's configured string_encoding_primary/fallback
// (spec.md §6) take effect.
func OpenWithPolicy(path string, policy encoding.Policy) *Reader {
	return &Reader{path: path, policy: policy}
}

// ReadBlock reads the length-prefixed block at offset. A pointer value of
// 0 returns an empty block without performing I/O (spec.md §4.2, §8 #10).
func (r *Reader) ReadBlock(offset uint32) (domain.MemoBlock, error) {
	if offset == 0 {
		return domain.MemoBlock{}, nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.MemoBlock{}, domain.IO(r.path, int64(offset), 0, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return domain.MemoBlock{}, domain.Truncated(r.path, int64(offset), lengthPrefixSize, err)
	}

	lenBuf := make([]byte, lengthPrefixSize)
	if _, err := io.ReadFull(f, lenBuf); err != nil {
		return domain.MemoBlock{}, domain.Truncated(r.path, int64(offset), lengthPrefixSize, err)
	}
	length := binary.LittleEndian.Uint32(lenBuf)

	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return domain.MemoBlock{}, domain.Truncated(r.path, int64(offset)+lengthPrefixSize, int64(length), err)
	}

	block := domain.MemoBlock{Offset: offset, Length: length, Raw: payload}
	if text, ok := r.policy.DecodeText(payload); ok {
		block.Text = text
		block.HasText = true
	}
	return block, nil
}

// ReadText reads the block at offset and returns its decoded text. Used by
// RecordDecoder to resolve Memo-typed fields; callers that get ok=false
// should omit the field from the record's memo map rather than fail the
// whole decode (spec.md §4.2, §4.6, §7).
func (r *Reader) ReadText(offset uint32) (text string, ok bool, err error) {
	block, err := r.ReadBlock(offset)
	if err != nil {
		return "", false, err
	}
	return block.Text, block.HasText, nil
}
