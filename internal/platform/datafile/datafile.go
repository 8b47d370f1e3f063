// Package datafile implements DataFileReader: header decode and
// random-access record retrieval for a table's primary fixed-record file
// (spec.md §4.1).
package datafile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"ficengine/internal/domain"
)

// HeaderSize is the fixed minimum header size — the smallest prefix
// covering magic, version, padding, record length, record count, padding,
// deleted count, padding, and flags (spec.md §6).
const HeaderSize = 20

// legacySentinelLength is the stored record-length value that signals the
// declared length is not authoritative and must be derived from the file
// size (spec.md §4.1).
const legacySentinelLength = 1

var knownMagicTags = [][3]byte{{'P', 'C', 'S'}, {'F', 'I', 'C'}}

// Reader decodes a data file's header once at Open and provides
// random-access reads afterward. Per spec.md §5, no file handle is held
// between operations: each ReadRecord call opens, reads, and closes the
// file itself.
type Reader struct {
	path   string
	header domain.DataFileHeader
}

// Open reads and validates the header at path, returning a Reader that can
// service ReadRecord/ReadAll afterward.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.IO(path, 0, HeaderSize, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, domain.IO(path, 0, 0, err)
	}

	header, err := readHeader(f, fi.Size())
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, header: header}, nil
}

func readHeader(r io.Reader, fileSize int64) (domain.DataFileHeader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return domain.DataFileHeader{}, domain.InvalidFormatf("header truncated: %v", err)
	}

	var h domain.DataFileHeader
	copy(h.Magic[:], buf[0:4])
	if !validMagic(h.Magic) {
		return domain.DataFileHeader{}, domain.InvalidFormatf("unrecognized magic bytes %q", h.Magic[:3])
	}

	br := bytes.NewReader(buf[4:])
	var recLenU16, pad1, recCountU16, pad2, delCountU16, pad3 uint16
	fields := []any{&h.Version, &pad1, &recLenU16, &recCountU16, &pad2, &delCountU16, &pad3, &h.Flags}
	for _, f := range fields {
		if err := binary.Read(br, binary.LittleEndian, f); err != nil {
			return domain.DataFileHeader{}, domain.InvalidFormatf("header field decode: %v", err)
		}
	}
	h.RecordCount = recCountU16
	h.DeletedCount = delCountU16
	h.HeaderSize = HeaderSize
	h.DataOffset = HeaderSize

	recordLength, err := normalizeRecordLength(recLenU16, uint32(h.RecordCount), h.DataOffset, fileSize)
	if err != nil {
		return domain.DataFileHeader{}, err
	}
	h.RecordLength = recordLength

	return h, nil
}

func validMagic(magic [4]byte) bool {
	for _, tag := range knownMagicTags {
		if magic[0] == tag[0] && magic[1] == tag[1] && magic[2] == tag[2] {
			return true
		}
	}
	return false
}

// normalizeRecordLength applies the legacy-sentinel rule from spec.md
// §4.1: a stored length of 1 means the real length must be derived from
// the file size and record count.
func normalizeRecordLength(stored uint16, recordCount uint32, dataOffset uint32, fileSize int64) (uint32, error) {
	if stored != legacySentinelLength {
		return uint32(stored), nil
	}
	count := recordCount
	if count == 0 {
		count = 1
	}
	available := fileSize - int64(dataOffset)
	if available < 0 {
		available = 0
	}
	effective := uint32(available) / count
	if effective == 0 {
		return 0, domain.InvalidFormatf("normalized record length is 0 (file_size=%d, data_offset=%d, record_count=%d)", fileSize, dataOffset, recordCount)
	}
	return effective, nil
}

// Header returns the decoded header.
func (r *Reader) Header() domain.DataFileHeader { return r.header }

// ReadRecord reads the record at index, opening the file fresh for the
// call and closing it on every exit path (spec.md §4.1, §5).
func (r *Reader) ReadRecord(index uint32) (domain.RecordFrame, error) {
	if index >= uint32(r.header.RecordCount) {
		return domain.RecordFrame{}, domain.OutOfRangef("record index %d out of range (record_count=%d)", index, r.header.RecordCount)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.RecordFrame{}, domain.IO(r.path, 0, 0, err)
	}
	defer f.Close()

	offset := int64(r.header.DataOffset) + int64(index)*int64(r.header.RecordLength)
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return domain.RecordFrame{}, domain.IO(r.path, offset, int64(r.header.RecordLength), err)
	}

	buf := make([]byte, r.header.RecordLength)
	if _, err := io.ReadFull(f, buf); err != nil {
		return domain.RecordFrame{}, domain.Truncated(r.path, offset, int64(r.header.RecordLength), err)
	}

	return frameFromBuffer(index, buf), nil
}

func frameFromBuffer(index uint32, buf []byte) domain.RecordFrame {
	deleted := len(buf) > 0 && buf[0]&0x01 != 0
	var payload []byte
	if len(buf) > 1 {
		payload = buf[1:]
	}
	return domain.RecordFrame{
		Index:        index,
		Deleted:      deleted,
		Payload:      payload,
		MemoPointers: extractDefaultMemoPointers(payload),
	}
}

// extractDefaultMemoPointers implements the conventional-position default
// noted in spec.md §9's open questions: when no schema is supplied, the
// reference reader looks for a single 4-byte little-endian pointer at the
// start of the payload.
func extractDefaultMemoPointers(payload []byte) []uint32 {
	if len(payload) < 4 {
		return nil
	}
	ptr := binary.LittleEndian.Uint32(payload[0:4])
	if ptr == 0 || ptr == 0xFFFFFFFF {
		return nil
	}
	return []uint32{ptr}
}

// SetDeleted flips the low bit of the record's first byte at its absolute
// on-disk offset (spec.md §4.7 delete), opening the file read-write for the
// single call and closing it on every exit path. A single-byte write is the
// smallest unit the filesystem can make atomic without a journal, which is
// why delete is the one mutation this engine performs in place.
func (r *Reader) SetDeleted(index uint32, deleted bool) error {
	if index >= uint32(r.header.RecordCount) {
		return domain.OutOfRangef("record index %d out of range (record_count=%d)", index, r.header.RecordCount)
	}

	f, err := os.OpenFile(r.path, os.O_RDWR, 0)
	if err != nil {
		return domain.IO(r.path, 0, 0, err)
	}
	defer f.Close()

	offset := int64(r.header.DataOffset) + int64(index)*int64(r.header.RecordLength)
	flagByte := make([]byte, 1)
	if _, err := f.ReadAt(flagByte, offset); err != nil {
		return domain.Truncated(r.path, offset, 1, err)
	}

	if deleted {
		flagByte[0] |= 0x01
	} else {
		flagByte[0] &^= 0x01
	}

	if _, err := f.WriteAt(flagByte, offset); err != nil {
		return domain.IO(r.path, offset, 1, err)
	}
	return nil
}

// Cursor is a forward-only, non-restartable sequence over a data file's
// records. It owns the open file handle for its lifetime and releases it
// on Close or exhaustion (spec.md §4.1, §9).
type Cursor struct {
	path   string
	header domain.DataFileHeader
	file   *os.File
	next   uint32
	err    error
}

// ReadAll returns a Cursor over all record_count records in index order.
// Deleted records are included; skipping them is the caller's
// responsibility.
func (r *Reader) ReadAll() (*Cursor, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, domain.IO(r.path, 0, 0, err)
	}
	if _, err := f.Seek(int64(r.header.DataOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, domain.IO(r.path, int64(r.header.DataOffset), 0, err)
	}
	return &Cursor{path: r.path, header: r.header, file: f}, nil
}

// Next advances the cursor and returns the next frame. ok is false once
// the cursor is exhausted (its underlying handle is already closed at
// that point); a non-nil err indicates a truncated read.
func (c *Cursor) Next() (frame domain.RecordFrame, ok bool, err error) {
	if c.err != nil {
		return domain.RecordFrame{}, false, c.err
	}
	if c.next >= uint32(c.header.RecordCount) {
		c.Close()
		return domain.RecordFrame{}, false, nil
	}

	buf := make([]byte, c.header.RecordLength)
	if _, err := io.ReadFull(c.file, buf); err != nil {
		c.err = domain.Truncated(c.path, -1, int64(c.header.RecordLength), err)
		c.Close()
		return domain.RecordFrame{}, false, c.err
	}

	frame = frameFromBuffer(c.next, buf)
	c.next++
	return frame, true, nil
}

// Close releases the cursor's file handle; safe to call multiple times.
func (c *Cursor) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
