package domain

// MemoBlock is a length-prefixed blob read from a memo file at a byte
// offset referenced by a record's memo pointer. A pointer value of 0 means
// "no memo" and is handled by the memo reader without I/O.
type MemoBlock struct {
	Offset  uint32
	Length  uint32
	Raw     []byte
	Text    string
	HasText bool
}
