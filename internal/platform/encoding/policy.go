package encoding

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// codec names accepted by the string_encoding_primary / string_encoding_fallback
// configuration options (spec.md §6).
const (
	Windows1252 = "windows-1252"
	UTF8        = "utf-8"
)

// Policy is a configurable primary/fallback text decode pipeline. It lets
// the ambient configuration layer (internal/platform/config) choose a
// different codec pair than spec.md §4.2's default without changing the
// decode algorithm itself; decoder.Decoder holds one and uses it for every
// String and Memo field it decodes.
type Policy struct {
	Primary  string
	Fallback string
}

// DefaultPolicy matches spec.md §4.2/§4.6 exactly.
var DefaultPolicy = Policy{Primary: Windows1252, Fallback: UTF8}

// NewPolicy validates primary/fallback against the known codec names.
func NewPolicy(primary, fallback string) (Policy, error) {
	if err := validateCodecName(primary); err != nil {
		return Policy{}, err
	}
	if err := validateCodecName(fallback); err != nil {
		return Policy{}, err
	}
	return Policy{Primary: primary, Fallback: fallback}, nil
}

// validateCodecName reports an error unless name is one of the codec names
// decodeWith recognizes: UTF8, handled directly via unicode/utf8, or a name
// codecFor resolves to a golang.org/x/text encoding.
func validateCodecName(name string) error {
	if name == UTF8 {
		return nil
	}
	_, err := codecFor(name)
	return err
}

// DecodeText runs the two-pass decode using p's configured codecs.
func (p Policy) DecodeText(data []byte) (string, bool) {
	if s, clean := decodeWith(p.Primary, data); clean {
		return s, true
	}
	if p.Fallback == UTF8 {
		if utf8.Valid(data) {
			return string(data), true
		}
		return "", false
	}
	if s, clean := decodeWith(p.Fallback, data); clean {
		return s, true
	}
	return "", false
}

func codecFor(name string) (encoding.Encoding, error) {
	switch name {
	case Windows1252:
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("encoding: unknown codec %q", name)
	}
}

func decodeWith(name string, data []byte) (string, bool) {
	if name == UTF8 {
		if utf8.Valid(data) {
			return string(data), true
		}
		return "", false
	}
	codec, err := codecFor(name)
	if err != nil {
		return "", false
	}
	if name == Windows1252 {
		// The five bytes code page 1252 leaves undefined count as
		// substitutions, so the fallback codec gets a turn.
		for _, b := range data {
			switch b {
			case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
				return "", false
			}
		}
	}
	out, err := codec.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	s := string(out)
	if containsReplacement(s) {
		return "", false
	}
	return s, true
}
