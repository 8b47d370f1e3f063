// Package encoding implements the two-pass text decode policy used for
// string fields and memo blocks: code-page-1252 is tried first, and UTF-8
// is the fallback when the primary decoder had to substitute characters.
package encoding

import "unicode/utf8"

// DecodeText applies DefaultPolicy (spec.md §4.2/§4.6's fixed
// windows-1252-then-utf-8 pipeline) and returns the decoded string along
// with whether decoding succeeded. When neither decoder is clean, ok is
// false and callers fall back to raw bytes.
func DecodeText(data []byte) (text string, ok bool) {
	return DefaultPolicy.DecodeText(data)
}

func containsReplacement(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError {
			return true
		}
	}
	return false
}
