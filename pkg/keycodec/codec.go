// Package keycodec encodes field values into lexicographically sortable
// byte strings and composes them into ordered keys for the content index.
//
// A composite key is the concatenation of the escaped-and-terminated
// encoding of each indexed field, in index order, followed by the
// escaped-and-terminated encoding of the document's logical path. Byte
// comparison of two composite keys built from the same index definition
// yields the same ordering as comparing the underlying field values in
// index order, with the document path breaking ties between documents
// that share every indexed field value.
package keycodec

import (
	"errors"
	"fmt"
	"time"
)

// terminator and escape bytes used by the escape-and-terminate scheme: a
// literal 0x00 in field content is written as 0x00 0xFF, and every field
// ends with an unescaped 0x00 0x00. Scanning for a 0x00 byte followed by a
// second byte unambiguously tells a terminator (0x00) from an escaped
// content byte (0xFF) apart, and the scheme preserves byte order because
// the terminator (0x00 0x00) always sorts below an escaped continuation
// (0x00 0xFF) at the same position.
const (
	sepByte    byte = 0x00
	escByte    byte = 0xFF
	termSecond byte = 0x00
)

// MaxByte is the sentinel appended to a key prefix to form an exclusive
// upper bound for a starts-with range scan. It is not a universal bound for
// arbitrary byte content (a field value containing a literal 0xFF could, in
// principle, defeat it). The encodings in this package emit 0xFF only as
// the second byte of an escaped 0x00, never directly after a complete
// field or EncodePrefix prefix, so for UTF-8 field values (which contain
// no 0xFF) the limitation does not apply to keys this package produces.
const MaxByte byte = 0xFF

// Sentinel errors returned by Encode and Decode.
var (
	ErrNegativeNumber = errors.New("keycodec: negative number requires a NumberPadding with an Offset")
	ErrMalformedKey   = errors.New("keycodec: malformed key")
	ErrArityMismatch  = errors.New("keycodec: key segment count does not match index definition")
)

// NumberPadding controls how numeric fields are rendered into a fixed-width,
// order-preserving decimal string. Width is the minimum total length of the
// string after applying Offset, counting the integer digits, the decimal
// point and the six fractional digits; Offset shifts negative domains into
// non-negative space before padding. Negative values with no offset are
// rejected rather than silently wrapped.
type NumberPadding struct {
	Width  int
	Offset float64
}

// DefaultNumberPadding is used when a field carries no explicit padding.
var DefaultNumberPadding = NumberPadding{Width: 20}

// appendEscaped appends the escape-and-terminate encoding of raw to dst and
// returns the extended slice.
func appendEscaped(dst, raw []byte) []byte {
	for _, b := range raw {
		if b == sepByte {
			dst = append(dst, sepByte, escByte)
		} else {
			dst = append(dst, b)
		}
	}
	return append(dst, sepByte, termSecond)
}

// EncodeString appends the escaped encoding of s to dst.
func EncodeString(dst []byte, s string) []byte {
	return appendEscaped(dst, []byte(s))
}

// EncodePrefix appends the escaped, but not terminated, encoding of s to
// dst. It is used to build a starts-with range bound: since a terminated
// field never byte-prefixes a longer terminated field (the terminator
// diverges from any continuing content byte), a prefix scan has to seek on
// the raw escaped content and rely on PrefixUpperBound for its exclusive
// end instead of relying on the terminator.
func EncodePrefix(dst []byte, s string) []byte {
	for _, b := range []byte(s) {
		if b == sepByte {
			dst = append(dst, sepByte, escByte)
		} else {
			dst = append(dst, b)
		}
	}
	return dst
}

// EncodeReference appends the escaped encoding of a reference's target path
// to dst. References encode identically to strings; the distinction exists
// at the schema layer, not in the byte representation.
func EncodeReference(dst []byte, path string) []byte {
	return EncodeString(dst, path)
}

// EncodeBool appends "0" or "1" to dst.
func EncodeBool(dst []byte, b bool) []byte {
	if b {
		return appendEscaped(dst, []byte{'1'})
	}
	return appendEscaped(dst, []byte{'0'})
}

// EncodeDatetime appends a fixed-width UTC RFC3339 representation to dst,
// always with 9 fractional digits and a literal "Z" offset, so that byte
// order matches chronological order regardless of the input's original
// timezone or precision.
func EncodeDatetime(dst []byte, t time.Time) []byte {
	s := t.UTC().Format("2006-01-02T15:04:05.000000000Z")
	return appendEscaped(dst, []byte(s))
}

// EncodeNumber appends a fixed-width, zero-padded decimal representation of
// n to dst. Negative numbers are rejected unless pad.Offset shifts them
// into non-negative space.
func EncodeNumber(dst []byte, n float64, pad NumberPadding) ([]byte, error) {
	shifted := n + pad.Offset
	if shifted < 0 {
		return nil, fmt.Errorf("%w: %v with offset %v is still negative", ErrNegativeNumber, n, pad.Offset)
	}
	s := fmt.Sprintf("%0*.6f", pad.Width, shifted)
	return appendEscaped(dst, []byte(s)), nil
}

// ComposeKey concatenates already-encoded field segments (each produced by
// one of the Encode* functions, in index order) followed by the encoded
// document path, returning the full composite key.
func ComposeKey(fields [][]byte, path string) []byte {
	size := 0
	for _, f := range fields {
		size += len(f)
	}
	size += len(path) + 2
	out := make([]byte, 0, size)
	for _, f := range fields {
		out = append(out, f...)
	}
	return EncodeString(out, path)
}

// PrefixUpperBound returns the exclusive upper bound for a starts-with scan
// over keys beginning with prefix.
func PrefixUpperBound(prefix []byte) []byte {
	out := make([]byte, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = MaxByte
	return out
}

// Split decodes key into its unescaped segments, in order (one per encoded
// field, plus a final one for the path). It returns ErrMalformedKey if the
// byte stream does not follow the escape-and-terminate grammar.
func Split(key []byte) ([][]byte, error) {
	var segments [][]byte
	var cur []byte
	i := 0
	for i < len(key) {
		b := key[i]
		if b != sepByte {
			cur = append(cur, b)
			i++
			continue
		}
		if i+1 >= len(key) {
			return nil, fmt.Errorf("%w: truncated escape sequence", ErrMalformedKey)
		}
		switch key[i+1] {
		case termSecond:
			segments = append(segments, cur)
			cur = nil
			i += 2
		case escByte:
			cur = append(cur, sepByte)
			i += 2
		default:
			return nil, fmt.Errorf("%w: invalid escape byte 0x%02x", ErrMalformedKey, key[i+1])
		}
	}
	if len(cur) != 0 {
		return nil, fmt.Errorf("%w: trailing unterminated segment", ErrMalformedKey)
	}
	return segments, nil
}

// SplitExpect decodes key and verifies it has exactly wantSegments segments
// (fields + path), returning ErrArityMismatch otherwise. Callers use this to
// detect and skip keys written under a prior, differently shaped index
// definition.
func SplitExpect(key []byte, wantSegments int) ([][]byte, error) {
	segments, err := Split(key)
	if err != nil {
		return nil, err
	}
	if len(segments) != wantSegments {
		return nil, fmt.Errorf("%w: got %d segments, want %d", ErrArityMismatch, len(segments), wantSegments)
	}
	return segments, nil
}

// DecodeString returns the unescaped segment as a string.
func DecodeString(segment []byte) string {
	return string(segment)
}

// DecodeBool parses a segment produced by EncodeBool.
func DecodeBool(segment []byte) (bool, error) {
	switch string(segment) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: invalid boolean segment %q", ErrMalformedKey, segment)
	}
}

// DecodeDatetime parses a segment produced by EncodeDatetime.
func DecodeDatetime(segment []byte) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.000000000Z", string(segment))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return t, nil
}

// DecodeNumber parses a segment produced by EncodeNumber, undoing pad.Offset.
func DecodeNumber(segment []byte, pad NumberPadding) (float64, error) {
	var shifted float64
	if _, err := fmt.Sscanf(string(segment), "%f", &shifted); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return shifted - pad.Offset, nil
}
