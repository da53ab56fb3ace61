package query

import "encoding/base64"

// encodeCursor turns a raw composite index key into an opaque cursor
// string. The cursor is the key itself, not a position or offset, so it
// remains valid across concurrent writes to keys outside the page it
// bounded.
func encodeCursor(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

func decodeCursor(cursor string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(cursor)
}
