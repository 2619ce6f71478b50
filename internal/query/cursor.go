package query

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// PageCursor pairs the store's continuation key with the identifier of the
// index it came from. The key itself stays opaque; the index identifier is
// what lets the router detect that a filter change switched indexes and the
// cursor no longer applies.
type PageCursor struct {
	Index string `json:"i"`
	Key   string `json:"k"`
}

// EncodeCursor renders a cursor as an opaque URL-safe token. An empty store
// key means no further pages, encoded as the empty token.
func EncodeCursor(index, storeKey string) string {
	if storeKey == "" {
		return ""
	}
	raw, _ := json.Marshal(PageCursor{Index: index, Key: storeKey})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a caller-supplied token. A malformed token decodes to
// ok=false and is treated the same as no cursor, never as an error: stale
// bookmarks restart the listing instead of failing it.
func DecodeCursor(token string) (PageCursor, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PageCursor{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return PageCursor{}, false
	}
	var c PageCursor
	if err := json.Unmarshal(raw, &c); err != nil || c.Index == "" || c.Key == "" {
		return PageCursor{}, false
	}
	return c, true
}
