package paging

import (
	"encoding/base64"
	"encoding/json"
)

var encoding = base64.RawURLEncoding

// Cursor is the resumption point of a paginated listing: the position of the
// last item emitted on the previous page (direction next) or the first item
// emitted (direction prev).
type Cursor struct {
	SortKey    *string `json:"k,omitempty"`
	TieBreakID string  `json:"id"`
}

// Key returns the ordering key of the cursor position.
func (c Cursor) Key() Key {
	return Key{SortKey: c.SortKey, TieBreakID: c.TieBreakID}
}

// cursorAt builds the cursor pinned to an ordering key.
func cursorAt(k Key) Cursor {
	return Cursor{SortKey: k.SortKey, TieBreakID: k.TieBreakID}
}

// EncodeCursor serializes a cursor into an opaque, URL-safe token. The token
// exposes nothing beyond the (sortKey, tieBreakID) pair and carries no
// server-side state. The codec is kept isolated so a signing layer can be
// added without touching callers.
func EncodeCursor(c Cursor) string {
	payload, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return encoding.EncodeToString(payload)
}

// DecodeCursor parses a cursor token. A malformed or tampered token yields
// (nil, false) so the caller degrades to a first page; pagination never
// fails on bad cursor input.
func DecodeCursor(token string) (*Cursor, bool) {
	if token == "" {
		return nil, false
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return nil, false
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, false
	}
	if c.TieBreakID == "" {
		return nil, false
	}
	return &c, true
}
