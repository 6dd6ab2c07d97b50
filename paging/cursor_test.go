package paging

import (
	"encoding/base64"
	"testing"
)

func strptr(s string) *string { return &s }

// TestCursorRoundTrip verifies decode(encode(c)) == c for cursors with and
// without a sort key.
func TestCursorRoundTrip(t *testing.T) {
	cases := []Cursor{
		{SortKey: strptr("2025-01-15T10:00:00Z"), TieBreakID: "event123"},
		{SortKey: nil, TieBreakID: "a"},
		{SortKey: strptr(""), TieBreakID: "xyz"},
	}

	for _, c := range cases {
		token := EncodeCursor(c)
		if token == "" {
			t.Fatalf("EncodeCursor(%+v) returned empty token", c)
		}

		got, ok := DecodeCursor(token)
		if !ok {
			t.Fatalf("DecodeCursor(%q) failed", token)
		}
		if got.TieBreakID != c.TieBreakID {
			t.Errorf("TieBreakID = %q, want %q", got.TieBreakID, c.TieBreakID)
		}
		if (got.SortKey == nil) != (c.SortKey == nil) {
			t.Errorf("SortKey presence mismatch: got %v, want %v", got.SortKey, c.SortKey)
		}
		if got.SortKey != nil && c.SortKey != nil && *got.SortKey != *c.SortKey {
			t.Errorf("SortKey = %q, want %q", *got.SortKey, *c.SortKey)
		}
	}
}

// TestDecodeCursorMalformed verifies malformed tokens decode to "no cursor"
// instead of failing.
func TestDecodeCursorMalformed(t *testing.T) {
	tokens := []string{
		"",
		"invalid_cursor",
		"not base64 at all!!!",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"k":"2025-01-01"}`)), // missing id
		base64.RawURLEncoding.EncodeToString([]byte(`[]`)),
	}

	for _, token := range tokens {
		if c, ok := DecodeCursor(token); ok {
			t.Errorf("DecodeCursor(%q) = %+v, want no cursor", token, c)
		}
	}
}
