package domain

import (
	"fmt"
	"strings"
)

// Direction is the paging direction of a PageCursor.
type Direction string

// Paging directions.
const (
	DirectionBefore Direction = "before"
	DirectionAfter  Direction = "after"
)

// PageCursor is an opaque continuation token for a paginated listing. The
// zero value means the first page.
type PageCursor struct {
	Direction Direction
	Cursor    string
}

// IsStart reports whether the cursor points at the first page.
func (p PageCursor) IsStart() bool {
	return p.Cursor == ""
}

// EncodeCursor returns the tag fragment for a page cursor.
func EncodeCursor(dir Direction, cursor string) (string, error) {
	if dir != DirectionBefore && dir != DirectionAfter {
		return "", fmt.Errorf("%w: direction %q", ErrInvalidCursor, dir)
	}
	if cursor == "" || strings.ContainsAny(cursor, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return string(dir) + TagDelimiter + cursor, nil
}

// DecodeCursor parses a tag fragment produced by EncodeCursor. The fragment
// "start" (or an empty one) decodes to the first page. Only the first
// delimiter splits the fragment, so the cursor may contain it.
func DecodeCursor(fragment string) (PageCursor, error) {
	if fragment == "" || fragment == StartArgument {
		return PageCursor{}, nil
	}
	dir, cursor, ok := strings.Cut(fragment, TagDelimiter)
	if !ok || cursor == "" {
		return PageCursor{}, fmt.Errorf("%w: %q", ErrInvalidCursor, fragment)
	}
	switch Direction(dir) {
	case DirectionBefore, DirectionAfter:
		return PageCursor{Direction: Direction(dir), Cursor: cursor}, nil
	default:
		return PageCursor{}, fmt.Errorf("%w: direction %q", ErrInvalidCursor, dir)
	}
}
