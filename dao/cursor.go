package dao

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// PageSize is the fixed page length for listing and ISO queries.
const PageSize = 20

// PageCursor is the opaque "last document seen" marker handed back to
// clients for keyset continuation.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

func EncodeCursor(createdAt time.Time, id string) string {
	raw := fmt.Sprintf("%d|%s", createdAt.UTC().UnixMicro(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor token. Empty input means "first page" and
// yields a nil cursor.
func DecodeCursor(token string) (*PageCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.Wrap(err, "decode cursor")
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, errors.New("malformed cursor")
	}
	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "malformed cursor")
	}
	return &PageCursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: parts[1]}, nil
}
