package dao

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 535000, time.UTC)
	token := EncodeCursor(at, "01HXYZABCDEFGHJKMNPQRSTVWX")

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.True(t, cursor.CreatedAt.Equal(at))
	assert.Equal(t, "01HXYZABCDEFGHJKMNPQRSTVWX", cursor.ID)
}

func TestDecodeCursorEmpty(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursorMalformed(t *testing.T) {
	_, err := DecodeCursor("not base64 at all!!")
	assert.Error(t, err)

	// Valid base64, no separator.
	_, err = DecodeCursor("bm9waXBl")
	assert.Error(t, err)

	// Non-numeric timestamp.
	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("soon|abc")))
	assert.Error(t, err)
}
