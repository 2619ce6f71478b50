package query

import (
	"testing"

	"haulhub/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(models.IndexDriverDate, "2026-01-15|trip-42")
	require.NotEmpty(t, token)

	c, ok := DecodeCursor(token)
	require.True(t, ok)
	assert.Equal(t, models.IndexDriverDate, c.Index)
	assert.Equal(t, "2026-01-15|trip-42", c.Key)
}

func TestCursorEmptyKeyEncodesToEmptyToken(t *testing.T) {
	assert.Empty(t, EncodeCursor(models.IndexOwnerDate, ""))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "   ", "not-base64!!!", "bm90IGpzb24", "e30"} {
		_, ok := DecodeCursor(token)
		assert.False(t, ok, "token %q should not decode", token)
	}
}
