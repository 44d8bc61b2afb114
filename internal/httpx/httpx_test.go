package httpx

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"title":"Cloud"}`), &dst))
	assert.Equal(t, "Cloud", dst.Title)

	assert.Error(t, DecodeJSON(strings.NewReader(`{"title":"a","unknown":1}`), &dst))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"title":"a"}{"title":"b"}`), &dst))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset(url.Values{}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(20), limit)
	assert.Equal(t, int64(0), offset)

	limit, offset, err = ParseLimitOffset(url.Values{"limit": {"500"}, "offset": {"10"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), limit)
	assert.Equal(t, int64(10), offset)

	_, _, err = ParseLimitOffset(url.Values{"limit": {"0"}}, 20, 100)
	assert.EqualError(t, err, "invalid limit")

	_, _, err = ParseLimitOffset(url.Values{"offset": {"-1"}}, 20, 100)
	assert.EqualError(t, err, "invalid offset")
}
