package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Leaf unit tests for §4.1, in testify style (grafana-k6's testing
// idiom in the pack), covering the codec helpers directly rather than
// through a full parse.

func TestPercentEncodeDecodeRoundTrip(t *testing.T) {
	in := []byte("hello world/?#<>\"")
	enc := PercentEncode(in, QueryPercentEncodeSet)
	dec := PercentDecode(enc)
	assert.Equal(t, in, dec)
}

func TestPercentEncodeLeavesUnreservedAlone(t *testing.T) {
	assert.Equal(t, "abc123-._~", PercentEncodeString("abc123-._~", QueryPercentEncodeSet))
}

func TestPercentDecodeMalformedSequenceLeftLiteral(t *testing.T) {
	assert.Equal(t, "100%zz", PercentDecodeString("100%zz"))
}

func TestFormEncodeSpaceAndTilde(t *testing.T) {
	assert.Equal(t, "b+%7E", FormEncodeString("b ~"))
}

func TestFormDecodeRoundTrip(t *testing.T) {
	assert.Equal(t, "b ~", FormDecodeString(FormEncodeString("b ~")))
}

func TestIsURLCodePointRuneRejectsSurrogates(t *testing.T) {
	assert.False(t, isURLCodePointRune(0xD800))
	assert.True(t, isURLCodePointRune('a'))
	assert.True(t, isURLCodePointRune(0x00A0))
}

func TestForbiddenHostCodePoint(t *testing.T) {
	assert.True(t, isForbiddenHostCodePoint('#'))
	assert.False(t, isForbiddenHostCodePoint('a'))
}
