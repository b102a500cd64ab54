package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv6FullForm(t *testing.T) {
	addr, err := ParseIPv6("2001:db8:0:0:0:0:0:1")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", addr.Serialize())
}

func TestParseIPv6Compressed(t *testing.T) {
	addr, err := ParseIPv6("::127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "::7f00:1", addr.Serialize())
}

func TestParseIPv6AllZeros(t *testing.T) {
	addr, err := ParseIPv6("::")
	require.NoError(t, err)
	assert.Equal(t, "::", addr.Serialize())
}

func TestParseIPv6TooFewPieces(t *testing.T) {
	_, err := ParseIPv6("1:2:3")
	assert.ErrorIs(t, err, ErrIPv6TooFewPieces)
}

func TestParseIPv6MultipleCompress(t *testing.T) {
	_, err := ParseIPv6("1::2::3")
	assert.ErrorIs(t, err, ErrIPv6MultipleCompress)
}

func TestIPv6RoundTripViaHostBracketing(t *testing.T) {
	addr, err := ParseIPv6("2001:db8::1")
	require.NoError(t, err)
	h := IPv6Host(addr)
	assert.Equal(t, "[2001:db8::1]", h.Serialize())
}
