package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv4Decimal(t *testing.T) {
	addr, err := ParseIPv4("192.168.0.1")
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.1", addr.Serialize())
}

func TestParseIPv4HexSingleComponent(t *testing.T) {
	addr, err := ParseIPv4("0xbadf00d")
	require.NoError(t, err)
	assert.Equal(t, "11.173.240.13", addr.Serialize())
}

func TestParseIPv4OctalComponent(t *testing.T) {
	addr, err := ParseIPv4("0177.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", addr.Serialize())
}

func TestParseIPv4TooManyComponents(t *testing.T) {
	_, err := ParseIPv4("1.2.3.4.5")
	assert.ErrorIs(t, err, ErrIPv4TooManyComponents)
}

func TestParseIPv4ComponentOverflow(t *testing.T) {
	_, err := ParseIPv4("1.2.3.256")
	assert.ErrorIs(t, err, ErrIPv4ComponentOverflow)
}

func TestParseIPv4StrictRejectsNonDottedDecimal(t *testing.T) {
	_, err := ParseIPv4Strict("0xbadf00d")
	assert.ErrorIs(t, err, ErrIPv4NotDottedDecimal)

	_, err = ParseIPv4Strict("01.2.3.4")
	assert.ErrorIs(t, err, ErrIPv4NotDottedDecimal)

	addr, err := ParseIPv4Strict("192.168.0.1")
	require.NoError(t, err)
	assert.Equal(t, IPv4Address(0xC0A80001), addr)
}

func TestLooksLikeIPv4Numeric(t *testing.T) {
	assert.True(t, looksLikeIPv4Numeric("123"))
	assert.True(t, looksLikeIPv4Numeric("0x1A"))
	assert.False(t, looksLikeIPv4Numeric("example"))
	assert.False(t, looksLikeIPv4Numeric(""))
}
