package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostDomain(t *testing.T) {
	h, err := ParseHost("EXAMPLE.com", true, false)
	require.NoError(t, err)
	domain, ok := h.Domain()
	require.True(t, ok)
	assert.Equal(t, "example.com", domain)
}

func TestParseHostIPv4(t *testing.T) {
	h, err := ParseHost("0xbadf00d", true, false)
	require.NoError(t, err)
	assert.Equal(t, HostIPv4, h.Kind)
	assert.Equal(t, "11.173.240.13", h.Serialize())
}

func TestParseHostIPv6Bracketed(t *testing.T) {
	h, err := ParseHost("[::1]", true, false)
	require.NoError(t, err)
	assert.Equal(t, "[::1]", h.Serialize())
}

func TestParseHostEmptyRejectedForSpecialNonFile(t *testing.T) {
	_, err := ParseHost("", true, false)
	assert.ErrorIs(t, err, ErrHostEmptyNotAllowed)
}

func TestParseHostEmptyAllowedForFile(t *testing.T) {
	h, err := ParseHost("", true, true)
	require.NoError(t, err)
	assert.Equal(t, HostEmpty, h.Kind)
}

func TestParseHostOpaqueForNonSpecial(t *testing.T) {
	h, err := ParseHost("EX%41MPLE", false, false)
	require.NoError(t, err)
	assert.Equal(t, HostOpaque, h.Kind)
}

func TestHostLabelsAndIsIDN(t *testing.T) {
	h := DomainHost("xn--fsq.example.com")
	assert.Equal(t, []string{"xn--fsq", "example", "com"}, h.Labels())
	assert.True(t, h.IsIDN())

	plain := DomainHost("example.com")
	assert.False(t, plain.IsIDN())
}

func TestHostEqual(t *testing.T) {
	a := DomainHost("example.com")
	b := DomainHost("example.com")
	c := DomainHost("other.com")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
