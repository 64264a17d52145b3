package net

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpoint_Valid(t *testing.T) {
	cases := []struct {
		host   string
		port   Port
		family int
		str    string
	}{
		{"127.0.0.1", 55555, FamilyIPv4, "127.0.0.1:55555"},
		{"10.255.255.1", 80, FamilyIPv4, "10.255.255.1:80"},
		{"::1", 443, FamilyIPv6, "[::1]:443"},
		{"::ffff:127.0.0.1", 8080, FamilyIPv6, "[::ffff:127.0.0.1]:8080"},
	}
	for _, tc := range cases {
		ep, err := NewEndpoint(tc.host, tc.port)
		require.NoError(t, err, tc.host)
		assert.True(t, ep.IsValid())
		assert.Equal(t, tc.host, ep.Host())
		assert.Equal(t, tc.port, ep.Port())
		assert.Equal(t, tc.family, ep.Family(), tc.host)
		assert.Equal(t, tc.str, ep.String())
	}
}

func TestNewEndpoint_Invalid(t *testing.T) {
	for _, host := range []string{"999.999.999.999", "not-an-ip", "", "localhost", "1.2.3", "127.0.0.1:80"} {
		_, err := NewEndpoint(host, 80)
		var addrErr *InvalidAddressError
		require.True(t, errors.As(err, &addrErr), "host %q", host)
		assert.Equal(t, host, addrErr.Host)
	}
}

func TestEndpoint_ZeroValueInvalid(t *testing.T) {
	var ep Endpoint
	assert.False(t, ep.IsValid())
}

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint("[::1]:9000")
	require.NoError(t, err)
	assert.Equal(t, FamilyIPv6, ep.Family())
	assert.Equal(t, Port(9000), ep.Port())

	_, err = ParseEndpoint("127.0.0.1")
	var addrErr *InvalidAddressError
	assert.True(t, errors.As(err, &addrErr))

	_, err = ParseEndpoint("127.0.0.1:70000")
	assert.Error(t, err)
}

func TestPortFromString(t *testing.T) {
	p, err := PortFromString("55555")
	require.NoError(t, err)
	assert.Equal(t, uint16(55555), p.Value())
	assert.Equal(t, "55555", p.String())

	_, err = PortFromString("65536")
	assert.Error(t, err)
	_, err = PortFromString("abc")
	assert.Error(t, err)
	_, err = PortFromString("-1")
	assert.Error(t, err)
}

func TestPortFromInt(t *testing.T) {
	for _, v := range []int{0, 1, 55555, 65535} {
		p, err := PortFromInt(v)
		require.NoError(t, err)
		assert.Equal(t, v, int(p))
	}
	for _, v := range []int{-1, 65536, 1 << 20} {
		_, err := PortFromInt(v)
		assert.Error(t, err, "%d", v)
	}
}
