package net

import (
	"net"
	"net/netip"
	"strconv"
)

// Address families an Endpoint can resolve to.
const (
	FamilyIPv4 = 4
	FamilyIPv6 = 6
)

// InvalidAddressError reports host text that is not a literal IP address.
type InvalidAddressError struct {
	Host string
}

func (e *InvalidAddressError) Error() string {
	return "invalid IP address format for " + strconv.Quote(e.Host)
}

// Endpoint is an immutable host/port pair naming a TCP server.
// Only literal IPv4/IPv6 hosts are accepted; no name resolution is performed.
type Endpoint struct {
	host string
	addr netip.Addr
	port Port
}

// NewEndpoint validates host and builds an Endpoint.
func NewEndpoint(host string, port Port) (Endpoint, error) {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Endpoint{}, &InvalidAddressError{Host: host}
	}
	return Endpoint{host: host, addr: addr, port: port}, nil
}

// EndpointFromStrings parses a textual host and port, as given on a command line.
func EndpointFromStrings(host, port string) (Endpoint, error) {
	p, err := PortFromString(port)
	if err != nil {
		return Endpoint{}, err
	}
	return NewEndpoint(host, p)
}

// ParseEndpoint parses "host:port", with IPv6 hosts in brackets.
func ParseEndpoint(hostport string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return Endpoint{}, &InvalidAddressError{Host: hostport}
	}
	return EndpointFromStrings(host, port)
}

// MustEndpoint is like NewEndpoint but panics on invalid input. Intended for tests and constants.
func MustEndpoint(host string, port Port) Endpoint {
	ep, err := NewEndpoint(host, port)
	if err != nil {
		panic(err)
	}
	return ep
}

// IsValid reports whether the endpoint was built by one of the constructors.
func (e Endpoint) IsValid() bool {
	return e.addr.IsValid()
}

// Host returns the host text as it was given.
func (e Endpoint) Host() string {
	return e.host
}

// Addr returns the parsed address.
func (e Endpoint) Addr() netip.Addr {
	return e.addr
}

func (e Endpoint) Port() Port {
	return e.port
}

// Family returns FamilyIPv4 or FamilyIPv6. IPv4-mapped IPv6 literals stay IPv6.
func (e Endpoint) Family() int {
	if e.addr.Is4() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

// String returns the endpoint in "host:port" form.
func (e Endpoint) String() string {
	if !e.IsValid() {
		return e.host + ":" + e.port.String()
	}
	return netip.AddrPortFrom(e.addr, e.port.Value()).String()
}
