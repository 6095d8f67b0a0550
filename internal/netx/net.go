// Package netx holds network address helpers.
package netx

import (
	"fmt"
	"net"
	"strings"
)

// RequireLoopback checks that addr ("host:port") names a loopback host.
// "localhost" is accepted; an empty host is not, since it binds every
// interface.
func RequireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("address %q is not a loopback address", addr)
	}
	return nil
}
