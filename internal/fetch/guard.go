package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrForbiddenHost is returned for URLs that resolve to loopback, private,
// link-local or unspecified addresses.
var ErrForbiddenHost = errors.New("host resolves to a non-public address")

// carrier-grade NAT range, not covered by net.IP.IsPrivate
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// isPublicIP reports whether ip is routable on the public internet.
func isPublicIP(ip net.IP) bool {
	switch {
	case ip == nil,
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// dialControl refuses connections to non-public addresses. It runs after
// DNS resolution, so redirects and rebinding are covered too.
func dialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if !isPublicIP(net.ParseIP(host)) {
		return fmt.Errorf("%w: %s", ErrForbiddenHost, host)
	}
	return nil
}

// newGuardedClient returns an HTTP client that only dials public addresses.
func newGuardedClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   dialControl,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: DefaultTimeout, Transport: transport}
}

// checkHost resolves the URL's host and rejects it unless every address is
// public. Fetchers built with AllowPrivateHosts skip the check.
func (f *Fetcher) checkHost(ctx context.Context, rawURL string) error {
	if f.allowPrivate {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	host := u.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		if !isPublicIP(ip) {
			return &Error{URL: rawURL, Message: "host not allowed", Cause: ErrForbiddenHost}
		}
		return nil
	}

	addrs, err := f.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return &Error{URL: rawURL, Message: "failed to resolve host", Cause: err}
	}
	for _, a := range addrs {
		if !isPublicIP(a.IP) {
			return &Error{URL: rawURL, Message: "host not allowed", Cause: ErrForbiddenHost}
		}
	}
	return nil
}
