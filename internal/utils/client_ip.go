package utils

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver picks the caller address for a request. Forwarding headers
// are honored only when the direct peer is one of the trusted proxies.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver parses proxies as CIDRs or bare addresses.
// An empty list trusts nobody and always answers with the peer address.
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	trusted, err := ParseTrustedProxies(proxies)
	if err != nil {
		return nil, err
	}
	return &ClientIPResolver{trusted: trusted}, nil
}

// ParseTrustedProxies converts CIDRs or bare addresses into prefixes
func ParseTrustedProxies(proxies []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(proxies))
	for _, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// ClientIP returns the peer address, or for a trusted peer the right-most
// X-Forwarded-For hop that is not itself trusted. A malformed hop discards the
// header and X-Real-IP is tried instead.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if c == nil || len(c.trusted) == 0 {
		return peer
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil || !c.isTrusted(addr) {
		return peer
	}

	if fwd := r.Header.Values("X-Forwarded-For"); len(fwd) > 0 {
		hops := strings.Split(strings.Join(fwd, ","), ",")
		client := ""
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				client = ""
				break
			}
			client = hop.Unmap().String()
			if !c.isTrusted(hop) {
				return client
			}
		}
		if client != "" {
			return client
		}
	}

	if xr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xr.Unmap().String()
	}
	return peer
}

func (c *ClientIPResolver) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the direct peer. Headers are ignored; use a
// ClientIPResolver when running behind a proxy.
func ClientIP(r *http.Request) string {
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
