package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP attributes a request to an address. Forwarding headers are only
// read when the direct peer is one of the trusted proxies, and then the
// right-most hop that is not itself a trusted proxy wins.
type ClientIP struct {
	trusted []netip.Prefix
}

// NewClientIP accepts CIDRs and bare addresses. Entries that parse as
// neither are skipped; config validation rejects them before this point.
func NewClientIP(trustedProxies []string) *ClientIP {
	c := &ClientIP{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			c.trusted = append(c.trusted, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(raw); err == nil {
			addr = addr.Unmap()
			c.trusted = append(c.trusted, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return c
}

func (c *ClientIP) isTrusted(addr netip.Addr) bool {
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolve returns the client address for r.
func (c *ClientIP) Resolve(r *http.Request) string {
	peer, ok := parseHop(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	if c == nil || !c.isTrusted(peer) {
		return peer.String()
	}

	if hops := forwardedHops(r.Header); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			addr, ok := parseHop(hops[i])
			if !ok {
				return peer.String()
			}
			if !c.isTrusted(addr) {
				return addr.String()
			}
		}
		if first, ok := parseHop(hops[0]); ok {
			return first.String()
		}
	}

	if real, ok := parseHop(r.Header.Get("X-Real-IP")); ok {
		return real.String()
	}
	return peer.String()
}

func forwardedHops(h http.Header) []string {
	var hops []string
	for _, value := range h.Values("X-Forwarded-For") {
		for _, part := range strings.Split(value, ",") {
			if hop := strings.TrimSpace(part); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}

// parseHop reads "ip", "ip:port" or "[ipv6]:port".
func parseHop(raw string) (netip.Addr, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, false
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.Unmap(), true
	}
	host, _, err := net.SplitHostPort(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
