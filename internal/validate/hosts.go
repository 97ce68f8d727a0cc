package validate

import (
	"net/netip"
	"strings"
)

// DefaultBlockedHosts are matched exactly against the URL hostname
var DefaultBlockedHosts = []string{"localhost", "127.0.0.1"}

// DefaultBlockedPrefixes are matched as dotted prefixes of the URL hostname
var DefaultBlockedPrefixes = []string{"192.168.", "10.", "172.16."}

// HostPolicy decides whether a hostname points at an internal or private network
type HostPolicy struct {
	exact    map[string]bool
	prefixes []string
	checkIPs bool // also reject loopback/private/link-local IP literals
}

// NewHostPolicy creates a policy from exact hostnames and dotted prefixes
func NewHostPolicy(exact, prefixes []string, checkIPs bool) *HostPolicy {
	p := &HostPolicy{
		exact:    make(map[string]bool, len(exact)),
		prefixes: make([]string, 0, len(prefixes)),
		checkIPs: checkIPs,
	}
	for _, h := range exact {
		p.exact[strings.ToLower(h)] = true
	}
	for _, prefix := range prefixes {
		p.prefixes = append(p.prefixes, strings.ToLower(prefix))
	}
	return p
}

// DefaultHostPolicy returns the standard private-network blocklist
func DefaultHostPolicy() *HostPolicy {
	return NewHostPolicy(DefaultBlockedHosts, DefaultBlockedPrefixes, true)
}

// Blocked reports whether hostname (without port) must not be scanned
func (p *HostPolicy) Blocked(hostname string) bool {
	host := strings.ToLower(strings.TrimSuffix(hostname, "."))
	host = strings.Trim(host, "[]")

	if p.exact[host] {
		return true
	}

	for _, prefix := range p.prefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}

	if !p.checkIPs {
		return false
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
