package table

import (
	"fmt"
	"net"
	"strings"
)

// NetAddr is a parsed network address with its mask. Host entries carry a
// full-length mask.
type NetAddr struct {
	Net net.IPNet
}

func (n *NetAddr) String() string {
	return n.Net.String()
}

// Contains reports whether ip falls inside the entry's network.
func (n *NetAddr) Contains(ip net.IP) bool {
	return n.Net.Contains(ip)
}

// ParseNetAddr parses a textual address: a bare IPv4/IPv6 address, a CIDR
// prefix, or the "ipv6:" prefixed form accepted in configuration files.
func ParseNetAddr(s string) (*NetAddr, error) {
	text := strings.TrimSpace(s)
	if rest := strings.TrimPrefix(text, "ipv6:"); rest != text {
		text = rest
	}
	if text == "" {
		return nil, fmt.Errorf("empty network address")
	}

	if strings.ContainsRune(text, '/') {
		ip, network, err := net.ParseCIDR(text)
		if err != nil {
			return nil, fmt.Errorf("bad network address %q", s)
		}
		// keep the host bits the author wrote, not the canonical base
		return &NetAddr{Net: net.IPNet{IP: ip, Mask: network.Mask}}, nil
	}

	ip := net.ParseIP(text)
	if ip == nil {
		return nil, fmt.Errorf("bad network address %q", s)
	}

	bits := 8 * net.IPv6len
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
		bits = 8 * net.IPv4len
	}
	return &NetAddr{Net: net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}}, nil
}
