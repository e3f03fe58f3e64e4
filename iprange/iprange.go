// Package iprange enumerates IPv4 host addresses for discovery sweeps.
package iprange

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Range iterates the host addresses of a CIDR block, lowest first. The
// iterator is forward-only and cannot be restarted; parse a new Range to
// sweep again.
type Range struct {
	network uint32
	prefix  int
	start   uint32
	end     uint32
	next    uint32
	done    bool
}

// Parse accepts "a.b.c.d/prefix". For prefixes of /30 and wider the
// network and broadcast addresses are excluded; /31 and /32 yield every
// address in the block.
func Parse(text string) (*Range, error) {
	trimmed := strings.TrimSpace(text)
	slash := strings.IndexByte(trimmed, '/')
	if slash < 0 {
		return nil, fmt.Errorf("range %q: missing /prefix", trimmed)
	}
	ip := net.ParseIP(trimmed[:slash])
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("range %q: invalid IPv4 address", trimmed)
	}
	prefix, err := strconv.Atoi(trimmed[slash+1:])
	if err != nil || prefix < 0 || prefix > 32 {
		return nil, fmt.Errorf("range %q: invalid prefix", trimmed)
	}

	mask := prefixMask(prefix)
	network := ipToUint32(ip) & mask
	broadcast := network | ^mask

	start, end := network, broadcast
	if prefix <= 30 {
		start = network + 1
		end = broadcast - 1
	}
	return &Range{
		network: network,
		prefix:  prefix,
		start:   start,
		end:     end,
		next:    start,
		done:    end < start,
	}, nil
}

// Network returns the block's network address in dotted form.
func (r *Range) Network() string { return uint32ToIP(r.network).String() }

// Prefix returns the block's prefix length.
func (r *Range) Prefix() int { return r.prefix }

// HostCount returns how many addresses the full iteration yields.
func (r *Range) HostCount() uint32 {
	if r.end < r.start {
		return 0
	}
	return r.end - r.start + 1
}

// Next returns the next host address, or ok=false once the range is
// exhausted.
func (r *Range) Next() (string, bool) {
	if r.done {
		return "", false
	}
	host := uint32ToIP(r.next).String()
	if r.next == r.end {
		r.done = true
	} else {
		r.next++
	}
	return host, true
}

// Hosts drains the remaining addresses into a slice.
func (r *Range) Hosts() []string {
	hosts := make([]string, 0, r.HostCount())
	for {
		host, ok := r.Next()
		if !ok {
			return hosts
		}
		hosts = append(hosts, host)
	}
}

// DefaultRange guesses a sweep range from the first usable local
// interface: up, IPv4, not loopback, not link-local.
func DefaultRange() (string, bool) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
				continue
			}
			ones, bits := ipnet.Mask.Size()
			if bits != 32 || ones >= 32 {
				continue
			}
			network := ipToUint32(ip4) & prefixMask(ones)
			return fmt.Sprintf("%s/%d", uint32ToIP(network), ones), true
		}
	}
	return "", false
}

func prefixMask(prefix int) uint32 {
	if prefix == 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefix)
}

func ipToUint32(ip net.IP) uint32 {
	v4 := ip.To4()
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}

func uint32ToIP(n uint32) net.IP {
	return net.IPv4(byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}
