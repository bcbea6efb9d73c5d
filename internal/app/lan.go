package app

import (
	"net"
	"net/netip"
)

// ifaceAddrs is the part of a network interface preferredHost looks at
type ifaceAddrs struct {
	flags net.Flags
	addrs []net.Addr
}

// lanHost returns the host phones on the venue network should use to
// reach the display.
func lanHost() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	list := make([]ifaceAddrs, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		list = append(list, ifaceAddrs{flags: iface.Flags, addrs: addrs})
	}
	return preferredHost(list)
}

// preferredHost picks the first private IPv4 address on an up, non-loopback
// interface, then any other such IPv4 address, then "localhost".
func preferredHost(ifaces []ifaceAddrs) string {
	var fallback netip.Addr
	for _, iface := range ifaces {
		if iface.flags&net.FlagUp == 0 || iface.flags&net.FlagLoopback != 0 {
			continue
		}
		for _, a := range iface.addrs {
			ip, ok := ipv4Of(a)
			if !ok || ip.IsLoopback() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if !fallback.IsValid() {
				fallback = ip
			}
		}
	}
	if fallback.IsValid() {
		return fallback.String()
	}
	return "localhost"
}

func ipv4Of(a net.Addr) (netip.Addr, bool) {
	var raw net.IP
	switch v := a.(type) {
	case *net.IPNet:
		raw = v.IP
	case *net.IPAddr:
		raw = v.IP
	default:
		return netip.Addr{}, false
	}
	ip, ok := netip.AddrFromSlice(raw)
	if !ok {
		return netip.Addr{}, false
	}
	ip = ip.Unmap()
	return ip, ip.Is4()
}
