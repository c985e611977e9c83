package discover

import (
	"net"
	"strings"
)

// LocalIP returns this machine's LAN address, or "" if none can be found.
// The UDP dial never sends a packet; it just asks the kernel which source
// address the default route would use. Interface enumeration is the fallback
// for hosts with no default route.
func LocalIP() string {
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}

// PrefixFromIP returns the first three octets of an IPv4 address
// ("192.168.1.23" -> "192.168.1"), or "" for anything else.
func PrefixFromIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return ""
	}
	parts := strings.Split(parsed.To4().String(), ".")
	if len(parts) != 4 {
		return ""
	}
	return strings.Join(parts[:3], ".")
}
