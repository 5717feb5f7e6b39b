// Package networking provides the outbound HTTP plumbing shared by the CLI
// and the catalog API server: a hardened client builder, a generic JSON
// fetch helper, and address classification utilities.
package networking

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	// HttpScheme is the plain HTTP URL scheme.
	HttpScheme = "http"

	// HttpsScheme is the HTTPS URL scheme.
	HttpsScheme = "https"

	// ErrPrivateIpAddress is the error fragment emitted when a dial
	// target resolves to a private address. Callers match on it to
	// distinguish policy rejections from transport failures.
	ErrPrivateIpAddress = "private IP address is not allowed"
)

// privateIPBlocks holds the CIDR ranges treated as non-routable for the
// purposes of outbound request filtering.
var privateIPBlocks []*net.IPNet

func init() {
	for _, cidr := range []string{
		"127.0.0.0/8",    // IPv4 loopback
		"10.0.0.0/8",     // RFC1918
		"172.16.0.0/12",  // RFC1918
		"192.168.0.0/16", // RFC1918
		"169.254.0.0/16", // RFC3927 link-local
		"::1/128",        // IPv6 loopback
		"fe80::/10",      // IPv6 link-local
		"fc00::/7",       // IPv6 unique local
	} {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("parse error on %q: %v", cidr, err))
		}
		privateIPBlocks = append(privateIPBlocks, block)
	}
}

// IsURL reports whether the string parses as an absolute http or https URL.
func IsURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// IsLocalhost reports whether the host portion of an address refers to the
// local machine. The check is a literal prefix match; it does not resolve
// hostnames.
func IsLocalhost(host string) bool {
	for _, local := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if host == local || strings.HasPrefix(host, local+":") {
			return true
		}
	}
	return false
}

// AddressReferencesPrivateIp returns an error when the dial address points
// at a private, loopback, or link-local IP. The address is expected in the
// host:port form handed to dialer control functions.
func AddressReferencesPrivateIp(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("unable to parse IP address from %q", address)
	}

	for _, block := range privateIPBlocks {
		if block.Contains(ip) {
			return fmt.Errorf("request to %s blocked: %s", ip, ErrPrivateIpAddress)
		}
	}

	return nil
}
