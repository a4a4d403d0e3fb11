package fetch

import (
	"context"
	"net"
	"strings"
	"syscall"

	"halide-hq/prism/pkg/hostpolicy"
)

// blockedNetworks are the address ranges the proxy will never fetch from,
// regardless of the operator deny list. They cover loopback, RFC 1918
// private space, carrier-grade NAT, link-local, multicast, and the
// unspecified addresses for both families.
var blockedNetworks = []*net.IPNet{
	mustParseCIDR("0.0.0.0/8"),
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("100.64.0.0/10"),
	mustParseCIDR("169.254.0.0/16"),
	mustParseCIDR("224.0.0.0/4"),
	mustParseCIDR("::/128"),
	mustParseCIDR("::1/128"),
	mustParseCIDR("fe80::/10"),
	mustParseCIDR("fc00::/7"),
	mustParseCIDR("ff00::/8"),
}

func mustParseCIDR(s string) *net.IPNet {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return network
}

// Resolver looks up the addresses of a hostname. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// PolicySource supplies the current operator deny list. A nil source or a
// nil snapshot denies nothing. *hostpolicy.Provider satisfies it.
type PolicySource interface {
	Current() *hostpolicy.Policy
}

// Guard decides whether an origin host may be fetched. The zero value
// blocks private and special-purpose addresses with no deny list.
type Guard struct {
	// AllowPrivate disables the built-in address ranges. The operator
	// deny list still applies.
	AllowPrivate bool

	// Policy supplies the operator deny list snapshot per check.
	Policy PolicySource

	// Resolver overrides DNS resolution. Defaults to net.DefaultResolver.
	Resolver Resolver
}

// CheckHost verifies that host, or every address it resolves to, is an
// allowed fetch target. Resolution failures fail closed: a host whose
// addresses cannot be determined is treated as disallowed.
func (g *Guard) CheckHost(ctx context.Context, host string) error {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return &DisallowedTargetError{Host: host, Reason: "empty host"}
	}

	policy := g.policy()
	if policy.BlockedHost(host) {
		return &DisallowedTargetError{Host: host, Reason: "host is denied by policy"}
	}

	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		return g.checkIP(host, ip, policy)
	}

	addrs, err := g.resolver().LookupIPAddr(ctx, host)
	if err != nil {
		return &DisallowedTargetError{Host: host, Reason: "address resolution failed: " + err.Error()}
	}
	if len(addrs) == 0 {
		return &DisallowedTargetError{Host: host, Reason: "host resolves to no addresses"}
	}
	for _, addr := range addrs {
		if err := g.checkIP(host, addr.IP, policy); err != nil {
			return err
		}
	}
	return nil
}

// DialControl is installed as the net.Dialer Control hook. It re-checks
// the literal address the transport is about to connect to, so a DNS
// answer that changed after CheckHost cannot reach a blocked network.
func (g *Guard) DialControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return &DisallowedTargetError{Host: host, Reason: "dial address is not an IP"}
	}
	return g.checkIP(host, ip, g.policy())
}

func (g *Guard) checkIP(host string, ip net.IP, policy *hostpolicy.Policy) error {
	if policy.BlockedIP(ip) {
		return &DisallowedTargetError{Host: host, IP: ip, Reason: "address is denied by policy"}
	}
	if g.AllowPrivate {
		return nil
	}
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return &DisallowedTargetError{Host: host, IP: ip, Reason: "address is in a blocked range"}
		}
	}
	return nil
}

func (g *Guard) policy() *hostpolicy.Policy {
	if g.Policy == nil {
		return nil
	}
	return g.Policy.Current()
}

func (g *Guard) resolver() Resolver {
	if g.Resolver == nil {
		return net.DefaultResolver
	}
	return g.Resolver
}
