package hostpolicy

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is the on-disk schema of the deny-list file.
type Rules struct {
	// DenyHosts lists origin hosts to refuse. An entry of the form
	// "*.example.com" blocks every subdomain of example.com.
	DenyHosts []string `yaml:"deny_hosts"`

	// DenyNetworks lists CIDR blocks to refuse, checked against every
	// address an origin host resolves to.
	DenyNetworks []string `yaml:"deny_networks"`
}

// Policy is a compiled, immutable rule set. A nil *Policy allows
// everything, so callers can hold one without nil checks at each site.
type Policy struct {
	exact    map[string]struct{}
	suffixes []string
	networks []*net.IPNet
}

// Compile turns raw rules into a matchable Policy. Invalid CIDR entries
// are rejected so a typo cannot silently open a hole in the list.
func Compile(rules Rules) (*Policy, error) {
	p := &Policy{exact: make(map[string]struct{}, len(rules.DenyHosts))}

	for _, h := range rules.DenyHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(h, "*."); ok {
			if rest == "" {
				return nil, fmt.Errorf("hostpolicy: invalid wildcard entry %q", h)
			}
			p.suffixes = append(p.suffixes, "."+rest)
			// A wildcard also blocks the apex itself.
			p.exact[rest] = struct{}{}
			continue
		}
		p.exact[h] = struct{}{}
	}

	for _, c := range rules.DenyNetworks {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		_, ipnet, err := net.ParseCIDR(c)
		if err != nil {
			return nil, fmt.Errorf("hostpolicy: invalid network entry %q: %w", c, err)
		}
		p.networks = append(p.networks, ipnet)
	}

	return p, nil
}

// LoadFile reads and compiles the deny-list file at path.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostpolicy: read %q: %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("hostpolicy: parse %q: %w", path, err)
	}

	return Compile(rules)
}

// BlockedHost reports whether the host name itself is denied.
// Matching is case-insensitive and ignores a trailing dot.
func (p *Policy) BlockedHost(host string) bool {
	if p == nil {
		return false
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	if _, ok := p.exact[host]; ok {
		return true
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// BlockedIP reports whether the address falls in a denied network.
func (p *Policy) BlockedIP(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, ipnet := range p.networks {
		if ipnet.Contains(ip) {
			return true
		}
	}
	return false
}

// RuleCount returns the number of compiled entries, for logging.
func (p *Policy) RuleCount() int {
	return p.HostRuleCount() + p.NetworkRuleCount()
}

// HostRuleCount returns the number of compiled host entries, exact and
// wildcard together.
func (p *Policy) HostRuleCount() int {
	if p == nil {
		return 0
	}
	return len(p.exact) + len(p.suffixes)
}

// NetworkRuleCount returns the number of compiled CIDR entries.
func (p *Policy) NetworkRuleCount() int {
	if p == nil {
		return 0
	}
	return len(p.networks)
}
