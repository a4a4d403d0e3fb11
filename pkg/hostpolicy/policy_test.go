package hostpolicy

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestCompileAndMatchHosts(t *testing.T) {
	policy, err := Compile(Rules{
		DenyHosts: []string{
			"blocked.example",
			"*.tracker.example",
			"  MiXeD.Example  ",
		},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		host    string
		blocked bool
	}{
		{"blocked.example", true},
		{"Blocked.Example", true},
		{"blocked.example.", true},
		{"notblocked.example", false},
		{"sub.blocked.example", false},
		{"tracker.example", true},
		{"cdn.tracker.example", true},
		{"deep.cdn.tracker.example", true},
		{"nottracker.example", false},
		{"mixed.example", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := policy.BlockedHost(tt.host); got != tt.blocked {
				t.Errorf("BlockedHost(%q) = %v, want %v", tt.host, got, tt.blocked)
			}
		})
	}
}

func TestCompileAndMatchNetworks(t *testing.T) {
	policy, err := Compile(Rules{
		DenyNetworks: []string{"203.0.113.0/24", "2001:db8::/32"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		ip      string
		blocked bool
	}{
		{"203.0.113.7", true},
		{"203.0.114.7", false},
		{"2001:db8::1", true},
		{"2001:db9::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := policy.BlockedIP(net.ParseIP(tt.ip)); got != tt.blocked {
				t.Errorf("BlockedIP(%q) = %v, want %v", tt.ip, got, tt.blocked)
			}
		})
	}
}

func TestCompileRejectsInvalidEntries(t *testing.T) {
	if _, err := Compile(Rules{DenyNetworks: []string{"not-a-cidr"}}); err == nil {
		t.Error("expected error for invalid CIDR")
	}
	if _, err := Compile(Rules{DenyHosts: []string{"*."}}); err == nil {
		t.Error("expected error for bare wildcard")
	}
}

func TestNilPolicyAllowsEverything(t *testing.T) {
	var p *Policy
	if p.BlockedHost("anything.example") {
		t.Error("nil policy must not block hosts")
	}
	if p.BlockedIP(net.ParseIP("203.0.113.7")) {
		t.Error("nil policy must not block addresses")
	}
	if p.RuleCount() != 0 {
		t.Error("nil policy must report zero rules")
	}
	if p.HostRuleCount() != 0 || p.NetworkRuleCount() != 0 {
		t.Error("nil policy must report zero rules per type")
	}
}

func TestRuleCounts(t *testing.T) {
	policy, err := Compile(Rules{
		DenyHosts:    []string{"blocked.example", "*.tracker.example"},
		DenyNetworks: []string{"203.0.113.0/24"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// The wildcard compiles to a suffix rule plus its apex.
	if got := policy.HostRuleCount(); got != 3 {
		t.Errorf("HostRuleCount() = %d, want 3", got)
	}
	if got := policy.NetworkRuleCount(); got != 1 {
		t.Errorf("NetworkRuleCount() = %d, want 1", got)
	}
	if got := policy.RuleCount(); got != 4 {
		t.Errorf("RuleCount() = %d, want 4", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deny.yaml")
	content := "deny_hosts:\n  - blocked.example\ndeny_networks:\n  - 203.0.113.0/24\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !policy.BlockedHost("blocked.example") {
		t.Error("host rule from file not applied")
	}
	if !policy.BlockedIP(net.ParseIP("203.0.113.9")) {
		t.Error("network rule from file not applied")
	}
	if policy.RuleCount() != 2 {
		t.Errorf("RuleCount() = %d, want 2", policy.RuleCount())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
