package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"halide-hq/prism/pkg/cli"
)

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// setValidateFlags points the global command flags at a config file for
// the duration of one test.
func setValidateFlags(t *testing.T, path, output string) {
	t.Helper()
	origCfg := cfgFile
	origOutput := validateFlags.output
	cfgFile = path
	validateFlags.output = output
	t.Cleanup(func() {
		cfgFile = origCfg
		validateFlags.output = origOutput
	})
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	path := writeTestConfig(t, `
server:
  listen_address: "127.0.0.1:9090"
fetch:
  size_limit: 50000000
`)
	setValidateFlags(t, path, "text")

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate() = %v, want nil", err)
	}
}

func TestValidateAcceptsBuiltinDefaults(t *testing.T) {
	setValidateFlags(t, "", "text")

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate() with defaults = %v, want nil", err)
	}
}

func TestValidateJSONOutput(t *testing.T) {
	path := writeTestConfig(t, `
server:
  listen_address: "127.0.0.1:9090"
`)
	setValidateFlags(t, path, "json")

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate() with json output = %v, want nil", err)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := writeTestConfig(t, `
media:
  jpeg_quality: 500
`)
	setValidateFlags(t, path, "text")

	err := runValidate(validateCmd, nil)
	if err == nil {
		t.Fatal("runValidate() = nil, want error")
	}

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *cli.ConfigError", err)
	}
}

func TestValidateRejectsMissingConfigFile(t *testing.T) {
	setValidateFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), "text")

	if err := runValidate(validateCmd, nil); err == nil {
		t.Fatal("runValidate() = nil, want error for missing file")
	}
}

func TestValidateRejectsBrokenHostPolicy(t *testing.T) {
	path := writeTestConfig(t, `
host_policy:
  path: "/nonexistent/deny.yaml"
`)
	setValidateFlags(t, path, "text")

	err := runValidate(validateCmd, nil)
	if err == nil {
		t.Fatal("runValidate() = nil, want error for missing host policy file")
	}

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *cli.ConfigError", err)
	}
	if cfgErr.Field != "host_policy.path" {
		t.Errorf("Field = %q, want %q", cfgErr.Field, "host_policy.path")
	}
}

func TestValidateCommandExists(t *testing.T) {
	if validateCmd == nil {
		t.Fatal("validateCmd is nil")
	}
	if validateCmd.Use != "validate" {
		t.Errorf("validateCmd.Use = %q, want %q", validateCmd.Use, "validate")
	}
	if validateCmd.RunE == nil {
		t.Error("validateCmd.RunE should not be nil")
	}
}
