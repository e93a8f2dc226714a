package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestIni(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dynmhs.ini")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParse_MergesLegacyAndRepeatedNetworkKeys(t *testing.T) {
	path := writeTestIni(t, `
[log]
level = 3
color = false

[network]
NETWORK1 = "eno1:2000"
NETWORK2 = eno2:3000
NETWORK  = eno3:4000
NETWORK  = eno4:5000
`)

	cfg, err := Parse([]string{"-config", path})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != 3 {
		t.Fatalf("LogLevel = %d, want 3", cfg.LogLevel)
	}
	if cfg.LogColor {
		t.Fatalf("LogColor = true, want false")
	}
	if len(cfg.Mappings) != 4 {
		t.Fatalf("got %d mappings, want 4: %+v", len(cfg.Mappings), cfg.Mappings)
	}
	want := map[string]uint32{"eno1": 2000, "eno2": 3000, "eno3": 4000, "eno4": 5000}
	for _, e := range cfg.Mappings {
		if want[e.Interface] != e.Table {
			t.Fatalf("mapping %+v does not match expected table %d", e, want[e.Interface])
		}
	}
}

func TestParse_CommandLineNetworksAppendAfterFile(t *testing.T) {
	path := writeTestIni(t, "[network]\nNETWORK1 = eno1:2000\n")

	cfg, err := Parse([]string{"-config", path, "-network", "eno9:9000"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(cfg.Mappings))
	}
	if cfg.Mappings[len(cfg.Mappings)-1].Interface != "eno9" {
		t.Fatalf("expected CLI network to be appended last, got %+v", cfg.Mappings)
	}
}

func TestParse_RejectsOutOfRangeTable(t *testing.T) {
	_, err := Parse([]string{"-network", "eno1:99"})
	if err == nil {
		t.Fatalf("expected an error for a table id below the valid range")
	}
}

func TestParse_InterfaceNameWithColonUsesLastColon(t *testing.T) {
	cfg, err := Parse([]string{"-network", "veth:foo:2000"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Mappings) != 1 || cfg.Mappings[0].Interface != "veth:foo" || cfg.Mappings[0].Table != 2000 {
		t.Fatalf("got %+v, want interface \"veth:foo\" table 2000", cfg.Mappings)
	}
}

func TestParse_VerboseAndQuietOverrideLogLevel(t *testing.T) {
	cfg, err := Parse([]string{"-verbose"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != 0 {
		t.Fatalf("LogLevel = %d, want 0 for -verbose", cfg.LogLevel)
	}

	cfg, err = Parse([]string{"-quiet"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != 3 {
		t.Fatalf("LogLevel = %d, want 3 for -quiet", cfg.LogLevel)
	}
}

func TestParse_HelpStopsBeforeValidatingNetworks(t *testing.T) {
	cfg, err := Parse([]string{"-help", "-network", "bad-spec-with-no-colon"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Help {
		t.Fatalf("expected Help to be true")
	}
}
