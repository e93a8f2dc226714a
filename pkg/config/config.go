// Package config resolves the daemon's configuration from an optional
// ini-style file and the command line, the same two-source precedence the
// original dynmhs prototype used (a config file plus getopt-style flags),
// realized here with gopkg.in/ini.v1 and the standard flag package.
package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/dynmhs/dynmhs/pkg/mapping"
)

// Config is the fully resolved, validated set of daemon settings.
type Config struct {
	Mappings []mapping.Entry

	LogLevel int
	LogColor bool
	LogFile  string

	// Help and Version report that the corresponding flag was given; the
	// caller is expected to print usage/version and exit before doing
	// anything else, matching the original prototype's behavior.
	Help    bool
	Version bool
}

// networkFlags accumulates repeated --network flag occurrences.
type networkFlags []string

func (n *networkFlags) String() string { return strings.Join(*n, ",") }
func (n *networkFlags) Set(v string) error {
	*n = append(*n, v)
	return nil
}

// Parse resolves configuration from args (typically os.Args[1:]). The
// --config flag, if given, is read first; --network flags on the command
// line are appended after whatever the config file contributed.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("dynmhsd", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to an ini-style configuration file")
	loglevel := fs.Int("loglevel", 2, "log level, 0 (trace) through 5 (fatal)")
	logfile := fs.String("logfile", "", "log file path (default: stderr)")
	logcolor := fs.Bool("logcolor", true, "use ANSI color escape sequences for log output")
	verbose := fs.Bool("verbose", false, "shorthand for -loglevel=0 (trace)")
	quiet := fs.Bool("quiet", false, "shorthand for -loglevel=3 (warning)")
	help := fs.Bool("help", false, "print help message")
	version := fs.Bool("version", false, "print program version")
	var networks networkFlags
	fs.Var(&networks, "network", "interface:tableid mapping; may be given more than once")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel: *loglevel,
		LogColor: *logcolor,
		LogFile:  *logfile,
		Help:     *help,
		Version:  *version,
	}
	if *verbose {
		cfg.LogLevel = 0
	}
	if *quiet {
		cfg.LogLevel = 3
	}
	if cfg.Help || cfg.Version {
		return cfg, nil
	}

	var specs []string
	if *configPath != "" {
		fromFile, err := loadIniFile(*configPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		specs = append(specs, fromFile...)
	}
	specs = append(specs, networks...)

	entries := make([]mapping.Entry, 0, len(specs))
	for _, spec := range specs {
		entry, err := parseNetworkSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		entries = append(entries, entry)
	}
	if _, err := mapping.New(entries); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Mappings = entries
	return cfg, nil
}

// loadIniFile reads the [log] and [network] sections of path. Every [log]
// value found replaces the corresponding field of cfg, so a file setting
// takes precedence over the same setting given on the command line
// (including -verbose and -quiet), wherever -config appears among the flags.
func loadIniFile(path string, cfg *Config) ([]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if logSec := f.Section("log"); logSec != nil {
		if k, err := logSec.GetKey("level"); err == nil {
			if v, err := k.Int(); err == nil {
				cfg.LogLevel = v
			}
		}
		if k, err := logSec.GetKey("color"); err == nil {
			cfg.LogColor = k.MustBool(cfg.LogColor)
		}
		if k, err := logSec.GetKey("file"); err == nil {
			cfg.LogFile = unquote(k.String())
		}
	}

	netSec := f.Section("network")
	if netSec == nil {
		return nil, nil
	}

	var specs []string
	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("NETWORK%d", i)
		if k, err := netSec.GetKey(key); err == nil {
			if v := unquote(k.String()); v != "" {
				specs = append(specs, v)
			}
		}
	}
	if k, err := netSec.GetKey("NETWORK"); err == nil {
		for _, v := range k.ValueWithShadows() {
			if v := unquote(v); v != "" {
				specs = append(specs, v)
			}
		}
	}
	return specs, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// parseNetworkSpec splits an "interface:tableid" spec on its last colon, so
// that interface names containing a colon (unusual, but not disallowed by
// the kernel) still parse correctly.
func parseNetworkSpec(spec string) (mapping.Entry, error) {
	idx := strings.LastIndex(spec, ":")
	if idx < 0 {
		return mapping.Entry{}, fmt.Errorf("invalid network spec %q: want interface:tableid", spec)
	}
	iface, tableStr := spec[:idx], spec[idx+1:]
	if iface == "" {
		return mapping.Entry{}, fmt.Errorf("invalid network spec %q: empty interface name", spec)
	}
	table, err := strconv.ParseUint(tableStr, 10, 32)
	if err != nil {
		return mapping.Entry{}, fmt.Errorf("invalid network spec %q: bad table id: %w", spec, err)
	}
	return mapping.Entry{Interface: iface, Table: uint32(table)}, nil
}
