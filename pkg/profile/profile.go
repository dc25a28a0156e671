// Package profile loads named warning/critical threshold pairs from a
// YAML file, so operators can keep probe thresholds in one place
// instead of repeating range expressions on every command line.
//
// File format:
//
//	profiles:
//	  response_time:
//	    warning: "200"
//	    critical: "500"
//	  queue_depth:
//	    warning: "10:20"
//	    critical: "@0:5"
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/pkg/plugin"
)

// Profile is one named pair of threshold expressions. Either field may
// be empty, meaning that severity is not checked.
type Profile struct {
	Warning  string `yaml:"warning"`
	Critical string `yaml:"critical"`
}

// file is the on-disk shape.
type file struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Load reads a profile file and validates every threshold expression.
// It fails on unreadable files, malformed YAML, or any expression the
// threshold grammar rejects, naming the offending profile.
func Load(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("profile: could not parse %s: %w", path, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("profile: %s defines no profiles", path)
	}

	for name, p := range f.Profiles {
		if p.Warning != "" {
			if _, err := plugin.NewThreshold(p.Warning); err != nil {
				return nil, fmt.Errorf("profile %q: warning: %w", name, err)
			}
		}
		if p.Critical != "" {
			if _, err := plugin.NewThreshold(p.Critical); err != nil {
				return nil, fmt.Errorf("profile %q: critical: %w", name, err)
			}
		}
	}

	return f.Profiles, nil
}

// Lookup returns the named profile from a loaded set.
func Lookup(profiles map[string]Profile, name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: no profile named %q", name)
	}
	return p, nil
}
