package lightconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk lighting parameter file: non-versioned constant
// blocks plus an ordered list of dated partial overrides.
type File struct {
	Constants struct {
		Device DeviceConfig `yaml:"device"`
		Clouds CloudsConfig `yaml:"clouds"`
	} `yaml:"constants"`

	Versions []rawVersion `yaml:"versions"`

	resolver *Resolver
}

type rawVersion struct {
	Date string `yaml:"date"`
	Sun  Tree   `yaml:"sun"`
	Moon Tree   `yaml:"moon"`
	RGBW Tree   `yaml:"rgbw"`
}

// Load reads and parses the lighting parameter file and builds its
// version resolver.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lighting config: %w", err)
	}
	return Parse(data)
}

// Parse builds a File from raw YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lighting config: %w", err)
	}

	if len(f.Versions) == 0 {
		return nil, ErrNoVersions
	}

	versions := make([]Version, 0, len(f.Versions))
	for i, rv := range f.Versions {
		if rv.Date == "" {
			return nil, fmt.Errorf("lightconfig: version entry %d is missing its date (YYYY-MM-DD)", i)
		}
		d, err := time.Parse("2006-01-02", rv.Date)
		if err != nil {
			return nil, fmt.Errorf("lightconfig: version entry %d has invalid date %q: %w", i, rv.Date, err)
		}
		tree := Tree{}
		if rv.Sun != nil {
			tree["sun"] = rv.Sun
		}
		if rv.Moon != nil {
			tree["moon"] = rv.Moon
		}
		if rv.RGBW != nil {
			tree["rgbw"] = rv.RGBW
		}
		versions = append(versions, Version{Date: d, Tree: tree})
	}

	resolver, err := NewResolver(versions)
	if err != nil {
		return nil, err
	}
	f.resolver = resolver

	return &f, nil
}

// ResolveFor interpolates the versioned entries for the given date and
// decodes the result into typed parameter sets.
func (f *File) ResolveFor(date time.Time) (*Resolved, error) {
	tree := f.resolver.ResolveFor(date)

	var out Resolved
	if err := decodeSection(tree, "sun", &out.Sun); err != nil {
		return nil, err
	}
	if err := decodeSection(tree, "moon", &out.Moon); err != nil {
		return nil, err
	}
	if err := decodeSection(tree, "rgbw", &out.RGBW); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeSection round-trips one subtree through YAML into its typed
// struct. Missing sections leave the struct zeroed.
func decodeSection(tree Tree, key string, dst interface{}) error {
	sub, ok := tree[key]
	if !ok {
		return nil
	}
	raw, err := yaml.Marshal(sub)
	if err != nil {
		return fmt.Errorf("lightconfig: failed to re-encode %s section: %w", key, err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("lightconfig: invalid %s section: %w", key, err)
	}
	return nil
}
