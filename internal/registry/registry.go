// Package registry holds the static brand configuration: which
// recurring branded events exist, which title patterns identify each
// edition, and which patterns exclude a row outright. The registry is
// an ordered value, read-only at resolution time; caller overrides are
// layered on top functionally and never mutate it.
package registry

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/clubpulse/pacing-cli/internal/model"
)

// EditionPatterns maps one edition to the title substrings that
// identify it.
type EditionPatterns struct {
	Edition  string   `yaml:"edition"`
	Patterns []string `yaml:"patterns"`
}

// Brand is one recurring branded event series.
type Brand struct {
	Name     string            `yaml:"name"`
	Category model.Category    `yaml:"category"`
	Genres   []string          `yaml:"genres"`
	Venue    string            `yaml:"venue,omitempty"`
	Editions []EditionPatterns `yaml:"editions"`
}

// Registry is the full brand configuration. Brands is a slice, not a
// map: iteration order is declaration order, and first match wins, so
// the order must be stable for reproducible resolution.
type Registry struct {
	Brands           []Brand  `yaml:"brands"`
	ExcludedPatterns []string `yaml:"excluded_patterns"`
	SeniorPatterns   []string `yaml:"senior_patterns"`
}

// BrandOverride customizes one registry brand without editing the
// registry itself.
type BrandOverride struct {
	Rename   string         `yaml:"rename,omitempty"`
	Category model.Category `yaml:"category,omitempty"`
	Venue    string         `yaml:"venue,omitempty"`
	Genres   []string       `yaml:"genres,omitempty"`
}

// Merge records a manual "merge duplicate brands" operation: raw
// titles containing any alias resolve to the merged brand.
type Merge struct {
	Name     string         `yaml:"name"`
	Aliases  []string       `yaml:"aliases"`
	Category model.Category `yaml:"category,omitempty"`
	Genres   []string       `yaml:"genres,omitempty"`
	Venue    string         `yaml:"venue,omitempty"`
}

// Overrides is the caller-supplied custom configuration, owned by the
// caller and layered over the registry per call.
type Overrides struct {
	Brands         map[string]BrandOverride `yaml:"brands"`
	ExcludedBrands []string                 `yaml:"excluded_brands"`
	Renames        map[string]string        `yaml:"renames"`
	Merges         []Merge                  `yaml:"merges"`
}

// LoadFile reads a registry from YAML. Brands without a name are
// skipped rather than failing the whole file.
func LoadFile(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, eris.Wrap(err, "registry: read file")
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return Registry{}, eris.Wrap(err, "registry: parse yaml")
	}
	var brands []Brand
	for _, b := range reg.Brands {
		if strings.TrimSpace(b.Name) == "" {
			continue
		}
		if b.Category == "" {
			b.Category = model.CategoryUnknown
		}
		brands = append(brands, b)
	}
	reg.Brands = brands
	return reg, nil
}

// LoadOverrides reads a caller override file from YAML. A missing
// path yields empty overrides, not an error.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, eris.Wrap(err, "registry: read overrides")
	}
	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return Overrides{}, eris.Wrap(err, "registry: parse overrides")
	}
	return ov, nil
}

// ShadowedPattern names a pattern that can never fire because an
// earlier brand's pattern is a substring of it.
type ShadowedPattern struct {
	Brand      string
	Edition    string
	Pattern    string
	ShadowedBy string
}

// Shadowed reports edition patterns that are unreachable under
// first-match-wins resolution. Ambiguity between overlapping patterns
// is resolved silently by declaration order; this makes it visible.
func (r Registry) Shadowed() []ShadowedPattern {
	var out []ShadowedPattern
	type seen struct{ brand, pattern string }
	var earlier []seen
	for _, b := range r.Brands {
		for _, e := range b.Editions {
			for _, p := range e.Patterns {
				lp := strings.ToLower(p)
				for _, s := range earlier {
					if s.brand != b.Name && strings.Contains(lp, s.pattern) {
						out = append(out, ShadowedPattern{
							Brand:      b.Name,
							Edition:    e.Edition,
							Pattern:    p,
							ShadowedBy: s.brand,
						})
					}
				}
			}
		}
		for _, e := range b.Editions {
			for _, p := range e.Patterns {
				earlier = append(earlier, seen{brand: b.Name, pattern: strings.ToLower(p)})
			}
		}
	}
	return out
}
