package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/pacing-cli/internal/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, "registry.yaml", `
brands:
  - name: BESAME
    category: standard
    genres: [reggaeton, latin]
    editions:
      - edition: "01.11.25"
        patterns: ["01.11.25 besame", "besame 01.11"]
  - name: ""
    category: standard
  - name: CARIBE
    editions:
      - edition: "22.11.25"
        patterns: ["caribe 22.11"]
excluded_patterns: [annullato]
senior_patterns: [liscio]
`)
	reg, err := LoadFile(path)
	require.NoError(t, err)

	// The nameless brand is skipped, not fatal.
	require.Len(t, reg.Brands, 2)
	assert.Equal(t, "BESAME", reg.Brands[0].Name)
	assert.Equal(t, model.CategoryStandard, reg.Brands[0].Category)
	// Missing category defaults to unknown.
	assert.Equal(t, model.CategoryUnknown, reg.Brands[1].Category)
	assert.Equal(t, []string{"annullato"}, reg.ExcludedPatterns)
	assert.Equal(t, []string{"liscio"}, reg.SeniorPatterns)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeTemp(t, "bad.yaml", "brands: [unclosed")
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	ov, err := LoadOverrides("")
	require.NoError(t, err)
	assert.Empty(t, ov.Brands)

	path := writeTemp(t, "overrides.yaml", `
brands:
  CARIBE:
    rename: CARIBE NIGHT
    category: young
excluded_brands: [karaoke]
renames:
  VIDA LOCA: VIDA
merges:
  - name: BESAME
    aliases: [besame, besame night]
`)
	ov, err = LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "CARIBE NIGHT", ov.Brands["CARIBE"].Rename)
	assert.Equal(t, model.CategoryYoung, ov.Brands["CARIBE"].Category)
	assert.Equal(t, []string{"karaoke"}, ov.ExcludedBrands)
	assert.Equal(t, "VIDA", ov.Renames["VIDA LOCA"])
	require.Len(t, ov.Merges, 1)
	assert.Equal(t, []string{"besame", "besame night"}, ov.Merges[0].Aliases)
}

func TestShadowed(t *testing.T) {
	reg := Registry{
		Brands: []Brand{
			{
				Name: "NOSTALGIA",
				Editions: []EditionPatterns{
					{Edition: "a", Patterns: []string{"nostalgia"}},
				},
			},
			{
				Name: "NOSTALGIA 90",
				Editions: []EditionPatterns{
					{Edition: "b", Patterns: []string{"nostalgia 90 15.11"}},
				},
			},
		},
	}
	shadowed := reg.Shadowed()
	require.Len(t, shadowed, 1)
	assert.Equal(t, "NOSTALGIA 90", shadowed[0].Brand)
	assert.Equal(t, "nostalgia 90 15.11", shadowed[0].Pattern)
	assert.Equal(t, "NOSTALGIA", shadowed[0].ShadowedBy)
}

func TestBuiltinHasNoShadowedPatterns(t *testing.T) {
	assert.Empty(t, Builtin().Shadowed())
}
