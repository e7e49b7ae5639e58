// Package resolve turns a raw free-text event title into a stable
// (brand, edition) identity, or into an exclusion signal. Matching is
// a fixed-order cascade of case-insensitive substring rules; the first
// matching rule wins, and the ordering is policy, not accident:
// exclusion always beats brand matching, merges beat the static
// registry, and the final fallback always produces some identity, so
// resolution itself can never fail.
package resolve

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/registry"
	"github.com/clubpulse/pacing-cli/internal/temporal"
)

// Identity is a resolved (brand, edition) with its brand metadata.
type Identity struct {
	Brand    string
	Edition  string
	Category model.Category
	Genres   []string
	Venue    string
}

// Result is the resolver output. Excluded means the record must be
// dropped. Senior identities carry no brand; the venue does not
// process senior-category events, so callers drop these too.
type Result struct {
	Identity Identity
	Excluded bool
	Senior   bool
}

var titleCaser = cases.Title(language.Italian)

// Resolve resolves a raw event title against the registry with the
// caller's overrides layered on top. Pure: identical inputs always
// yield identical results, and neither reg nor ov is mutated.
func Resolve(rawName string, reg registry.Registry, ov registry.Overrides) Result {
	name := strings.ToLower(strings.TrimSpace(rawName))

	// 1. Exclusion comes first, even when a brand pattern would match.
	for _, p := range reg.ExcludedPatterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return Result{Excluded: true}
		}
	}
	for _, p := range ov.ExcludedBrands {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return Result{Excluded: true}
		}
	}

	// 2. Senior events are identified but not processed.
	for _, p := range reg.SeniorPatterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return Result{Senior: true, Identity: Identity{Category: model.CategorySenior}}
		}
	}

	// 3. Manual merge aliases beat the static registry.
	for _, m := range ov.Merges {
		for _, alias := range m.Aliases {
			if alias != "" && strings.Contains(name, strings.ToLower(alias)) {
				cat := m.Category
				if cat == "" {
					cat = model.CategoryUnknown
				}
				return Result{Identity: applyOverrides(Identity{
					Brand:    m.Name,
					Edition:  model.EditionUnknown,
					Category: cat,
					Genres:   m.Genres,
					Venue:    m.Venue,
				}, ov)}
			}
		}
	}

	// 4. Static registry, declaration order.
	for _, b := range reg.Brands {
		for _, e := range b.Editions {
			for _, p := range e.Patterns {
				if p != "" && strings.Contains(name, strings.ToLower(p)) {
					return Result{Identity: applyOverrides(Identity{
						Brand:    b.Name,
						Edition:  e.Edition,
						Category: b.Category,
						Genres:   b.Genres,
						Venue:    b.Venue,
					}, ov)}
				}
			}
		}
	}

	// 5. Strip date decoration and try brand names directly, in either
	// containment direction.
	cleaned := temporal.StripDatePhrase(name)
	if cleaned != "" {
		for _, b := range reg.Brands {
			bn := strings.ToLower(b.Name)
			if strings.Contains(cleaned, bn) || strings.Contains(bn, cleaned) {
				return Result{Identity: applyOverrides(Identity{
					Brand:    b.Name,
					Edition:  model.EditionUnknown,
					Category: b.Category,
					Genres:   b.Genres,
					Venue:    b.Venue,
				}, ov)}
			}
		}
	}

	// 6. Never fail: the cleaned text becomes a new one-off brand.
	fallback := cleaned
	if fallback == "" {
		fallback = name
	}
	return Result{Identity: applyOverrides(Identity{
		Brand:    titleCaser.String(fallback),
		Edition:  model.EditionSingle,
		Category: model.CategoryUnknown,
	}, ov)}
}

// applyOverrides layers the caller's per-brand customization onto a
// matched identity: per-brand rename/category/venue/genres first, then
// the global rename map.
func applyOverrides(id Identity, ov registry.Overrides) Identity {
	if bo, ok := ov.Brands[id.Brand]; ok {
		if bo.Rename != "" {
			id.Brand = bo.Rename
		}
		if bo.Category != "" {
			id.Category = bo.Category
		}
		if bo.Venue != "" {
			id.Venue = bo.Venue
		}
		if len(bo.Genres) > 0 {
			id.Genres = bo.Genres
		}
	}
	if renamed, ok := ov.Renames[id.Brand]; ok && renamed != "" {
		id.Brand = renamed
	}
	return id
}
