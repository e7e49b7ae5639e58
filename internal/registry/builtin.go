package registry

import "github.com/clubpulse/pacing-cli/internal/model"

// Builtin returns the venue's default registry. Declaration order
// matters: resolution is first-match-wins, so more specific brands go
// first. Deployments can replace this wholesale with a YAML file.
func Builtin() Registry {
	return Registry{
		ExcludedPatterns: []string{
			"annullato",
			"rinviato",
			"evento privato",
			"prova tecnica",
			"staff party",
		},
		SeniorPatterns: []string{
			"liscio",
			"orchestra spettacolo",
			"over 40",
		},
		Brands: []Brand{
			{
				Name:     "BESAME",
				Category: model.CategoryStandard,
				Genres:   []string{"reggaeton", "latin", "hits"},
				Editions: []EditionPatterns{
					{Edition: "02.11.24", Patterns: []string{"02.11.24 besame", "besame 02.11.24", "besame 02.11"}},
					{Edition: "07.12.24", Patterns: []string{"07.12.24 besame", "besame 07.12.24", "besame 07.12"}},
					{Edition: "11.01.25", Patterns: []string{"11.01.25 besame", "besame 11.01.25", "besame 11.01"}},
					{Edition: "01.11.25", Patterns: []string{"01.11.25 besame", "besame 01.11.25", "besame 01.11"}},
					{Edition: "06.12.25", Patterns: []string{"06.12.25 besame", "besame 06.12.25", "besame 06.12"}},
				},
			},
			{
				Name:     "NOSTALGIA 90",
				Category: model.CategoryStandard,
				Genres:   []string{"90s", "dance", "revival"},
				Editions: []EditionPatterns{
					{Edition: "16.11.24", Patterns: []string{"nostalgia 90 16.11", "16.11.24 nostalgia"}},
					{Edition: "15.11.25", Patterns: []string{"nostalgia 90 15.11", "15.11.25 nostalgia"}},
				},
			},
			{
				Name:     "CARIBE",
				Category: model.CategoryStandard,
				Genres:   []string{"salsa", "bachata", "merengue"},
				Editions: []EditionPatterns{
					{Edition: "23.11.24", Patterns: []string{"caribe 23.11", "23.11.24 caribe"}},
					{Edition: "22.11.25", Patterns: []string{"caribe 22.11", "22.11.25 caribe"}},
				},
			},
			{
				Name:     "VIDA LOCA",
				Category: model.CategoryYoung,
				Genres:   []string{"reggaeton", "trap"},
				Editions: []EditionPatterns{
					{Edition: "14.12.24", Patterns: []string{"vida loca 14.12", "14.12.24 vida loca"}},
					{Edition: "13.12.25", Patterns: []string{"vida loca 13.12", "13.12.25 vida loca"}},
				},
			},
		},
	}
}
