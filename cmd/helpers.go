package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/registry"
	"github.com/clubpulse/pacing-cli/internal/store"
)

// initStore opens and migrates the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadRegistry resolves the brand registry and caller overrides from
// config. An unset registry path means the builtin venue registry.
func loadRegistry() (registry.Registry, registry.Overrides, error) {
	reg := registry.Builtin()
	if cfg.Registry.Path != "" {
		var err error
		reg, err = registry.LoadFile(cfg.Registry.Path)
		if err != nil {
			return registry.Registry{}, registry.Overrides{}, err
		}
	}
	ov, err := registry.LoadOverrides(cfg.Registry.OverridesPath)
	if err != nil {
		return registry.Registry{}, registry.Overrides{}, err
	}
	return reg, ov, nil
}

// loadBrandRecords reads every stored record of one brand.
func loadBrandRecords(ctx context.Context, st store.Store, brand string) ([]model.AttendanceRecord, error) {
	records, err := st.ListRecords(ctx, store.RecordFilter{Brand: brand})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("no records for brand %q; run ingest first", brand)
	}
	return records, nil
}

// writeJSON pretty-prints a value for --json output.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

// nowUTC is the reference time used by comparison commands; a
// variable so command tests can pin it.
var nowUTC = func() time.Time { return time.Now().UTC() }
