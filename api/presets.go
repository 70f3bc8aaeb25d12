/*
presets.go - Reference data seeding

PURPOSE:
  Fills the store with the data the read endpoints serve: the built-in DRIP
  presets and the tax bracket tables. Runs at startup and is idempotent.

BUILT-IN PRESETS:
  conservative:   Conservative Retiree
  aggressive:     Aggressive Growth
  fire:           Early Retirement (FIRE)
  aristocrats:    Dividend Aristocrats
  high-yield:     High Yield Focus
  young-investor: Young Investor

HOW SEEDING WORKS:
 1. Convert each calculators.Preset config to factory.ConfigJSON
 2. Insert presets whose slug is not stored yet (user edits survive)
 3. Upsert every tax table (the YAML file is the source of truth)

ADDING NEW PRESETS:
 1. Add a constructor in calculators/presets.go
 2. List it in calculators.Presets()

SEE ALSO:
  - calculators/presets.go: Preset definitions
  - config/taxtables.go: Tax table YAML
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warp/dividend-engine/calculators"
	"github.com/warp/dividend-engine/engine"
	"github.com/warp/dividend-engine/logger"
	"github.com/warp/dividend-engine/store/sqlite"
)

// SeedPresets stores the built-in presets that are missing.
func (h *Handler) SeedPresets(ctx context.Context) error {
	builtIns := calculators.Presets()
	records := make([]sqlite.PresetRecord, 0, len(builtIns))
	for _, p := range builtIns {
		raw, err := json.Marshal(h.ConfigFactory.ToJSON(p.Config))
		if err != nil {
			return fmt.Errorf("failed to encode preset %s: %w", p.ID, err)
		}
		records = append(records, sqlite.PresetRecord{
			ID:          p.ID,
			Slug:        p.ID,
			Name:        p.Name,
			Description: p.Description,
			ConfigJSON:  string(raw),
		})
	}

	if err := h.Store.SeedPresets(ctx, records); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Presets seeded", "count", len(records))
	return nil
}

// SeedTaxTables stores tables, replacing any with the same year and status.
func (h *Handler) SeedTaxTables(ctx context.Context, tables []engine.TaxTable) error {
	for _, t := range tables {
		if err := h.Store.SaveTaxTable(ctx, t); err != nil {
			return fmt.Errorf("failed to save tax table %d/%s: %w", t.Year, t.FilingStatus, err)
		}
	}
	logger.FromContext(ctx).Info("Tax tables seeded", "count", len(tables))
	return nil
}
