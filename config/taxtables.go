package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
	"gopkg.in/yaml.v3"
)

//go:embed tax_tables.yaml
var defaultTaxTables []byte

var hundred = decimal.NewFromInt(100)

// =============================================================================
// YAML SHAPE
// =============================================================================

type taxTablesFile struct {
	TaxTables []TaxTableConfig `yaml:"tax_tables"`
}

// TaxTableConfig is the on-disk shape of one table (rates in percent).
type TaxTableConfig struct {
	Year         int             `yaml:"year"`
	FilingStatus string          `yaml:"filing_status"`
	Ordinary     []BracketConfig `yaml:"ordinary"`
	Qualified    []BracketConfig `yaml:"qualified"`
}

type BracketConfig struct {
	Min  float64 `yaml:"min"`
	Rate float64 `yaml:"rate"`
}

// ToEngine converts the YAML shape to an engine.TaxTable.
func (c TaxTableConfig) ToEngine() engine.TaxTable {
	return engine.TaxTable{
		Year:         c.Year,
		FilingStatus: engine.FilingStatus(c.FilingStatus),
		Ordinary:     toBrackets(c.Ordinary),
		Qualified:    toBrackets(c.Qualified),
	}
}

func toBrackets(in []BracketConfig) []engine.Bracket {
	out := make([]engine.Bracket, 0, len(in))
	for _, b := range in {
		out = append(out, engine.Bracket{
			Min:  decimal.NewFromFloat(b.Min),
			Rate: decimal.NewFromFloat(b.Rate).Div(hundred),
		})
	}
	return out
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultTaxTables returns the embedded tables.
func DefaultTaxTables() ([]engine.TaxTable, error) {
	return ParseTaxTables(defaultTaxTables)
}

// LoadTaxTables reads tables from path, or the embedded default when path is empty.
func LoadTaxTables(path string) ([]engine.TaxTable, error) {
	if path == "" {
		return DefaultTaxTables()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax tables: %w", err)
	}
	tables, err := ParseTaxTables(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// ParseTaxTables decodes and validates a tax table document. Tables are
// returned sorted by year, then filing status.
func ParseTaxTables(raw []byte) ([]engine.TaxTable, error) {
	var file taxTablesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tax tables: %w", err)
	}
	if len(file.TaxTables) == 0 {
		return nil, fmt.Errorf("no tax tables defined")
	}

	seen := make(map[string]bool)
	tables := make([]engine.TaxTable, 0, len(file.TaxTables))
	for _, tc := range file.TaxTables {
		key := fmt.Sprintf("%d/%s", tc.Year, tc.FilingStatus)
		if seen[key] {
			return nil, fmt.Errorf("duplicate tax table %s", key)
		}
		seen[key] = true

		if err := finiteBrackets(tc); err != nil {
			return nil, fmt.Errorf("tax table %s: %w", key, err)
		}
		table := tc.ToEngine()
		if err := validFilingStatus(table.FilingStatus); err != nil {
			return nil, err
		}
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("tax table %s: %w", key, err)
		}
		tables = append(tables, table)
	}

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Year != tables[j].Year {
			return tables[i].Year < tables[j].Year
		}
		return tables[i].FilingStatus < tables[j].FilingStatus
	})
	return tables, nil
}

func finiteBrackets(tc TaxTableConfig) error {
	for _, b := range append(append([]BracketConfig{}, tc.Ordinary...), tc.Qualified...) {
		for _, v := range []float64{b.Min, b.Rate} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("bracket values must be finite numbers, got %v", v)
			}
		}
	}
	return nil
}

func validFilingStatus(s engine.FilingStatus) error {
	switch s {
	case engine.FilingSingle, engine.FilingMarriedJointly, engine.FilingHeadOfHousehold:
		return nil
	default:
		return fmt.Errorf("unsupported filing status %q", s)
	}
}
