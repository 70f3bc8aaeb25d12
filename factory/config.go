/*
Package factory provides JSON and query-string to ProjectionConfig conversion.

PURPOSE:
  Converts calculator form submissions into engine.ProjectionConfig values.
  Forms, shared links and stored presets all speak the same flat document,
  so a scenario can be saved, linked and replayed without code changes.

JSON SCHEMA:
  {
    "initial_investment": 100000,
    "recurring_contribution": 500,
    "contribution_growth_rate": 3,
    "contribution_frequency": "monthly",
    "payment_frequency": "quarterly",
    "starting_yield": 4,
    "share_price": 100,
    "dividend_growth_rate": 6,
    "price_appreciation_rate": 7,
    "reinvest": true,
    "horizon_years": 10,
    "tax": {"dividend_class": "qualified", "qualified_rate": 15}
  }

UNITS:
  Every rate is in percent (4 means 4%). Money is in dollars.

DEFAULTS:
  - payment_frequency:      quarterly
  - contribution_frequency: monthly (engine default)
  - reinvest:               true
  - share_price:            100 (engine default)

USAGE:
  f := factory.NewConfigFactory()

  // From a JSON body
  cfg, err := f.ParseConfig(body)

  // From a shared link: /calculators/drip?initial_investment=10000&starting_yield=4&...
  cfg, err := f.FromValues(r.URL.Query())

  // Back to JSON for storage
  doc := f.ToJSON(cfg)

SEE ALSO:
  - engine/types.go: ProjectionConfig
  - store/sqlite: Stores ConfigJSON documents for presets
*/
package factory

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// DefaultPaymentFrequency applies when a document names no payment frequency.
const DefaultPaymentFrequency = engine.Quarterly

var hundred = decimal.NewFromInt(100)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of a projection config.
type ConfigJSON struct {
	InitialInvestment     float64  `json:"initial_investment" yaml:"initial_investment"`
	RecurringContribution float64  `json:"recurring_contribution,omitempty" yaml:"recurring_contribution,omitempty"`
	ContributionGrowth    float64  `json:"contribution_growth_rate,omitempty" yaml:"contribution_growth_rate,omitempty"` // percent per year
	ContributionFrequency string   `json:"contribution_frequency,omitempty" yaml:"contribution_frequency,omitempty"`
	PaymentFrequency      string   `json:"payment_frequency,omitempty" yaml:"payment_frequency,omitempty"`
	StartingYield         float64  `json:"starting_yield,omitempty" yaml:"starting_yield,omitempty"`   // percent
	AnnualDividend        float64  `json:"annual_dividend,omitempty" yaml:"annual_dividend,omitempty"` // per share, overrides starting_yield
	SharePrice            float64  `json:"share_price,omitempty" yaml:"share_price,omitempty"`
	DividendGrowthRate    float64  `json:"dividend_growth_rate" yaml:"dividend_growth_rate"`       // percent
	PriceAppreciationRate float64  `json:"price_appreciation_rate" yaml:"price_appreciation_rate"` // percent
	Reinvest              *bool    `json:"reinvest,omitempty" yaml:"reinvest,omitempty"`           // default true
	ReinvestAfterTax      bool     `json:"reinvest_after_tax,omitempty" yaml:"reinvest_after_tax,omitempty"`
	HorizonYears          int      `json:"horizon_years" yaml:"horizon_years"`
	ContributionAlignment string   `json:"contribution_alignment,omitempty" yaml:"contribution_alignment,omitempty"` // aligned, prorated
	StartDate             string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`                         // YYYY-MM-DD
	Tax                   *TaxJSON `json:"tax,omitempty" yaml:"tax,omitempty"`
}

// TaxJSON represents a tax profile. Rates are in percent.
type TaxJSON struct {
	DividendClass  string  `json:"dividend_class" yaml:"dividend_class"` // qualified, ordinary, mixed
	MarginalRate   float64 `json:"marginal_rate,omitempty" yaml:"marginal_rate,omitempty"`
	QualifiedRate  float64 `json:"qualified_rate,omitempty" yaml:"qualified_rate,omitempty"`
	QualifiedShare float64 `json:"qualified_share,omitempty" yaml:"qualified_share,omitempty"` // percent of income that is qualified, mixed only
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts documents to engine configs.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseConfig parses a JSON string into a validated, normalized config.
func (f *ConfigFactory) ParseConfig(jsonStr string) (engine.ProjectionConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return engine.ProjectionConfig{}, engine.NewInvalidInput("", "failed to parse config JSON: %v", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts ConfigJSON to a validated, normalized config.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (engine.ProjectionConfig, error) {
	if err := checkFinite(cj); err != nil {
		return engine.ProjectionConfig{}, err
	}

	cfg := engine.ProjectionConfig{
		InitialInvestment:      decimal.NewFromFloat(cj.InitialInvestment),
		RecurringContribution:  decimal.NewFromFloat(cj.RecurringContribution),
		ContributionGrowthRate: percent(cj.ContributionGrowth),
		ContributionFrequency:  engine.Frequency(cj.ContributionFrequency),
		PaymentFrequency:       engine.Frequency(cj.PaymentFrequency),
		StartingYield:          percent(cj.StartingYield),
		AnnualDividendPerShare: decimal.NewFromFloat(cj.AnnualDividend),
		InitialSharePrice:      decimal.NewFromFloat(cj.SharePrice),
		DividendGrowthRate:     percent(cj.DividendGrowthRate),
		PriceAppreciationRate:  percent(cj.PriceAppreciationRate),
		Reinvest:               true,
		ReinvestAfterTax:       cj.ReinvestAfterTax,
		HorizonYears:           cj.HorizonYears,
		ContributionAlignment:  engine.ContributionAlignment(cj.ContributionAlignment),
	}
	if cfg.PaymentFrequency == "" {
		cfg.PaymentFrequency = DefaultPaymentFrequency
	}
	if cj.Reinvest != nil {
		cfg.Reinvest = *cj.Reinvest
	}

	if cj.StartDate != "" {
		start, err := engine.ParseTimePoint(cj.StartDate)
		if err != nil {
			return engine.ProjectionConfig{}, engine.NewInvalidInput("start_date", "invalid start_date %q, expected YYYY-MM-DD", cj.StartDate)
		}
		cfg.StartDate = start
	}

	if cj.Tax != nil {
		cfg.TaxProfile = &engine.TaxProfile{
			DividendClass:  engine.DividendClass(cj.Tax.DividendClass),
			MarginalRate:   percent(cj.Tax.MarginalRate),
			QualifiedRate:  percent(cj.Tax.QualifiedRate),
			QualifiedShare: percent(cj.Tax.QualifiedShare),
		}
	}

	return cfg.Normalize()
}

// ToJSON converts a config back to its document form.
func (f *ConfigFactory) ToJSON(cfg engine.ProjectionConfig) ConfigJSON {
	reinvest := cfg.Reinvest
	cj := ConfigJSON{
		InitialInvestment:     toFloat(cfg.InitialInvestment),
		RecurringContribution: toFloat(cfg.RecurringContribution),
		ContributionGrowth:    toPercent(cfg.ContributionGrowthRate),
		ContributionFrequency: string(cfg.ContributionFrequency),
		PaymentFrequency:      string(cfg.PaymentFrequency),
		StartingYield:         toPercent(cfg.StartingYield),
		AnnualDividend:        toFloat(cfg.AnnualDividendPerShare),
		SharePrice:            toFloat(cfg.InitialSharePrice),
		DividendGrowthRate:    toPercent(cfg.DividendGrowthRate),
		PriceAppreciationRate: toPercent(cfg.PriceAppreciationRate),
		Reinvest:              &reinvest,
		ReinvestAfterTax:      cfg.ReinvestAfterTax,
		HorizonYears:          cfg.HorizonYears,
		ContributionAlignment: string(cfg.ContributionAlignment),
	}
	if !cfg.StartDate.IsZero() {
		cj.StartDate = cfg.StartDate.String()
	}
	if cfg.TaxProfile != nil {
		cj.Tax = &TaxJSON{
			DividendClass:  string(cfg.TaxProfile.DividendClass),
			MarginalRate:   toPercent(cfg.TaxProfile.MarginalRate),
			QualifiedRate:  toPercent(cfg.TaxProfile.QualifiedRate),
			QualifiedShare: toPercent(cfg.TaxProfile.QualifiedShare),
		}
	}
	return cj
}

// =============================================================================
// QUERY STRINGS
// =============================================================================

// FromValues reads a config from URL query or form values. Keys are the JSON
// field names; tax fields are flattened as tax_class, marginal_rate,
// qualified_rate and qualified_share.
func (f *ConfigFactory) FromValues(values url.Values) (engine.ProjectionConfig, error) {
	var (
		cj  ConfigJSON
		err error
	)
	floats := []struct {
		key string
		dst *float64
	}{
		{"initial_investment", &cj.InitialInvestment},
		{"recurring_contribution", &cj.RecurringContribution},
		{"contribution_growth_rate", &cj.ContributionGrowth},
		{"starting_yield", &cj.StartingYield},
		{"annual_dividend", &cj.AnnualDividend},
		{"share_price", &cj.SharePrice},
		{"dividend_growth_rate", &cj.DividendGrowthRate},
		{"price_appreciation_rate", &cj.PriceAppreciationRate},
	}
	for _, fl := range floats {
		if *fl.dst, err = floatValue(values, fl.key); err != nil {
			return engine.ProjectionConfig{}, err
		}
	}

	if cj.HorizonYears, err = intValue(values, "horizon_years"); err != nil {
		return engine.ProjectionConfig{}, err
	}
	if values.Has("reinvest") {
		reinvest, err := boolValue(values, "reinvest")
		if err != nil {
			return engine.ProjectionConfig{}, err
		}
		cj.Reinvest = &reinvest
	}
	if cj.ReinvestAfterTax, err = boolValue(values, "reinvest_after_tax"); err != nil {
		return engine.ProjectionConfig{}, err
	}

	cj.ContributionFrequency = values.Get("contribution_frequency")
	cj.PaymentFrequency = values.Get("payment_frequency")
	cj.ContributionAlignment = values.Get("contribution_alignment")
	cj.StartDate = values.Get("start_date")

	if class := values.Get("tax_class"); class != "" {
		cj.Tax = &TaxJSON{DividendClass: class}
		for _, fl := range []struct {
			key string
			dst *float64
		}{
			{"marginal_rate", &cj.Tax.MarginalRate},
			{"qualified_rate", &cj.Tax.QualifiedRate},
			{"qualified_share", &cj.Tax.QualifiedShare},
		} {
			if *fl.dst, err = floatValue(values, fl.key); err != nil {
				return engine.ProjectionConfig{}, err
			}
		}
	}

	return f.FromJSON(cj)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Div(hundred)
}

func toPercent(d decimal.Decimal) float64 {
	return toFloat(d.Mul(hundred))
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func floatValue(values url.Values, key string) (float64, error) {
	s := values.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, engine.NewInvalidInput(key, "%s must be a number, got %q", key, s)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkFinite rejects NaN and infinities, which YAML (.nan, .inf) can
// produce and decimal cannot represent.
func checkFinite(cj ConfigJSON) error {
	fields := []struct {
		key string
		v   float64
	}{
		{"initial_investment", cj.InitialInvestment},
		{"recurring_contribution", cj.RecurringContribution},
		{"contribution_growth_rate", cj.ContributionGrowth},
		{"starting_yield", cj.StartingYield},
		{"annual_dividend", cj.AnnualDividend},
		{"share_price", cj.SharePrice},
		{"dividend_growth_rate", cj.DividendGrowthRate},
		{"price_appreciation_rate", cj.PriceAppreciationRate},
	}
	if cj.Tax != nil {
		fields = append(fields, []struct {
			key string
			v   float64
		}{
			{"tax.marginal_rate", cj.Tax.MarginalRate},
			{"tax.qualified_rate", cj.Tax.QualifiedRate},
			{"tax.qualified_share", cj.Tax.QualifiedShare},
		}...)
	}
	for _, fl := range fields {
		if !isFinite(fl.v) {
			return engine.NewInvalidInput(fl.key, "%s must be a finite number", fl.key)
		}
	}
	return nil
}

func intValue(values url.Values, key string) (int, error) {
	s := values.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, engine.NewInvalidInput(key, "%s must be a whole number, got %q", key, s)
	}
	return v, nil
}

func boolValue(values url.Values, key string) (bool, error) {
	s := values.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, engine.NewInvalidInput(key, "%s must be true or false, got %q", key, s)
	}
	return v, nil
}
