package config

import (
	"fmt"
	"os"

	"github.com/warp/dividend-engine/engine"
	"github.com/warp/dividend-engine/factory"
	"gopkg.in/yaml.v3"
)

// LoadScenario reads a projection scenario from a YAML file. The document
// uses the same keys and units as the JSON API, e.g.
//
//	initial_investment: 100000
//	starting_yield: 4
//	dividend_growth_rate: 6
//	price_appreciation_rate: 7
//	payment_frequency: annual
//	horizon_years: 10
func LoadScenario(path string) (engine.ProjectionConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.ProjectionConfig{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(raw []byte) (engine.ProjectionConfig, error) {
	var doc factory.ConfigJSON
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return engine.ProjectionConfig{}, engine.NewInvalidInput("", "failed to parse scenario: %v", err)
	}
	return factory.NewConfigFactory().FromJSON(doc)
}
