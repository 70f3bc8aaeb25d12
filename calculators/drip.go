package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// DRIP CALCULATOR
// =============================================================================

// MilestoneYears are the horizons quoted in the income milestone cards.
var MilestoneYears = []int{5, 10, 15, 20, 25, 30}

// DripResult is everything the DRIP page renders.
type DripResult struct {
	Projection *engine.Projection

	// WithoutReinvestment is the same portfolio with every dividend paid out.
	WithoutReinvestment engine.ProjectionSummary

	// Milestones maps a year mark to annual income in that year. Marks beyond
	// the horizon are absent.
	Milestones map[int]decimal.Decimal

	// ReinvestmentAdvantage is ending value with reinvestment minus ending
	// value plus distributed cash without it.
	ReinvestmentAdvantage decimal.Decimal
}

// Drip runs cfg as given and once more with reinvestment switched off.
func Drip(cfg engine.ProjectionConfig) (*DripResult, error) {
	p, err := engine.Project(cfg)
	if err != nil {
		return nil, err
	}

	paidOut := p.Config
	paidOut.Reinvest = false
	baseline, err := engine.Project(paidOut)
	if err != nil {
		return nil, err
	}

	withDrip := p.Summary.EndingPortfolioValue.Add(p.Summary.DistributedCash)
	withoutDrip := baseline.Summary.EndingPortfolioValue.Add(baseline.Summary.DistributedCash)

	return &DripResult{
		Projection:            p,
		WithoutReinvestment:   baseline.Summary,
		Milestones:            engine.IncomeAtYears(p.Periods, MilestoneYears...),
		ReinvestmentAdvantage: withDrip.Sub(withoutDrip),
	}, nil
}
