package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// YIELD ON COST CALCULATOR
// =============================================================================

// YieldOnCostInput describes a position bought in the past.
type YieldOnCostInput struct {
	Shares          decimal.Decimal
	PurchasePrice   decimal.Decimal
	CurrentPrice    decimal.Decimal
	InitialDividend decimal.Decimal // annual dividend per share at purchase
	CurrentDividend decimal.Decimal // annual dividend per share today
	YearsHeld       int
}

// YieldOnCostRow is one year of the implied dividend path.
type YieldOnCostRow struct {
	Year             int
	DividendPerShare decimal.Decimal
	YieldOnCost      decimal.Decimal
}

type YieldOnCostResult struct {
	InitialInvestment decimal.Decimal
	CurrentValue      decimal.Decimal
	AnnualIncome      decimal.Decimal

	YieldOnCost  decimal.Decimal // current dividend / purchase price
	CurrentYield decimal.Decimal // current dividend / current price
	InitialYield decimal.Decimal // initial dividend / purchase price

	ImpliedDividendGrowth decimal.Decimal // CAGR from initial to current dividend
	ImpliedPriceGrowth    decimal.Decimal
	TotalReturn           decimal.Decimal // price return only, as a fraction

	Rows []YieldOnCostRow
}

// YieldOnCost reconstructs the dividend path between purchase and today.
// The headline ratios come straight from the inputs; the yearly path comes
// from an engine replay of the holding at the implied growth rates.
func YieldOnCost(in YieldOnCostInput) (*YieldOnCostResult, error) {
	switch {
	case !in.Shares.IsPositive():
		return nil, engine.NewInvalidInput("shares", "shares must be greater than 0")
	case !in.PurchasePrice.IsPositive():
		return nil, engine.NewInvalidInput("purchase_price", "purchase price must be greater than 0")
	case !in.CurrentPrice.IsPositive():
		return nil, engine.NewInvalidInput("current_price", "current price must be greater than 0")
	case !in.InitialDividend.IsPositive():
		return nil, engine.NewInvalidInput("initial_dividend", "initial dividend must be greater than 0")
	case in.CurrentDividend.IsNegative():
		return nil, engine.NewInvalidInput("current_dividend", "current dividend cannot be negative")
	case in.YearsHeld <= 0:
		return nil, engine.NewInvalidInput("years_held", "years held must be at least 1")
	}

	years := float64(in.YearsHeld)
	result := &YieldOnCostResult{
		InitialInvestment:     in.Shares.Mul(in.PurchasePrice),
		CurrentValue:          in.Shares.Mul(in.CurrentPrice),
		AnnualIncome:          in.Shares.Mul(in.CurrentDividend),
		YieldOnCost:           ratio(in.CurrentDividend, in.PurchasePrice),
		CurrentYield:          ratio(in.CurrentDividend, in.CurrentPrice),
		InitialYield:          ratio(in.InitialDividend, in.PurchasePrice),
		ImpliedDividendGrowth: cagr(in.InitialDividend, in.CurrentDividend, years),
		ImpliedPriceGrowth:    cagr(in.PurchasePrice, in.CurrentPrice, years),
	}
	result.TotalReturn = ratio(result.CurrentValue.Sub(result.InitialInvestment), result.InitialInvestment)

	p, err := engine.Project(engine.ProjectionConfig{
		InitialInvestment:      result.InitialInvestment,
		InitialSharePrice:      in.PurchasePrice,
		AnnualDividendPerShare: in.InitialDividend,
		DividendGrowthRate:     result.ImpliedDividendGrowth,
		PriceAppreciationRate:  result.ImpliedPriceGrowth,
		PaymentFrequency:       engine.Annual,
		HorizonYears:           in.YearsHeld,
	})
	if err != nil {
		return nil, err
	}
	for _, y := range p.Summary.Years {
		result.Rows = append(result.Rows, YieldOnCostRow{
			Year:             y.Year,
			DividendPerShare: y.AnnualDividendPerShare,
			YieldOnCost:      y.YieldOnCost,
		})
	}
	return result, nil
}
