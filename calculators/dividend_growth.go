package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// DIVIDEND GROWTH CALCULATOR
// =============================================================================

// DividendGrowthInput describes a fixed holding whose dividend grows.
type DividendGrowthInput struct {
	Shares          decimal.Decimal
	CurrentDividend decimal.Decimal // annual dividend per share today
	GrowthRate      decimal.Decimal
	Years           int

	// SharePrice only sizes the position handed to the engine. Zero means
	// engine.DefaultSharePrice.
	SharePrice decimal.Decimal
}

// DividendGrowthRow is one year of the dividend path. Year 0 is today.
type DividendGrowthRow struct {
	Year             int
	DividendPerShare decimal.Decimal
	Income           decimal.Decimal
}

type DividendGrowthResult struct {
	Rows          []DividendGrowthRow
	FinalDividend decimal.Decimal
	FinalIncome   decimal.Decimal
	TotalReceived decimal.Decimal // sum of Income over every row, year 0 included
}

// DividendGrowth projects the dividend of a holding that is neither added to
// nor reinvested.
func DividendGrowth(in DividendGrowthInput) (*DividendGrowthResult, error) {
	if !in.Shares.IsPositive() {
		return nil, engine.NewInvalidInput("shares", "shares must be greater than 0")
	}
	if !in.CurrentDividend.IsPositive() {
		return nil, engine.NewInvalidInput("current_dividend", "current dividend must be greater than 0")
	}

	price := in.SharePrice
	if price.IsZero() {
		price = engine.DefaultSharePrice
	}

	p, err := engine.Project(engine.ProjectionConfig{
		InitialInvestment:      in.Shares.Mul(price),
		InitialSharePrice:      price,
		AnnualDividendPerShare: in.CurrentDividend,
		DividendGrowthRate:     in.GrowthRate,
		PaymentFrequency:       engine.Annual,
		HorizonYears:           in.Years,
	})
	if err != nil {
		return nil, err
	}

	result := &DividendGrowthResult{}
	add := func(year int, dps decimal.Decimal) {
		row := DividendGrowthRow{Year: year, DividendPerShare: dps, Income: in.Shares.Mul(dps)}
		result.Rows = append(result.Rows, row)
		result.TotalReceived = result.TotalReceived.Add(row.Income)
	}

	add(0, in.CurrentDividend)
	for _, y := range p.Summary.Years {
		add(y.Year, y.AnnualDividendPerShare)
	}

	last := result.Rows[len(result.Rows)-1]
	result.FinalDividend = last.DividendPerShare
	result.FinalIncome = last.Income
	return result, nil
}
