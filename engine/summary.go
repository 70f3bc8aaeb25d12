/*
summary.go - Income & tax summarizer

PURPOSE:
  Reduces a simulated period series to the figures rendered in cards and
  tables: income per year, yield on cost, after-tax income, totals.

DEFINITIONS:
  Annual income (year Y)   sum of CashDividend over the periods of year Y
  Yield on cost            latest annual dividend per share divided by the
                           weighted-average cost per share of every lot bought
                           so far (initial, contributions, reinvested dividends,
                           each at its own purchase price)
  Initial lot income       income earned by the shares of the initial purchase
                           alone; the "what my original stake pays today" figure
  Total return             value + distributed cash - total contributed
  Annualized return        CAGR of (value + distributed cash) over total contributed

SEE ALSO:
  - lots.go: Cost basis reconstruction
  - tax.go: After-tax conversion
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// AnnualIncome returns the sum of cash dividends paid during projection year.
func AnnualIncome(states []PeriodState, year int) decimal.Decimal {
	total := decimal.Zero
	for _, s := range states {
		if s.Year == year {
			total = total.Add(s.CashDividend)
		}
	}
	return total
}

// IncomeAtYears returns AnnualIncome for each requested year mark. Marks
// outside the simulated horizon are omitted.
func IncomeAtYears(states []PeriodState, years ...int) map[int]decimal.Decimal {
	horizon := 0
	if len(states) > 0 {
		horizon = states[len(states)-1].Year
	}
	out := make(map[int]decimal.Decimal, len(years))
	for _, y := range years {
		if y >= 1 && y <= horizon {
			out[y] = AnnualIncome(states, y)
		}
	}
	return out
}

// Summarize reduces a period series produced from cfg. It validates cfg the
// same way Simulate does.
func Summarize(cfg ProjectionConfig, states []PeriodState) (ProjectionSummary, error) {
	normalized, err := cfg.Normalize()
	if err != nil {
		return ProjectionSummary{}, err
	}
	return summarize(normalized, states), nil
}

func summarize(cfg ProjectionConfig, states []PeriodState) ProjectionSummary {
	summary := ProjectionSummary{HorizonYears: cfg.HorizonYears}
	if len(states) == 0 {
		return summary
	}

	lots := LotsFromStates(cfg, states)
	initialShares := div(cfg.InitialInvestment, cfg.InitialSharePrice)

	var (
		basis   CostBasis
		nextLot int
		year    *YearSummary
	)

	flush := func(last PeriodState) {
		year.SharePrice = last.SharePrice
		year.AnnualDividendPerShare = last.AnnualDividendPerShare
		year.SharesHeld = last.SharesAfter
		year.PortfolioValue = last.PortfolioValue
		year.TotalContributed = last.TotalContributed
		year.CumulativeDividends = last.CumulativeDividends
		year.DistributedCash = last.DistributedCash

		year.MonthlyIncome = div(year.Income, monthsPerYear)
		if cfg.TaxProfile != nil {
			year.AfterTaxIncome = decimal.NewNullDecimal(cfg.TaxProfile.AfterTax(year.Income))
		}
		year.CurrentYield = div(last.AnnualDividendPerShare, last.SharePrice)
		year.YieldOnCost = div(last.AnnualDividendPerShare, basis.AverageCost())

		year.TotalReturn = last.PortfolioValue.Add(last.DistributedCash).Sub(last.TotalContributed)
		year.TotalReturnPercent = mul(div(year.TotalReturn, last.TotalContributed), hundred)

		summary.Years = append(summary.Years, *year)
	}

	for i, s := range states {
		for nextLot < len(lots) && lots[nextLot].PeriodIndex <= s.PeriodIndex {
			basis.Add(lots[nextLot])
			nextLot++
		}
		if year == nil || year.Year != s.Year {
			year = &YearSummary{Year: s.Year}
		}
		year.Income = year.Income.Add(s.CashDividend)
		year.InitialLotIncome = year.InitialLotIncome.Add(mul(initialShares, s.DividendPerShare))

		if i == len(states)-1 || states[i+1].Year != s.Year {
			flush(s)
		}
	}

	last := states[len(states)-1]
	final := summary.Years[len(summary.Years)-1]

	summary.EndingPortfolioValue = last.PortfolioValue
	summary.FinalShares = last.SharesAfter
	summary.AnnualIncome = final.Income
	summary.MonthlyIncome = final.MonthlyIncome
	summary.AfterTaxAnnualIncome = final.AfterTaxIncome

	summary.AverageCostPerShare = basis.AverageCost()
	summary.YieldOnCost = final.YieldOnCost

	summary.TotalContributed = last.TotalContributed
	summary.TotalDividends = last.CumulativeDividends
	summary.DistributedCash = last.DistributedCash
	summary.TotalReturn = final.TotalReturn
	summary.TotalReturnPercent = final.TotalReturnPercent
	summary.AnnualizedReturn = AnnualizedReturn(last.TotalContributed, last.PortfolioValue.Add(last.DistributedCash), cfg.HorizonYears)
	return summary
}

// AnnualizedReturn is the compound annual growth rate from start to end over
// years, as a fraction. It is zero when start is not positive or years is not.
func AnnualizedReturn(start, end decimal.Decimal, years int) decimal.Decimal {
	if !start.IsPositive() || years <= 0 || end.IsNegative() {
		return decimal.Zero
	}
	ratio, _ := div(end, start).Float64()
	return decimal.NewFromFloat(math.Pow(ratio, 1/float64(years)) - 1).Round(workingPlaces)
}
