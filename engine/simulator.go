/*
simulator.go - Period-by-period portfolio simulation

PURPOSE:
  Walks the payment schedule and compounds share price, dividend per share
  and share count under the configured reinvestment policy.

ALGORITHM (per period, in order):
  1. Grow price and dividend per share from the previous period using the
     geometric per-period factor (schedule.go).
  2. cashDividend = sharesHeld * dividendPerShare
  3. Reinvest: cash / price buys shares. Otherwise the cash is added to
     DistributedCash and never compounds.
  4. Contribution for the period (contribution.go) / price buys shares.
  5. sharesAfter = sharesHeld + dividend shares + contribution shares
  6. portfolioValue = sharesAfter * price

  Period 0 is the seed: InitialInvestment buys InitialInvestment/price
  shares at InitialSharePrice, and the annual dividend per share is
  StartingYield * InitialSharePrice.

GUARANTEES:
  - The config is validated before the first period; the result is either
    the full series or an error and no series.
  - SharesAfter never decreases: no sales are modeled.

SEE ALSO:
  - summary.go: Reduces the series to yearly figures
  - lots.go: Cost basis reconstructed from the series
*/
package engine

import "github.com/shopspring/decimal"

// Simulate validates cfg and returns its full period series.
func Simulate(cfg ProjectionConfig) ([]PeriodState, error) {
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	schedule, err := BuildScheduleFrom(normalized.StartDate, normalized.HorizonYears, normalized.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return simulate(normalized, schedule), nil
}

// simulate runs an already normalized config over its schedule.
func simulate(cfg ProjectionConfig, schedule []Period) []PeriodState {
	ppy, _ := cfg.PaymentFrequency.PeriodsPerYear()
	periodsPerYear := decimal.NewFromInt(int64(ppy))

	priceFactor := periodFactor(cfg.PriceAppreciationRate, ppy)
	dividendFactor := periodFactor(cfg.DividendGrowthRate, ppy)
	contributions := NewContributionPolicy(cfg)

	reinvestShare := one
	if cfg.ReinvestAfterTax && cfg.TaxProfile != nil {
		reinvestShare = one.Sub(cfg.TaxProfile.EffectiveRate())
	}

	price := cfg.InitialSharePrice
	annualDPS := mul(cfg.StartingYield, price)
	shares := sharesFor(cfg.InitialInvestment, price)

	var (
		totalContributed    = cfg.InitialInvestment
		cumulativeDividends = decimal.Zero
		distributed         = decimal.Zero
	)

	states := make([]PeriodState, 0, len(schedule))
	for _, p := range schedule {
		// 1. Growth
		price = mul(price, priceFactor)
		annualDPS = mul(annualDPS, dividendFactor)
		dps := div(annualDPS, periodsPerYear)

		// 2. Dividend on shares held entering the period
		sharesHeld := shares
		cash := mul(sharesHeld, dps)
		cumulativeDividends = cumulativeDividends.Add(cash)

		// 3. Reinvestment
		reinvested := decimal.Zero
		fromDividend := decimal.Zero
		if cfg.Reinvest {
			reinvested = mul(cash, reinvestShare)
			fromDividend = sharesFor(reinvested, price)
		} else {
			distributed = distributed.Add(cash)
		}

		// 4. Contribution
		contribution := contributions.ContributionFor(p.Index)
		fromContribution := sharesFor(contribution, price)
		totalContributed = totalContributed.Add(contribution)

		// 5-6. Position
		shares = sharesHeld.Add(fromDividend).Add(fromContribution)

		states = append(states, PeriodState{
			PeriodIndex:  p.Index,
			Year:         p.Year,
			PeriodInYear: p.PeriodInYear,
			Date:         p.End,

			SharePrice:             price,
			AnnualDividendPerShare: annualDPS,
			DividendPerShare:       dps,

			SharesHeld:   sharesHeld,
			CashDividend: cash,

			ReinvestedCash:              reinvested,
			SharesPurchasedFromDividend: fromDividend,

			Contribution:                    contribution,
			SharesPurchasedFromContribution: fromContribution,

			SharesAfter:    shares,
			PortfolioValue: mul(shares, price),

			TotalContributed:    totalContributed,
			CumulativeDividends: cumulativeDividends,
			DistributedCash:     distributed,
		})
	}
	return states
}

// sharesFor converts cash into shares at price. Normalize keeps the price at
// or above MinSharePrice for the whole horizon; a zero price panics instead
// of silently buying nothing.
func sharesFor(cash, price decimal.Decimal) decimal.Decimal {
	return cash.DivRound(price, workingPlaces)
}

// priceAtHorizon replays the rounded price path of simulate and returns the
// last price, or the first one below MinSharePrice.
func priceAtHorizon(cfg ProjectionConfig) decimal.Decimal {
	ppy, _ := cfg.PaymentFrequency.PeriodsPerYear()
	factor := periodFactor(cfg.PriceAppreciationRate, ppy)
	price := cfg.InitialSharePrice
	for i := 0; i < cfg.HorizonYears*ppy && !price.LessThan(MinSharePrice); i++ {
		price = mul(price, factor)
	}
	return price
}
