/*
Package calculators adapts calculator page inputs onto the projection engine.

PURPOSE:
  Each calculator page asks a slightly different question (how much will I
  earn, what is my yield on cost, how much must I save). Every page that
  simulates time maps its inputs onto one engine.ProjectionConfig and reads
  its figures back from the engine, so two pages given the same portfolio
  always agree.

AVAILABLE CALCULATORS:
  Drip:              Full DRIP projection, with and without reinvestment
  DividendGrowth:    Dividend per share and income path for a fixed holding
  YieldOnCost:       Yield on cost, implied dividend growth, dividend path
  RetirementIncome:  Portfolio needed for a target income and the savings gap
  CompoundInterest:  Balance growth at a nominal rate with n compoundings a year
  IRA:               Traditional vs Roth balances and after-tax values
  FourOhOneK:        401(k) balance with salary growth and employer match
  Savings:           Savings goal timeline and required monthly deposit
  InvestmentReturn:  Total return and CAGR between two values

ERRORS:
  Bad page input is reported as *engine.InvalidConfigError, either produced
  here (reason INVALID_INPUT) or by the engine's own validation.

SEE ALSO:
  - presets.go: Named DRIP scenarios
  - engine/engine.go: Project
*/
package calculators

import (
	"math"

	"github.com/shopspring/decimal"
)

// places bounds the scale of derived ratios.
const places = 12

var (
	one       = decimal.NewFromInt(1)
	twelve    = decimal.NewFromInt(12)
	threshold = decimal.RequireFromString("0.03")
)

func ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, places)
}

// pow raises base to a real exponent. decimal only supports integer powers.
func pow(base decimal.Decimal, exp float64) decimal.Decimal {
	f, _ := base.Float64()
	return decimal.NewFromFloat(math.Pow(f, exp)).Round(places)
}

// cagr returns (end/start)^(1/years) - 1, or zero when undefined.
func cagr(start, end decimal.Decimal, years float64) decimal.Decimal {
	if !start.IsPositive() || end.IsNegative() || years <= 0 {
		return decimal.Zero
	}
	return pow(ratio(end, start), 1/years).Sub(one)
}
