/*
Package engine provides the dividend reinvestment and income projection engine.

PURPOSE:
  Every calculator page (DRIP, dividend growth, yield on cost, retirement
  income, IRA, compound interest) renders figures from this one model, so
  numbers quoted across articles stay consistent with each other.

KEY CONCEPTS IN THIS FILE (types.go):
  - Frequency: how often dividends are paid or contributions are made
  - ProjectionConfig: the immutable input of a projection
  - PeriodState: one row of the simulated time series
  - ProjectionSummary / YearSummary: the reduced figures shown in cards and tables

DESIGN PRINCIPLES:
  1. Purity: no I/O, no globals, no wall-clock. Same config, same output.
  2. Precision: money, shares and rates are decimal.Decimal
  3. Fail fast: a config is validated completely before the first period runs

PIPELINE:
  ProjectionConfig
      -> BuildSchedule   (schedule.go)
      -> Simulate        (simulator.go)
      -> Summarize       (summary.go)

USAGE:
  p, err := engine.Project(engine.ProjectionConfig{
      InitialInvestment:     decimal.NewFromInt(100000),
      StartingYield:         decimal.RequireFromString("0.04"),
      DividendGrowthRate:    decimal.RequireFromString("0.06"),
      PriceAppreciationRate: decimal.RequireFromString("0.07"),
      PaymentFrequency:      engine.Annual,
      Reinvest:              true,
      HorizonYears:          10,
  })

SEE ALSO:
  - errors.go: InvalidConfigError and reason codes
  - validate.go: defaults and fail-fast validation
  - tax.go: tax profiles and bracket tables
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// FREQUENCY
// =============================================================================

type Frequency string

const (
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Annual     Frequency = "annual"
)

// PeriodsPerYear returns how many periods of this frequency fit in a year.
// The boolean is false for unrecognized frequencies.
func (f Frequency) PeriodsPerYear() (int, bool) {
	switch f {
	case Monthly:
		return 12, true
	case Quarterly:
		return 4, true
	case Semiannual:
		return 2, true
	case Annual:
		return 1, true
	default:
		return 0, false
	}
}

// MonthsPerPeriod returns the length of one period in months (0 if unrecognized).
func (f Frequency) MonthsPerPeriod() int {
	n, ok := f.PeriodsPerYear()
	if !ok {
		return 0
	}
	return 12 / n
}

func (f Frequency) Valid() bool {
	_, ok := f.PeriodsPerYear()
	return ok
}

// Frequencies lists the supported frequencies, most frequent first.
func Frequencies() []Frequency {
	return []Frequency{Monthly, Quarterly, Semiannual, Annual}
}

// =============================================================================
// CONTRIBUTION ALIGNMENT
// =============================================================================

// ContributionAlignment decides how contributions made on one cadence land on
// the periods of the payment cadence.
type ContributionAlignment string

const (
	// AlignToPeriod invests every contribution event at the end of the payment
	// period it falls in. Monthly contributions with quarterly payments are
	// invested three at a time at each quarter end.
	AlignToPeriod ContributionAlignment = "aligned"

	// ProrateAcrossPeriods spreads the yearly contribution evenly over every
	// payment period.
	ProrateAcrossPeriods ContributionAlignment = "prorated"
)

// =============================================================================
// PROJECTION CONFIG - Input
// =============================================================================

// ProjectionConfig is the input of a projection. Rates are fractions (0.04 = 4%).
type ProjectionConfig struct {
	InitialInvestment     decimal.Decimal
	RecurringContribution decimal.Decimal
	ContributionFrequency Frequency
	PaymentFrequency      Frequency

	// ContributionGrowthRate raises RecurringContribution once a year:
	// year y contributes RecurringContribution*(1+g)^(y-1).
	ContributionGrowthRate decimal.Decimal

	// StartingYield is annual dividend income as a fraction of share value at period 0.
	StartingYield decimal.Decimal

	// AnnualDividendPerShare, when non-zero, replaces StartingYield:
	// the yield is derived as AnnualDividendPerShare / InitialSharePrice.
	AnnualDividendPerShare decimal.Decimal

	// InitialSharePrice only scales share counts. Zero means DefaultSharePrice.
	InitialSharePrice decimal.Decimal

	DividendGrowthRate    decimal.Decimal
	PriceAppreciationRate decimal.Decimal

	Reinvest bool

	// ReinvestAfterTax reinvests only the after-tax part of each dividend.
	// Ignored without a TaxProfile.
	ReinvestAfterTax bool

	HorizonYears int

	ContributionAlignment ContributionAlignment

	// StartDate anchors the logical period dates. Zero means DefaultStartDate.
	StartDate TimePoint

	TaxProfile *TaxProfile
}

// =============================================================================
// PERIOD STATE - One row of the simulation
// =============================================================================

// PeriodState is the portfolio state for one payment period.
// Values are produced once by Simulate and never modified afterwards.
type PeriodState struct {
	PeriodIndex  int // 1-based across the whole horizon
	Year         int // 1-based projection year
	PeriodInYear int // 1-based within the year
	Date         TimePoint

	SharePrice             decimal.Decimal
	AnnualDividendPerShare decimal.Decimal
	DividendPerShare       decimal.Decimal // paid this period

	SharesHeld   decimal.Decimal // entering the period
	CashDividend decimal.Decimal

	ReinvestedCash              decimal.Decimal
	SharesPurchasedFromDividend decimal.Decimal

	Contribution                    decimal.Decimal
	SharesPurchasedFromContribution decimal.Decimal

	SharesAfter    decimal.Decimal
	PortfolioValue decimal.Decimal

	// Running totals
	TotalContributed    decimal.Decimal // includes the initial investment
	CumulativeDividends decimal.Decimal
	DistributedCash     decimal.Decimal // dividends not reinvested, never compounded
}

// =============================================================================
// SUMMARY - Reduced output
// =============================================================================

// YearSummary holds the table row for one projection year.
type YearSummary struct {
	Year int

	Income           decimal.Decimal // sum of cash dividends paid in the year
	MonthlyIncome    decimal.Decimal
	AfterTaxIncome   decimal.NullDecimal
	InitialLotIncome decimal.Decimal // income earned by the shares bought with the initial investment

	SharePrice             decimal.Decimal
	AnnualDividendPerShare decimal.Decimal
	SharesHeld             decimal.Decimal
	PortfolioValue         decimal.Decimal

	CurrentYield decimal.Decimal
	YieldOnCost  decimal.Decimal

	TotalContributed    decimal.Decimal
	CumulativeDividends decimal.Decimal
	DistributedCash     decimal.Decimal
	TotalReturn         decimal.Decimal
	TotalReturnPercent  decimal.Decimal
}

// ProjectionSummary holds the headline figures of a projection.
type ProjectionSummary struct {
	HorizonYears int
	Years        []YearSummary

	EndingPortfolioValue decimal.Decimal
	FinalShares          decimal.Decimal
	AnnualIncome         decimal.Decimal // income in the final year
	MonthlyIncome        decimal.Decimal
	AfterTaxAnnualIncome decimal.NullDecimal

	AverageCostPerShare decimal.Decimal
	YieldOnCost         decimal.Decimal

	TotalContributed   decimal.Decimal
	TotalDividends     decimal.Decimal
	DistributedCash    decimal.Decimal
	TotalReturn        decimal.Decimal
	TotalReturnPercent decimal.Decimal
	AnnualizedReturn   decimal.Decimal
}

// IncomeAt returns the income of the given projection year, if it is in range.
func (s ProjectionSummary) IncomeAt(year int) (decimal.Decimal, bool) {
	if year < 1 || year > len(s.Years) {
		return decimal.Zero, false
	}
	return s.Years[year-1].Income, true
}

// Projection bundles the normalized config, the full period series and its summary.
type Projection struct {
	Config  ProjectionConfig
	Periods []PeriodState
	Summary ProjectionSummary
}
