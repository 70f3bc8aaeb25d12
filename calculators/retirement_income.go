package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// RETIREMENT INCOME CALCULATOR
// =============================================================================

// DefaultExpectedReturn is used when no expected return is given.
var DefaultExpectedReturn = decimal.RequireFromString("0.07")

type RetirementIncomeInput struct {
	PortfolioValue    decimal.Decimal
	TargetIncome      decimal.Decimal // annual
	DividendYield     decimal.Decimal
	YearsToRetirement int

	// ExpectedReturn compounds the monthly savings. Nil means DefaultExpectedReturn.
	ExpectedReturn *decimal.Decimal
}

type RetirementIncomeResult struct {
	RequiredPortfolio decimal.Decimal // TargetIncome / DividendYield
	CurrentIncome     decimal.Decimal // PortfolioValue * DividendYield
	MonthlyIncome     decimal.Decimal // monthly income once RequiredPortfolio is reached

	// Gap is RequiredPortfolio - PortfolioValue. Negative means the target is
	// already met.
	Gap     decimal.Decimal
	OnTrack bool

	// RequiredMonthlyContribution is the end-of-month saving that grows to Gap
	// by retirement.
	RequiredMonthlyContribution decimal.Decimal
}

// RetirementIncome sizes the portfolio that pays TargetIncome at the given
// yield and the monthly saving needed to close the gap.
func RetirementIncome(in RetirementIncomeInput) (*RetirementIncomeResult, error) {
	switch {
	case in.PortfolioValue.IsNegative():
		return nil, engine.NewInvalidInput("portfolio_value", "portfolio value cannot be negative")
	case in.TargetIncome.IsNegative():
		return nil, engine.NewInvalidInput("target_income", "target income cannot be negative")
	case !in.DividendYield.IsPositive():
		return nil, engine.NewInvalidInput("dividend_yield", "dividend yield must be greater than 0")
	case in.YearsToRetirement <= 0:
		return nil, engine.NewInvalidInput("years_to_retirement", "years to retirement must be at least 1")
	}
	expected := DefaultExpectedReturn
	if in.ExpectedReturn != nil {
		expected = *in.ExpectedReturn
	}
	if expected.LessThanOrEqual(one.Neg()) {
		return nil, engine.NewInvalidInput("expected_return", "expected return must be above -100%%")
	}

	required := ratio(in.TargetIncome, in.DividendYield)
	result := &RetirementIncomeResult{
		RequiredPortfolio: required,
		CurrentIncome:     in.PortfolioValue.Mul(in.DividendYield),
		MonthlyIncome:     ratio(required.Mul(in.DividendYield), twelve),
		Gap:               required.Sub(in.PortfolioValue),
	}
	result.OnTrack = !result.Gap.IsPositive()
	if result.OnTrack {
		result.RequiredMonthlyContribution = decimal.Zero
		return result, nil
	}

	months := in.YearsToRetirement * 12
	monthly := engine.PerPeriodRate(expected, 12)
	if monthly.IsZero() {
		result.RequiredMonthlyContribution = ratio(result.Gap, decimal.NewFromInt(int64(months)))
		return result, nil
	}
	// Future value of an ordinary annuity: ((1+i)^n - 1) / i
	growth := pow(one.Add(monthly), float64(months))
	annuity := ratio(growth.Sub(one), monthly)
	result.RequiredMonthlyContribution = ratio(result.Gap, annuity)
	return result, nil
}
