package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// 401(K) CALCULATOR
// =============================================================================

var (
	// SafeWithdrawalRate turns a retirement balance into yearly income (4% rule).
	SafeWithdrawalRate = decimal.RequireFromString("0.04")

	// ElectiveDeferralLimit is the yearly employee deferral cap the page warns about.
	ElectiveDeferralLimit = decimal.NewFromInt(23000)
)

type FourOhOneKInput struct {
	CurrentAge     int
	RetirementAge  int
	Salary         decimal.Decimal
	CurrentBalance decimal.Decimal

	ContributionRate decimal.Decimal // share of salary the employee defers
	EmployerMatch    decimal.Decimal // share of the matched pay the employer adds
	MatchLimit       decimal.Decimal // share of salary eligible for the match

	ExpectedReturn  decimal.Decimal
	SalaryGrowth    decimal.Decimal
	MarginalTaxRate decimal.Decimal
}

type FourOhOneKRow struct {
	Age                  int
	Salary               decimal.Decimal
	EmployeeContribution decimal.Decimal
	EmployerMatch        decimal.Decimal
	InvestmentGain       decimal.Decimal
	Balance              decimal.Decimal
}

type FourOhOneKResult struct {
	FinalBalance          decimal.Decimal
	EmployeeContributions decimal.Decimal
	EmployerContributions decimal.Decimal
	TotalContributions    decimal.Decimal // excludes the starting balance
	InvestmentGains       decimal.Decimal
	RetirementIncome      decimal.Decimal // FinalBalance * SafeWithdrawalRate

	// TaxSavings is the income tax deferred on every employee contribution
	// at MarginalTaxRate.
	TaxSavings decimal.Decimal

	// ExceedsDeferralLimit is set when the first year's deferral is above
	// ElectiveDeferralLimit.
	ExceedsDeferralLimit bool

	Rows []FourOhOneKRow
}

// FourOhOneK projects a workplace plan fed by a share of a growing salary plus
// a capped employer match. Both contributions rise with the salary and land at
// the end of each year, like the IRA calculator.
func FourOhOneK(in FourOhOneKInput) (*FourOhOneKResult, error) {
	switch {
	case in.CurrentAge <= 0:
		return nil, engine.NewInvalidInput("current_age", "current age must be positive")
	case in.RetirementAge <= in.CurrentAge:
		return nil, engine.NewInvalidInput("retirement_age", "retirement age must be after current age")
	case !in.Salary.IsPositive():
		return nil, engine.NewInvalidInput("salary", "salary must be greater than 0")
	case in.CurrentBalance.IsNegative():
		return nil, engine.NewInvalidInput("current_balance", "current balance cannot be negative")
	case !isRate(in.ContributionRate):
		return nil, engine.NewInvalidInput("contribution_rate", "contribution rate must be between 0 and 100%%")
	case !isRate(in.EmployerMatch):
		return nil, engine.NewInvalidInput("employer_match", "employer match must be between 0 and 100%%")
	case !isRate(in.MatchLimit):
		return nil, engine.NewInvalidInput("match_limit", "match limit must be between 0 and 100%%")
	case !isRate(in.MarginalTaxRate):
		return nil, engine.NewInvalidInput("marginal_tax_rate", "tax rate must be between 0 and 100%%")
	case in.SalaryGrowth.LessThanOrEqual(one.Neg()):
		return nil, engine.NewInvalidInput("salary_growth", "salary growth must be above -100%%")
	case in.ExpectedReturn.LessThanOrEqual(one.Neg()):
		return nil, engine.NewInvalidInput("expected_return", "expected return must be above -100%%")
	case in.CurrentBalance.IsZero() && in.ContributionRate.IsZero():
		return nil, engine.NewInvalidInput("contribution_rate", "nothing to project: no balance and no contributions")
	}
	years := in.RetirementAge - in.CurrentAge

	matched := decimal.Min(in.ContributionRate, in.MatchLimit).Mul(in.EmployerMatch)
	firstYear := in.Salary.Mul(in.ContributionRate.Add(matched))

	p, err := engine.Project(engine.ProjectionConfig{
		InitialInvestment:      in.CurrentBalance,
		RecurringContribution:  firstYear,
		ContributionGrowthRate: in.SalaryGrowth,
		ContributionFrequency:  engine.Annual,
		PaymentFrequency:       engine.Annual,
		PriceAppreciationRate:  in.ExpectedReturn,
		HorizonYears:           years,
	})
	if err != nil {
		return nil, err
	}

	result := &FourOhOneKResult{
		ExceedsDeferralLimit: in.Salary.Mul(in.ContributionRate).GreaterThan(ElectiveDeferralLimit),
	}
	salary := in.Salary
	prevBalance, prevContributed := in.CurrentBalance, in.CurrentBalance
	for _, y := range p.Summary.Years {
		row := FourOhOneKRow{
			Age:                  in.CurrentAge + y.Year,
			Salary:               salary,
			EmployeeContribution: salary.Mul(in.ContributionRate),
			EmployerMatch:        salary.Mul(matched),
			Balance:              y.PortfolioValue,
		}
		row.InvestmentGain = y.PortfolioValue.Sub(prevBalance).Sub(y.TotalContributed.Sub(prevContributed))
		result.Rows = append(result.Rows, row)

		result.EmployeeContributions = result.EmployeeContributions.Add(row.EmployeeContribution)
		result.EmployerContributions = result.EmployerContributions.Add(row.EmployerMatch)
		prevBalance, prevContributed = y.PortfolioValue, y.TotalContributed
		salary = salary.Mul(one.Add(in.SalaryGrowth)).Round(places)
	}

	result.FinalBalance = p.Summary.EndingPortfolioValue
	result.TotalContributions = p.Summary.TotalContributed.Sub(in.CurrentBalance)
	result.InvestmentGains = result.FinalBalance.Sub(p.Summary.TotalContributed)
	result.RetirementIncome = result.FinalBalance.Mul(SafeWithdrawalRate)
	result.TaxSavings = result.EmployeeContributions.Mul(in.MarginalTaxRate)
	return result, nil
}
