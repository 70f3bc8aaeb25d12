package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// SAVINGS GOAL CALCULATOR
// =============================================================================

// MaxSavingsMonths bounds the savings timeframe to the engine horizon.
const MaxSavingsMonths = engine.MaxHorizonYears * 12

type SavingsInput struct {
	Goal                decimal.Decimal
	CurrentSavings      decimal.Decimal
	MonthlyContribution decimal.Decimal
	AnnualRate          decimal.Decimal // nominal, compounded monthly
	Months              int
}

type SavingsRow struct {
	Month        int
	Contribution decimal.Decimal
	Interest     decimal.Decimal
	Balance      decimal.Decimal
}

type SavingsResult struct {
	GoalMet bool
	// MonthsToGoal is the first month whose closing balance reaches Goal,
	// 0 when CurrentSavings already does, Months when it is never reached.
	MonthsToGoal int

	// RequiredMonthly is the end-of-month deposit that reaches Goal in
	// exactly Months; zero when CurrentSavings grows there on its own.
	RequiredMonthly decimal.Decimal

	FinalBalance       decimal.Decimal
	TotalContributions decimal.Decimal // CurrentSavings included
	InterestEarned     decimal.Decimal
	Rows               []SavingsRow
}

// Savings grows a savings balance month by month toward a goal. Deposits land
// at the end of each month, matching the annuity formula used for
// RequiredMonthly.
func Savings(in SavingsInput) (*SavingsResult, error) {
	switch {
	case !in.Goal.IsPositive():
		return nil, engine.NewInvalidInput("goal", "savings goal must be greater than 0")
	case in.CurrentSavings.IsNegative():
		return nil, engine.NewInvalidInput("current_savings", "current savings cannot be negative")
	case in.MonthlyContribution.IsNegative():
		return nil, engine.NewInvalidInput("monthly_contribution", "monthly contribution cannot be negative")
	case in.AnnualRate.IsNegative():
		return nil, engine.NewInvalidInput("annual_rate", "annual rate cannot be negative")
	case in.Months <= 0 || in.Months > MaxSavingsMonths:
		return nil, engine.NewInvalidInput("months", "months must be between 1 and %d", MaxSavingsMonths)
	case in.CurrentSavings.IsZero() && in.MonthlyContribution.IsZero():
		return nil, engine.NewInvalidInput("monthly_contribution", "current savings and monthly contribution are both zero")
	}

	monthly := ratio(in.AnnualRate, twelve)
	// (1 + r/12)^12 - 1
	effective := pow(one.Add(monthly), 12).Sub(one)

	p, err := engine.Project(engine.ProjectionConfig{
		InitialInvestment:     in.CurrentSavings,
		RecurringContribution: in.MonthlyContribution,
		ContributionFrequency: engine.Monthly,
		PaymentFrequency:      engine.Monthly,
		PriceAppreciationRate: effective,
		HorizonYears:          (in.Months + 11) / 12,
	})
	if err != nil {
		return nil, err
	}

	result := &SavingsResult{MonthsToGoal: in.Months}
	if !in.CurrentSavings.LessThan(in.Goal) {
		result.GoalMet = true
		result.MonthsToGoal = 0
	}

	balance := in.CurrentSavings
	for _, s := range p.Periods[:in.Months] {
		row := SavingsRow{
			Month:        s.PeriodIndex,
			Contribution: s.Contribution,
			Balance:      s.PortfolioValue,
		}
		row.Interest = s.PortfolioValue.Sub(balance).Sub(s.Contribution)
		result.Rows = append(result.Rows, row)
		balance = s.PortfolioValue

		if !result.GoalMet && !balance.LessThan(in.Goal) {
			result.GoalMet = true
			result.MonthsToGoal = row.Month
		}
	}

	last := p.Periods[in.Months-1]
	result.FinalBalance = last.PortfolioValue
	result.TotalContributions = last.TotalContributed
	result.InterestEarned = result.FinalBalance.Sub(result.TotalContributions)
	result.RequiredMonthly = requiredDeposit(in.Goal, in.CurrentSavings, monthly, in.Months)
	return result, nil
}

// requiredDeposit solves FV = PV(1+i)^n + PMT*((1+i)^n - 1)/i for PMT.
func requiredDeposit(goal, current, i decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if i.IsZero() {
		return decimal.Max(ratio(goal.Sub(current), n), decimal.Zero)
	}
	growth := pow(one.Add(i), float64(months))
	need := goal.Sub(current.Mul(growth))
	if !need.IsPositive() {
		return decimal.Zero
	}
	return ratio(need.Mul(i), growth.Sub(one))
}
