package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// =============================================================================
// IRA CALCULATOR
// =============================================================================

type IRARecommendation string

const (
	RecommendTraditional IRARecommendation = "traditional"
	RecommendRoth        IRARecommendation = "roth"
	RecommendBoth        IRARecommendation = "both"
)

type IRAInput struct {
	CurrentAge         int
	RetirementAge      int
	AnnualContribution decimal.Decimal
	CurrentBalance     decimal.Decimal
	ExpectedReturn     decimal.Decimal
	CurrentTaxRate     decimal.Decimal
	RetirementTaxRate  decimal.Decimal
}

type IRARow struct {
	Age                int
	Contribution       decimal.Decimal
	TraditionalBalance decimal.Decimal
	RothBalance        decimal.Decimal
}

type IRAResult struct {
	TraditionalBalance  decimal.Decimal
	RothBalance         decimal.Decimal
	TraditionalAfterTax decimal.Decimal // withdrawals taxed at RetirementTaxRate
	RothAfterTax        decimal.Decimal // qualified withdrawals are tax free

	// TaxSavingsNow is the deduction value of traditional contributions over
	// the whole accumulation phase.
	TaxSavingsNow decimal.Decimal
	// TaxSavingsRetirement is the tax a Roth avoids on withdrawal.
	TaxSavingsRetirement decimal.Decimal

	Recommendation IRARecommendation
	Rows           []IRARow
}

// IRA compares a traditional and a Roth account fed the same contribution.
// Both accounts grow identically; they differ in when tax is paid.
// Contributions land at the end of each year.
func IRA(in IRAInput) (*IRAResult, error) {
	switch {
	case in.CurrentAge <= 0:
		return nil, engine.NewInvalidInput("current_age", "current age must be positive")
	case in.RetirementAge <= in.CurrentAge:
		return nil, engine.NewInvalidInput("retirement_age", "retirement age must be after current age")
	case !isRate(in.CurrentTaxRate):
		return nil, engine.NewInvalidInput("current_tax_rate", "tax rate must be between 0 and 100%%")
	case !isRate(in.RetirementTaxRate):
		return nil, engine.NewInvalidInput("retirement_tax_rate", "tax rate must be between 0 and 100%%")
	}
	years := in.RetirementAge - in.CurrentAge

	p, err := engine.Project(engine.ProjectionConfig{
		InitialInvestment:     in.CurrentBalance,
		RecurringContribution: in.AnnualContribution,
		ContributionFrequency: engine.Annual,
		PaymentFrequency:      engine.Annual,
		PriceAppreciationRate: in.ExpectedReturn,
		HorizonYears:          years,
	})
	if err != nil {
		return nil, err
	}

	result := &IRAResult{}
	for _, y := range p.Summary.Years {
		result.Rows = append(result.Rows, IRARow{
			Age:                in.CurrentAge + y.Year,
			Contribution:       in.AnnualContribution,
			TraditionalBalance: y.PortfolioValue,
			RothBalance:        y.PortfolioValue,
		})
	}

	balance := p.Summary.EndingPortfolioValue
	result.TraditionalBalance = balance
	result.RothBalance = balance
	result.TraditionalAfterTax = balance.Mul(one.Sub(in.RetirementTaxRate))
	result.RothAfterTax = balance
	result.TaxSavingsNow = in.AnnualContribution.Mul(in.CurrentTaxRate).Mul(decimal.NewFromInt(int64(years)))
	result.TaxSavingsRetirement = balance.Mul(in.RetirementTaxRate)

	switch {
	case in.CurrentTaxRate.GreaterThan(in.RetirementTaxRate.Add(threshold)):
		result.Recommendation = RecommendTraditional
	case in.RetirementTaxRate.GreaterThan(in.CurrentTaxRate.Add(threshold)):
		result.Recommendation = RecommendRoth
	default:
		result.Recommendation = RecommendBoth
	}
	return result, nil
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}
