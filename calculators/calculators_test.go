package calculators_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dividend-engine/calculators"
	"github.com/warp/dividend-engine/engine"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func f(v decimal.Decimal) float64 {
	x, _ := v.Float64()
	return x
}

// =============================================================================
// DRIP
// =============================================================================

func TestDrip_ComparesAgainstPayout(t *testing.T) {
	// GIVEN: $100k, 4% yield, 6% dividend growth, 7% appreciation, 10 years
	cfg := engine.ProjectionConfig{
		InitialInvestment:     d("100000"),
		StartingYield:         d("0.04"),
		DividendGrowthRate:    d("0.06"),
		PriceAppreciationRate: d("0.07"),
		PaymentFrequency:      engine.Annual,
		Reinvest:              true,
		HorizonYears:          10,
	}

	// WHEN: running the DRIP calculator
	result, err := calculators.Drip(cfg)
	require.NoError(t, err)

	// THEN: reinvesting beats taking the cash
	assert.True(t, result.ReinvestmentAdvantage.IsPositive())
	assert.True(t, result.Projection.Summary.AnnualIncome.GreaterThan(result.WithoutReinvestment.AnnualIncome))
	assert.True(t, result.WithoutReinvestment.DistributedCash.IsPositive())
	assert.True(t, result.Projection.Summary.DistributedCash.IsZero())

	// Milestones only inside the horizon
	assert.Contains(t, result.Milestones, 5)
	assert.Contains(t, result.Milestones, 10)
	assert.NotContains(t, result.Milestones, 15)
	assert.True(t, result.Milestones[10].Equal(result.Projection.Summary.AnnualIncome))
}

func TestDrip_InvalidConfig(t *testing.T) {
	_, err := calculators.Drip(engine.ProjectionConfig{HorizonYears: 0})
	assert.Equal(t, engine.ReasonNegativeHorizon, engine.ReasonOf(err))
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_AllProject(t *testing.T) {
	seen := map[string]bool{}
	for _, preset := range calculators.Presets() {
		t.Run(preset.ID, func(t *testing.T) {
			assert.False(t, seen[preset.ID], "duplicate preset id")
			seen[preset.ID] = true

			p, err := engine.Project(preset.Config)
			require.NoError(t, err)
			assert.Len(t, p.Summary.Years, preset.Config.HorizonYears)
			assert.True(t, p.Summary.AfterTaxAnnualIncome.Valid)
			assert.True(t, p.Summary.EndingPortfolioValue.GreaterThan(p.Summary.TotalContributed))
		})
	}
	assert.Len(t, seen, 6)
}

func TestPresetByID(t *testing.T) {
	preset, ok := calculators.PresetByID("aristocrats")
	require.True(t, ok)
	assert.Equal(t, "Dividend Aristocrats", preset.Name)

	n, err := preset.Config.Normalize()
	require.NoError(t, err)
	assert.True(t, n.StartingYield.Equal(d("0.04")))

	_, ok = calculators.PresetByID("unknown")
	assert.False(t, ok)
}

func TestPresets_AreIndependentCopies(t *testing.T) {
	a, _ := calculators.PresetByID("fire")
	a.Config.TaxProfile.QualifiedRate = d("0.5")

	b, _ := calculators.PresetByID("fire")
	assert.True(t, b.Config.TaxProfile.QualifiedRate.Equal(d("0.15")))
}

// =============================================================================
// DIVIDEND GROWTH
// =============================================================================

func TestDividendGrowth(t *testing.T) {
	// GIVEN: 1,000 shares paying $2.50, growing 7% for 20 years
	result, err := calculators.DividendGrowth(calculators.DividendGrowthInput{
		Shares:          d("1000"),
		CurrentDividend: d("2.50"),
		GrowthRate:      d("0.07"),
		Years:           20,
	})
	require.NoError(t, err)

	// THEN: year 0 is today, year 20 is 2.50 * 1.07^20
	require.Len(t, result.Rows, 21)
	assert.Equal(t, 0, result.Rows[0].Year)
	assert.True(t, result.Rows[0].Income.Equal(d("2500")))
	assert.InDelta(t, 9.674211156, f(result.FinalDividend), 1e-8)
	assert.InDelta(t, 9674.211156, f(result.FinalIncome), 1e-5)
	assert.InDelta(t, 112162.94, f(result.TotalReceived), 0.01)
}

func TestDividendGrowth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		in     calculators.DividendGrowthInput
		reason engine.Reason
	}{
		{"no shares", calculators.DividendGrowthInput{CurrentDividend: d("1"), Years: 5}, engine.ReasonInvalidInput},
		{"no dividend", calculators.DividendGrowthInput{Shares: d("10"), Years: 5}, engine.ReasonInvalidInput},
		{"zero years", calculators.DividendGrowthInput{Shares: d("10"), CurrentDividend: d("1")}, engine.ReasonNegativeHorizon},
		{"growth below floor", calculators.DividendGrowthInput{Shares: d("10"), CurrentDividend: d("1"), GrowthRate: d("-2"), Years: 5}, engine.ReasonDividendGrowthBelowFloor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calculators.DividendGrowth(tt.in)
			assert.Equal(t, tt.reason, engine.ReasonOf(err))
		})
	}
}

// =============================================================================
// YIELD ON COST
// =============================================================================

func TestYieldOnCost(t *testing.T) {
	// GIVEN: 500 shares bought at $50 paying $2, now $75 paying $3.50, 10 years later
	result, err := calculators.YieldOnCost(calculators.YieldOnCostInput{
		Shares:          d("500"),
		PurchasePrice:   d("50"),
		CurrentPrice:    d("75"),
		InitialDividend: d("2"),
		CurrentDividend: d("3.50"),
		YearsHeld:       10,
	})
	require.NoError(t, err)

	assert.True(t, result.InitialInvestment.Equal(d("25000")))
	assert.True(t, result.AnnualIncome.Equal(d("1750")))
	assert.True(t, result.YieldOnCost.Equal(d("0.07")))
	assert.True(t, result.InitialYield.Equal(d("0.04")))
	assert.True(t, result.TotalReturn.Equal(d("0.5")))
	assert.InDelta(t, 0.046667, f(result.CurrentYield), 1e-6)
	assert.InDelta(t, 0.057557, f(result.ImpliedDividendGrowth), 1e-6)

	// The replayed path lands on today's dividend.
	require.Len(t, result.Rows, 10)
	last := result.Rows[9]
	assert.InDelta(t, 3.5, f(last.DividendPerShare), 1e-6)
	assert.InDelta(t, 0.07, f(last.YieldOnCost), 1e-6)
}

func TestYieldOnCost_Rejections(t *testing.T) {
	valid := calculators.YieldOnCostInput{
		Shares: d("1"), PurchasePrice: d("10"), CurrentPrice: d("10"),
		InitialDividend: d("1"), CurrentDividend: d("1"), YearsHeld: 1,
	}
	tests := map[string]func(*calculators.YieldOnCostInput){
		"shares":           func(in *calculators.YieldOnCostInput) { in.Shares = decimal.Zero },
		"purchase_price":   func(in *calculators.YieldOnCostInput) { in.PurchasePrice = d("-1") },
		"current_price":    func(in *calculators.YieldOnCostInput) { in.CurrentPrice = decimal.Zero },
		"initial_dividend": func(in *calculators.YieldOnCostInput) { in.InitialDividend = decimal.Zero },
		"current_dividend": func(in *calculators.YieldOnCostInput) { in.CurrentDividend = d("-1") },
		"years_held":       func(in *calculators.YieldOnCostInput) { in.YearsHeld = 0 },
	}
	for field, mutate := range tests {
		t.Run(field, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := calculators.YieldOnCost(in)

			var invalid *engine.InvalidConfigError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, field, invalid.Field)
		})
	}
}

// =============================================================================
// RETIREMENT INCOME
// =============================================================================

func TestRetirementIncome(t *testing.T) {
	// GIVEN: $500k today, $40k target at 4%, 15 years at 7%
	result, err := calculators.RetirementIncome(calculators.RetirementIncomeInput{
		PortfolioValue:    d("500000"),
		TargetIncome:      d("40000"),
		DividendYield:     d("0.04"),
		YearsToRetirement: 15,
	})
	require.NoError(t, err)

	assert.True(t, result.RequiredPortfolio.Equal(d("1000000")))
	assert.True(t, result.CurrentIncome.Equal(d("20000")))
	assert.InDelta(t, 3333.33, f(result.MonthlyIncome), 0.01)
	assert.True(t, result.Gap.Equal(d("500000")))
	assert.False(t, result.OnTrack)
	assert.InDelta(t, 1607.18, f(result.RequiredMonthlyContribution), 0.01)
}

func TestRetirementIncome_ZeroReturnIsLinear(t *testing.T) {
	zero := decimal.Zero
	result, err := calculators.RetirementIncome(calculators.RetirementIncomeInput{
		PortfolioValue:    d("100000"),
		TargetIncome:      d("10000"),
		DividendYield:     d("0.05"),
		YearsToRetirement: 10,
		ExpectedReturn:    &zero,
	})
	require.NoError(t, err)
	// 100k gap over 120 months
	assert.InDelta(t, 833.33, f(result.RequiredMonthlyContribution), 0.01)
}

func TestRetirementIncome_AlreadyThere(t *testing.T) {
	result, err := calculators.RetirementIncome(calculators.RetirementIncomeInput{
		PortfolioValue:    d("2000000"),
		TargetIncome:      d("40000"),
		DividendYield:     d("0.04"),
		YearsToRetirement: 5,
	})
	require.NoError(t, err)
	assert.True(t, result.OnTrack)
	assert.True(t, result.Gap.IsNegative())
	assert.True(t, result.RequiredMonthlyContribution.IsZero())
}

func TestRetirementIncome_RejectsZeroYield(t *testing.T) {
	_, err := calculators.RetirementIncome(calculators.RetirementIncomeInput{
		PortfolioValue: d("1"), TargetIncome: d("1"), YearsToRetirement: 1,
	})
	assert.Equal(t, engine.ReasonInvalidInput, engine.ReasonOf(err))
}

// =============================================================================
// COMPOUND INTEREST
// =============================================================================

func TestCompoundInterest(t *testing.T) {
	tests := []struct {
		name      string
		in        calculators.CompoundInterestInput
		wantFinal float64
	}{
		{
			name:      "annual compounding, no contributions",
			in:        calculators.CompoundInterestInput{Principal: d("10000"), AnnualRate: d("0.05"), Years: 10, CompoundingPerYear: 1},
			wantFinal: 16288.95,
		},
		{
			name:      "monthly compounding, no contributions",
			in:        calculators.CompoundInterestInput{Principal: d("10000"), AnnualRate: d("0.05"), Years: 10, CompoundingPerYear: 12},
			wantFinal: 16470.09,
		},
		{
			name:      "monthly compounding with monthly savings",
			in:        calculators.CompoundInterestInput{Principal: d("10000"), MonthlyContribution: d("200"), AnnualRate: d("0.07"), Years: 20},
			wantFinal: 144572.72,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calculators.CompoundInterest(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantFinal, f(result.FinalBalance), 0.01)
			assert.Len(t, result.Rows, tt.in.Years)

			// Rows chain and add up.
			total := decimal.Zero
			for i, row := range result.Rows {
				if i > 0 {
					assert.True(t, row.StartingBalance.Equal(result.Rows[i-1].EndingBalance))
				}
				total = total.Add(row.Interest)
			}
			assert.InDelta(t, f(result.TotalInterest), f(total), 1e-6)
		})
	}
}

func TestCompoundInterest_Rejections(t *testing.T) {
	_, err := calculators.CompoundInterest(calculators.CompoundInterestInput{Principal: d("1"), Years: 1, CompoundingPerYear: 7})
	assert.Equal(t, engine.ReasonInvalidInput, engine.ReasonOf(err))

	_, err = calculators.CompoundInterest(calculators.CompoundInterestInput{Principal: d("1"), Years: 1, AnnualRate: d("-0.01")})
	assert.Equal(t, engine.ReasonInvalidInput, engine.ReasonOf(err))

	_, err = calculators.CompoundInterest(calculators.CompoundInterestInput{Years: 1})
	assert.Equal(t, engine.ReasonEmptyPortfolio, engine.ReasonOf(err))
}

// =============================================================================
// IRA
// =============================================================================

func TestIRA(t *testing.T) {
	// GIVEN: age 30 to 65, $10k today, $6,500 a year at 7%, 24% now, 22% later
	result, err := calculators.IRA(calculators.IRAInput{
		CurrentAge:         30,
		RetirementAge:      65,
		AnnualContribution: d("6500"),
		CurrentBalance:     d("10000"),
		ExpectedReturn:     d("0.07"),
		CurrentTaxRate:     d("0.24"),
		RetirementTaxRate:  d("0.22"),
	})
	require.NoError(t, err)

	require.Len(t, result.Rows, 35)
	assert.Equal(t, 65, result.Rows[34].Age)
	assert.InDelta(t, 1005305.52, f(result.TraditionalBalance), 0.01)
	assert.True(t, result.RothBalance.Equal(result.TraditionalBalance))
	assert.InDelta(t, 1005305.52*0.78, f(result.TraditionalAfterTax), 0.01)
	assert.True(t, result.TaxSavingsNow.Equal(d("54600")))

	// 24% vs 22% is inside the 3 point band
	assert.Equal(t, calculators.RecommendBoth, result.Recommendation)
}

func TestIRA_Recommendation(t *testing.T) {
	base := calculators.IRAInput{
		CurrentAge: 40, RetirementAge: 41,
		AnnualContribution: d("1000"), ExpectedReturn: d("0.05"),
	}
	tests := []struct {
		current, retirement string
		want                calculators.IRARecommendation
	}{
		{"0.32", "0.12", calculators.RecommendTraditional},
		{"0.12", "0.24", calculators.RecommendRoth},
		{"0.22", "0.24", calculators.RecommendBoth},
	}
	for _, tt := range tests {
		in := base
		in.CurrentTaxRate = d(tt.current)
		in.RetirementTaxRate = d(tt.retirement)
		result, err := calculators.IRA(in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, result.Recommendation, "%s -> %s", tt.current, tt.retirement)
	}
}

func TestIRA_RejectsRetirementBeforeNow(t *testing.T) {
	_, err := calculators.IRA(calculators.IRAInput{CurrentAge: 65, RetirementAge: 60})
	assert.Equal(t, engine.ReasonInvalidInput, engine.ReasonOf(err))
}

// =============================================================================
// 401(K)
// =============================================================================

func fourOhOneKBase() calculators.FourOhOneKInput {
	return calculators.FourOhOneKInput{
		CurrentAge:       30,
		RetirementAge:    33,
		Salary:           d("100000"),
		ContributionRate: d("0.10"),
		EmployerMatch:    d("0.5"),
		MatchLimit:       d("0.06"),
		MarginalTaxRate:  d("0.24"),
	}
}

func TestFourOhOneK(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*calculators.FourOhOneKInput)
		wantFinal    float64
		wantEmployee float64
		wantEmployer float64
		wantGains    float64
	}{
		{
			// 10% deferred, match 50% of the first 6% = 3% of salary
			name:      "flat salary, no growth",
			mutate:    func(in *calculators.FourOhOneKInput) {},
			wantFinal: 39000, wantEmployee: 30000, wantEmployer: 9000, wantGains: 0,
		},
		{
			name:      "salary grows 10% a year",
			mutate:    func(in *calculators.FourOhOneKInput) { in.SalaryGrowth = d("0.1") },
			wantFinal: 43030, wantEmployee: 33100, wantEmployer: 9930, wantGains: 0,
		},
		{
			// 13,000 -> 13,000*1.05 + 13,000 -> 26,650*1.05 + 13,000
			name:      "5% return, contributions at year end",
			mutate:    func(in *calculators.FourOhOneKInput) { in.ExpectedReturn = d("0.05") },
			wantFinal: 40982.5, wantEmployee: 30000, wantEmployer: 9000, wantGains: 1982.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fourOhOneKBase()
			tt.mutate(&in)

			result, err := calculators.FourOhOneK(in)
			require.NoError(t, err)

			require.Len(t, result.Rows, 3)
			assert.Equal(t, 33, result.Rows[2].Age)
			assert.InDelta(t, tt.wantFinal, f(result.FinalBalance), 0.01)
			assert.InDelta(t, tt.wantEmployee, f(result.EmployeeContributions), 0.01)
			assert.InDelta(t, tt.wantEmployer, f(result.EmployerContributions), 0.01)
			assert.InDelta(t, tt.wantEmployee+tt.wantEmployer, f(result.TotalContributions), 0.01)
			assert.InDelta(t, tt.wantGains, f(result.InvestmentGains), 0.01)
			assert.InDelta(t, tt.wantFinal*0.04, f(result.RetirementIncome), 0.01)
			assert.InDelta(t, tt.wantEmployee*0.24, f(result.TaxSavings), 0.01)
			assert.InDelta(t, f(result.FinalBalance), f(result.Rows[2].Balance), 1e-9)
			assert.False(t, result.ExceedsDeferralLimit)
		})
	}
}

func TestFourOhOneK_RowsFollowSalary(t *testing.T) {
	in := fourOhOneKBase()
	in.SalaryGrowth = d("0.1")
	in.ExpectedReturn = d("0.05")

	result, err := calculators.FourOhOneK(in)
	require.NoError(t, err)

	assert.InDelta(t, 121000, f(result.Rows[2].Salary), 1e-6)
	assert.InDelta(t, 12100, f(result.Rows[2].EmployeeContribution), 1e-6)
	assert.InDelta(t, 3630, f(result.Rows[2].EmployerMatch), 1e-6)

	// Year 2 gain is 5% of the year 1 balance.
	assert.InDelta(t, 650, f(result.Rows[1].InvestmentGain), 0.01)
}

func TestFourOhOneK_DeferralLimit(t *testing.T) {
	in := fourOhOneKBase()
	in.Salary = d("300000")

	result, err := calculators.FourOhOneK(in)
	require.NoError(t, err)
	assert.True(t, result.ExceedsDeferralLimit)
}

func TestFourOhOneK_Rejections(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*calculators.FourOhOneKInput)
	}{
		{"retirement_age", func(in *calculators.FourOhOneKInput) { in.RetirementAge = 30 }},
		{"salary", func(in *calculators.FourOhOneKInput) { in.Salary = decimal.Zero }},
		{"contribution_rate", func(in *calculators.FourOhOneKInput) { in.ContributionRate = d("1.5") }},
		{"match_limit", func(in *calculators.FourOhOneKInput) { in.MatchLimit = d("-0.1") }},
		{"salary_growth", func(in *calculators.FourOhOneKInput) { in.SalaryGrowth = d("-1") }},
		{"contribution_rate", func(in *calculators.FourOhOneKInput) { in.ContributionRate = decimal.Zero }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := fourOhOneKBase()
			tt.mutate(&in)

			_, err := calculators.FourOhOneK(in)

			var invalid *engine.InvalidConfigError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, engine.ReasonInvalidInput, invalid.Reason)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

// =============================================================================
// SAVINGS
// =============================================================================

func TestSavings_GoalNotReached(t *testing.T) {
	// GIVEN: $5,000 saved, $500 a month at 4% for five years, aiming for $50,000
	result, err := calculators.Savings(calculators.SavingsInput{
		Goal:                d("50000"),
		CurrentSavings:      d("5000"),
		MonthlyContribution: d("500"),
		AnnualRate:          d("0.04"),
		Months:              60,
	})
	require.NoError(t, err)

	// THEN: the balance falls short and the required deposit closes the gap
	require.Len(t, result.Rows, 60)
	assert.False(t, result.GoalMet)
	assert.Equal(t, 60, result.MonthsToGoal)
	assert.InDelta(t, 39254.47, f(result.FinalBalance), 0.01)
	assert.True(t, result.TotalContributions.Equal(d("35000")))
	assert.InDelta(t, 4254.47, f(result.InterestEarned), 0.01)
	assert.InDelta(t, 662.08, f(result.RequiredMonthly), 0.01)

	// First month: deposit at month end earns nothing that month
	assert.InDelta(t, 5000*0.04/12, f(result.Rows[0].Interest), 1e-6)
	assert.InDelta(t, 5000*(1+0.04/12)+500, f(result.Rows[0].Balance), 1e-6)
}

func TestSavings_GoalReached(t *testing.T) {
	result, err := calculators.Savings(calculators.SavingsInput{
		Goal:                d("10000"),
		CurrentSavings:      d("9000"),
		MonthlyContribution: d("500"),
		Months:              18,
	})
	require.NoError(t, err)

	assert.True(t, result.GoalMet)
	assert.Equal(t, 2, result.MonthsToGoal)
	require.Len(t, result.Rows, 18, "a partial final year is cut at the last month")
	assert.True(t, result.FinalBalance.Equal(d("18000")))
	assert.True(t, result.InterestEarned.IsZero())
	assert.InDelta(t, 1000.0/18, f(result.RequiredMonthly), 1e-9)
}

func TestSavings_AlreadyThere(t *testing.T) {
	result, err := calculators.Savings(calculators.SavingsInput{
		Goal:           d("10000"),
		CurrentSavings: d("20000"),
		AnnualRate:     d("0.03"),
		Months:         12,
	})
	require.NoError(t, err)

	assert.True(t, result.GoalMet)
	assert.Equal(t, 0, result.MonthsToGoal)
	assert.True(t, result.RequiredMonthly.IsZero())
}

func TestSavings_Rejections(t *testing.T) {
	base := calculators.SavingsInput{Goal: d("1000"), CurrentSavings: d("100"), MonthlyContribution: d("50"), Months: 12}
	tests := []struct {
		field  string
		mutate func(*calculators.SavingsInput)
	}{
		{"goal", func(in *calculators.SavingsInput) { in.Goal = decimal.Zero }},
		{"annual_rate", func(in *calculators.SavingsInput) { in.AnnualRate = d("-0.01") }},
		{"months", func(in *calculators.SavingsInput) { in.Months = 0 }},
		{"months", func(in *calculators.SavingsInput) { in.Months = calculators.MaxSavingsMonths + 1 }},
		{"monthly_contribution", func(in *calculators.SavingsInput) {
			in.CurrentSavings = decimal.Zero
			in.MonthlyContribution = decimal.Zero
		}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := base
			tt.mutate(&in)

			_, err := calculators.Savings(in)

			var invalid *engine.InvalidConfigError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

// =============================================================================
// INVESTMENT RETURN
// =============================================================================

func TestInvestmentReturn(t *testing.T) {
	result, err := calculators.InvestmentReturn(calculators.InvestmentReturnInput{
		InitialInvestment: d("10000"),
		FinalValue:        d("15000"),
		Years:             d("5"),
	})
	require.NoError(t, err)
	assert.True(t, result.ProfitLoss.Equal(d("5000")))
	assert.True(t, result.TotalReturn.Equal(d("0.5")))
	assert.InDelta(t, 0.0844718, f(result.AnnualizedReturn), 1e-6)
}

func TestInvestmentReturn_Loss(t *testing.T) {
	result, err := calculators.InvestmentReturn(calculators.InvestmentReturnInput{
		InitialInvestment: d("10000"),
		FinalValue:        d("8100"),
		Years:             d("2"),
	})
	require.NoError(t, err)
	assert.True(t, result.TotalReturn.Equal(d("-0.19")))
	assert.InDelta(t, -0.1, f(result.AnnualizedReturn), 1e-9)
}
