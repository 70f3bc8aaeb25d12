/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal model from the external API contract:
  - Money is a JSON number rounded to cents
  - Rates and yields are JSON numbers in percent (4 = 4%)
  - Share counts keep six decimal places

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Projection:
    ProjectionDTO, SummaryDTO, YearDTO, PeriodDTO, LotDTO, DripResponse

  Calculators:
    DividendGrowthRequest, YieldOnCostRequest, RetirementIncomeRequest,
    IRARequest, CompoundInterestRequest, InvestmentReturnRequest
    and their *Response types

  Presets:
    PresetDTO, CreatePresetRequest

  Tax tables:
    TaxTableDTO, BracketDTO, TaxProfileDTO

VALIDATION:
  Validation is done by the engine and the calculators, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON type
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/calculators"
	"github.com/warp/dividend-engine/engine"
	"github.com/warp/dividend-engine/factory"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Reason  string `json:"reason,omitempty"` // engine reason code, 400 only
	Field   string `json:"field,omitempty"`  // input field to highlight, 400 only
}

// =============================================================================
// PROJECTION
// =============================================================================

// ProjectionDTO is a projection result.
type ProjectionDTO struct {
	Config  factory.ConfigJSON `json:"config"`
	Summary SummaryDTO         `json:"summary"`
	Years   []YearDTO          `json:"years"`
	Periods []PeriodDTO        `json:"periods,omitempty"`
	Lots    []LotDTO           `json:"lots,omitempty"`
}

// SummaryDTO holds the headline figures.
type SummaryDTO struct {
	HorizonYears         int      `json:"horizon_years"`
	EndingPortfolioValue float64  `json:"ending_portfolio_value"`
	FinalShares          float64  `json:"final_shares"`
	AnnualIncome         float64  `json:"annual_income"`
	MonthlyIncome        float64  `json:"monthly_income"`
	AfterTaxAnnualIncome *float64 `json:"after_tax_annual_income,omitempty"`
	AverageCostPerShare  float64  `json:"average_cost_per_share"`
	YieldOnCost          float64  `json:"yield_on_cost"`
	TotalContributed     float64  `json:"total_contributed"`
	TotalDividends       float64  `json:"total_dividends"`
	DistributedCash      float64  `json:"distributed_cash"`
	TotalReturn          float64  `json:"total_return"`
	TotalReturnPercent   float64  `json:"total_return_percent"`
	AnnualizedReturn     float64  `json:"annualized_return"`
}

// YearDTO is one row of the yearly table.
type YearDTO struct {
	Year                   int      `json:"year"`
	Income                 float64  `json:"income"`
	MonthlyIncome          float64  `json:"monthly_income"`
	AfterTaxIncome         *float64 `json:"after_tax_income,omitempty"`
	InitialLotIncome       float64  `json:"initial_lot_income"`
	SharePrice             float64  `json:"share_price"`
	AnnualDividendPerShare float64  `json:"annual_dividend_per_share"`
	SharesHeld             float64  `json:"shares_held"`
	PortfolioValue         float64  `json:"portfolio_value"`
	CurrentYield           float64  `json:"current_yield"`
	YieldOnCost            float64  `json:"yield_on_cost"`
	TotalContributed       float64  `json:"total_contributed"`
	CumulativeDividends    float64  `json:"cumulative_dividends"`
	DistributedCash        float64  `json:"distributed_cash"`
	TotalReturn            float64  `json:"total_return"`
	TotalReturnPercent     float64  `json:"total_return_percent"`
}

// PeriodDTO is one simulated payment period.
type PeriodDTO struct {
	PeriodIndex                     int     `json:"period_index"`
	Year                            int     `json:"year"`
	PeriodInYear                    int     `json:"period_in_year"`
	Date                            string  `json:"date"`
	SharePrice                      float64 `json:"share_price"`
	DividendPerShare                float64 `json:"dividend_per_share"`
	SharesHeld                      float64 `json:"shares_held"`
	CashDividend                    float64 `json:"cash_dividend"`
	ReinvestedCash                  float64 `json:"reinvested_cash"`
	SharesPurchasedFromDividend     float64 `json:"shares_purchased_from_dividend"`
	Contribution                    float64 `json:"contribution"`
	SharesPurchasedFromContribution float64 `json:"shares_purchased_from_contribution"`
	SharesAfter                     float64 `json:"shares_after"`
	PortfolioValue                  float64 `json:"portfolio_value"`
	TotalContributed                float64 `json:"total_contributed"`
	CumulativeDividends             float64 `json:"cumulative_dividends"`
	DistributedCash                 float64 `json:"distributed_cash"`
}

// LotDTO is one purchase lot behind the cost basis.
type LotDTO struct {
	PeriodIndex int     `json:"period_index"`
	Source      string  `json:"source"`
	Shares      float64 `json:"shares"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
}

// DripResponse is the DRIP calculator result.
type DripResponse struct {
	ProjectionDTO
	WithoutReinvestment   SummaryDTO      `json:"without_reinvestment"`
	Milestones            map[int]float64 `json:"milestones"`
	ReinvestmentAdvantage float64         `json:"reinvestment_advantage"`
}

func toSummaryDTO(s engine.ProjectionSummary) SummaryDTO {
	return SummaryDTO{
		HorizonYears:         s.HorizonYears,
		EndingPortfolioValue: money(s.EndingPortfolioValue),
		FinalShares:          shares(s.FinalShares),
		AnnualIncome:         money(s.AnnualIncome),
		MonthlyIncome:        money(s.MonthlyIncome),
		AfterTaxAnnualIncome: nullMoney(s.AfterTaxAnnualIncome),
		AverageCostPerShare:  money(s.AverageCostPerShare),
		YieldOnCost:          pct(s.YieldOnCost),
		TotalContributed:     money(s.TotalContributed),
		TotalDividends:       money(s.TotalDividends),
		DistributedCash:      money(s.DistributedCash),
		TotalReturn:          money(s.TotalReturn),
		TotalReturnPercent:   rounded(s.TotalReturnPercent, 4),
		AnnualizedReturn:     pct(s.AnnualizedReturn),
	}
}

func toYearDTO(y engine.YearSummary) YearDTO {
	return YearDTO{
		Year:                   y.Year,
		Income:                 money(y.Income),
		MonthlyIncome:          money(y.MonthlyIncome),
		AfterTaxIncome:         nullMoney(y.AfterTaxIncome),
		InitialLotIncome:       money(y.InitialLotIncome),
		SharePrice:             money(y.SharePrice),
		AnnualDividendPerShare: rounded(y.AnnualDividendPerShare, 4),
		SharesHeld:             shares(y.SharesHeld),
		PortfolioValue:         money(y.PortfolioValue),
		CurrentYield:           pct(y.CurrentYield),
		YieldOnCost:            pct(y.YieldOnCost),
		TotalContributed:       money(y.TotalContributed),
		CumulativeDividends:    money(y.CumulativeDividends),
		DistributedCash:        money(y.DistributedCash),
		TotalReturn:            money(y.TotalReturn),
		TotalReturnPercent:     rounded(y.TotalReturnPercent, 4),
	}
}

func toPeriodDTO(s engine.PeriodState) PeriodDTO {
	return PeriodDTO{
		PeriodIndex:                     s.PeriodIndex,
		Year:                            s.Year,
		PeriodInYear:                    s.PeriodInYear,
		Date:                            s.Date.String(),
		SharePrice:                      money(s.SharePrice),
		DividendPerShare:                rounded(s.DividendPerShare, 4),
		SharesHeld:                      shares(s.SharesHeld),
		CashDividend:                    money(s.CashDividend),
		ReinvestedCash:                  money(s.ReinvestedCash),
		SharesPurchasedFromDividend:     shares(s.SharesPurchasedFromDividend),
		Contribution:                    money(s.Contribution),
		SharesPurchasedFromContribution: shares(s.SharesPurchasedFromContribution),
		SharesAfter:                     shares(s.SharesAfter),
		PortfolioValue:                  money(s.PortfolioValue),
		TotalContributed:                money(s.TotalContributed),
		CumulativeDividends:             money(s.CumulativeDividends),
		DistributedCash:                 money(s.DistributedCash),
	}
}

// projectionOptions selects the optional parts of a ProjectionDTO.
type projectionOptions struct {
	IncludePeriods bool
	IncludeLots    bool
}

func toProjectionDTO(p *engine.Projection, opts projectionOptions) ProjectionDTO {
	dto := ProjectionDTO{
		Config:  factory.NewConfigFactory().ToJSON(p.Config),
		Summary: toSummaryDTO(p.Summary),
		Years:   make([]YearDTO, len(p.Summary.Years)),
	}
	for i, y := range p.Summary.Years {
		dto.Years[i] = toYearDTO(y)
	}
	if opts.IncludePeriods {
		dto.Periods = make([]PeriodDTO, len(p.Periods))
		for i, s := range p.Periods {
			dto.Periods[i] = toPeriodDTO(s)
		}
	}
	if opts.IncludeLots {
		for _, lot := range p.Lots() {
			dto.Lots = append(dto.Lots, LotDTO{
				PeriodIndex: lot.PeriodIndex,
				Source:      string(lot.Source),
				Shares:      shares(lot.Shares),
				Price:       money(lot.Price),
				Cost:        money(lot.Cost),
			})
		}
	}
	return dto
}

func toDripResponse(r *calculators.DripResult, opts projectionOptions) DripResponse {
	milestones := make(map[int]float64, len(r.Milestones))
	for year, income := range r.Milestones {
		milestones[year] = money(income)
	}
	return DripResponse{
		ProjectionDTO:         toProjectionDTO(r.Projection, opts),
		WithoutReinvestment:   toSummaryDTO(r.WithoutReinvestment),
		Milestones:            milestones,
		ReinvestmentAdvantage: money(r.ReinvestmentAdvantage),
	}
}

// =============================================================================
// CALCULATORS
// =============================================================================

// DividendGrowthRequest is the dividend growth calculator input.
type DividendGrowthRequest struct {
	Shares          float64 `json:"shares"`
	CurrentDividend float64 `json:"current_dividend"` // annual, per share
	GrowthRate      float64 `json:"growth_rate"`      // percent
	Years           int     `json:"years"`
	SharePrice      float64 `json:"share_price,omitempty"`
}

type DividendGrowthRowDTO struct {
	Year             int     `json:"year"`
	DividendPerShare float64 `json:"dividend_per_share"`
	Income           float64 `json:"income"`
}

type DividendGrowthResponse struct {
	FinalDividend float64                `json:"final_dividend"`
	FinalIncome   float64                `json:"final_income"`
	TotalReceived float64                `json:"total_received"`
	Rows          []DividendGrowthRowDTO `json:"rows"`
}

func (r DividendGrowthRequest) toInput() calculators.DividendGrowthInput {
	return calculators.DividendGrowthInput{
		Shares:          dec(r.Shares),
		CurrentDividend: dec(r.CurrentDividend),
		GrowthRate:      fromPct(r.GrowthRate),
		Years:           r.Years,
		SharePrice:      dec(r.SharePrice),
	}
}

func toDividendGrowthResponse(r *calculators.DividendGrowthResult) DividendGrowthResponse {
	resp := DividendGrowthResponse{
		FinalDividend: rounded(r.FinalDividend, 4),
		FinalIncome:   money(r.FinalIncome),
		TotalReceived: money(r.TotalReceived),
		Rows:          make([]DividendGrowthRowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = DividendGrowthRowDTO{
			Year:             row.Year,
			DividendPerShare: rounded(row.DividendPerShare, 4),
			Income:           money(row.Income),
		}
	}
	return resp
}

// YieldOnCostRequest is the yield on cost calculator input.
type YieldOnCostRequest struct {
	Shares          float64 `json:"shares"`
	PurchasePrice   float64 `json:"purchase_price"`
	CurrentPrice    float64 `json:"current_price"`
	InitialDividend float64 `json:"initial_dividend"`
	CurrentDividend float64 `json:"current_dividend"`
	YearsHeld       int     `json:"years_held"`
}

type YieldOnCostRowDTO struct {
	Year             int     `json:"year"`
	DividendPerShare float64 `json:"dividend_per_share"`
	YieldOnCost      float64 `json:"yield_on_cost"`
}

type YieldOnCostResponse struct {
	InitialInvestment     float64             `json:"initial_investment"`
	CurrentValue          float64             `json:"current_value"`
	AnnualIncome          float64             `json:"annual_income"`
	YieldOnCost           float64             `json:"yield_on_cost"`
	CurrentYield          float64             `json:"current_yield"`
	InitialYield          float64             `json:"initial_yield"`
	ImpliedDividendGrowth float64             `json:"implied_dividend_growth"`
	ImpliedPriceGrowth    float64             `json:"implied_price_growth"`
	TotalReturn           float64             `json:"total_return"`
	Rows                  []YieldOnCostRowDTO `json:"rows"`
}

func (r YieldOnCostRequest) toInput() calculators.YieldOnCostInput {
	return calculators.YieldOnCostInput{
		Shares:          dec(r.Shares),
		PurchasePrice:   dec(r.PurchasePrice),
		CurrentPrice:    dec(r.CurrentPrice),
		InitialDividend: dec(r.InitialDividend),
		CurrentDividend: dec(r.CurrentDividend),
		YearsHeld:       r.YearsHeld,
	}
}

func toYieldOnCostResponse(r *calculators.YieldOnCostResult) YieldOnCostResponse {
	resp := YieldOnCostResponse{
		InitialInvestment:     money(r.InitialInvestment),
		CurrentValue:          money(r.CurrentValue),
		AnnualIncome:          money(r.AnnualIncome),
		YieldOnCost:           pct(r.YieldOnCost),
		CurrentYield:          pct(r.CurrentYield),
		InitialYield:          pct(r.InitialYield),
		ImpliedDividendGrowth: pct(r.ImpliedDividendGrowth),
		ImpliedPriceGrowth:    pct(r.ImpliedPriceGrowth),
		TotalReturn:           pct(r.TotalReturn),
		Rows:                  make([]YieldOnCostRowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = YieldOnCostRowDTO{
			Year:             row.Year,
			DividendPerShare: rounded(row.DividendPerShare, 4),
			YieldOnCost:      pct(row.YieldOnCost),
		}
	}
	return resp
}

// RetirementIncomeRequest is the retirement income calculator input.
type RetirementIncomeRequest struct {
	PortfolioValue    float64  `json:"portfolio_value"`
	TargetIncome      float64  `json:"target_income"`  // annual
	DividendYield     float64  `json:"dividend_yield"` // percent
	YearsToRetirement int      `json:"years_to_retirement"`
	ExpectedReturn    *float64 `json:"expected_return,omitempty"` // percent, default 7
}

type RetirementIncomeResponse struct {
	RequiredPortfolio           float64 `json:"required_portfolio"`
	CurrentIncome               float64 `json:"current_income"`
	MonthlyIncome               float64 `json:"monthly_income"`
	Gap                         float64 `json:"gap"`
	OnTrack                     bool    `json:"on_track"`
	RequiredMonthlyContribution float64 `json:"required_monthly_contribution"`
}

func (r RetirementIncomeRequest) toInput() calculators.RetirementIncomeInput {
	in := calculators.RetirementIncomeInput{
		PortfolioValue:    dec(r.PortfolioValue),
		TargetIncome:      dec(r.TargetIncome),
		DividendYield:     fromPct(r.DividendYield),
		YearsToRetirement: r.YearsToRetirement,
	}
	if r.ExpectedReturn != nil {
		expected := fromPct(*r.ExpectedReturn)
		in.ExpectedReturn = &expected
	}
	return in
}

func toRetirementIncomeResponse(r *calculators.RetirementIncomeResult) RetirementIncomeResponse {
	return RetirementIncomeResponse{
		RequiredPortfolio:           money(r.RequiredPortfolio),
		CurrentIncome:               money(r.CurrentIncome),
		MonthlyIncome:               money(r.MonthlyIncome),
		Gap:                         money(r.Gap),
		OnTrack:                     r.OnTrack,
		RequiredMonthlyContribution: money(r.RequiredMonthlyContribution),
	}
}

// IRARequest is the traditional vs Roth IRA calculator input.
type IRARequest struct {
	CurrentAge         int     `json:"current_age"`
	RetirementAge      int     `json:"retirement_age"`
	AnnualContribution float64 `json:"annual_contribution"`
	CurrentBalance     float64 `json:"current_balance"`
	ExpectedReturn     float64 `json:"expected_return"`     // percent
	CurrentTaxRate     float64 `json:"current_tax_rate"`    // percent
	RetirementTaxRate  float64 `json:"retirement_tax_rate"` // percent
}

type IRARowDTO struct {
	Age                int     `json:"age"`
	Contribution       float64 `json:"contribution"`
	TraditionalBalance float64 `json:"traditional_balance"`
	RothBalance        float64 `json:"roth_balance"`
}

type IRAResponse struct {
	TraditionalBalance   float64     `json:"traditional_balance"`
	RothBalance          float64     `json:"roth_balance"`
	TraditionalAfterTax  float64     `json:"traditional_after_tax"`
	RothAfterTax         float64     `json:"roth_after_tax"`
	TaxSavingsNow        float64     `json:"tax_savings_now"`
	TaxSavingsRetirement float64     `json:"tax_savings_retirement"`
	Recommendation       string      `json:"recommendation"`
	Rows                 []IRARowDTO `json:"rows"`
}

func (r IRARequest) toInput() calculators.IRAInput {
	return calculators.IRAInput{
		CurrentAge:         r.CurrentAge,
		RetirementAge:      r.RetirementAge,
		AnnualContribution: dec(r.AnnualContribution),
		CurrentBalance:     dec(r.CurrentBalance),
		ExpectedReturn:     fromPct(r.ExpectedReturn),
		CurrentTaxRate:     fromPct(r.CurrentTaxRate),
		RetirementTaxRate:  fromPct(r.RetirementTaxRate),
	}
}

func toIRAResponse(r *calculators.IRAResult) IRAResponse {
	resp := IRAResponse{
		TraditionalBalance:   money(r.TraditionalBalance),
		RothBalance:          money(r.RothBalance),
		TraditionalAfterTax:  money(r.TraditionalAfterTax),
		RothAfterTax:         money(r.RothAfterTax),
		TaxSavingsNow:        money(r.TaxSavingsNow),
		TaxSavingsRetirement: money(r.TaxSavingsRetirement),
		Recommendation:       string(r.Recommendation),
		Rows:                 make([]IRARowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = IRARowDTO{
			Age:                row.Age,
			Contribution:       money(row.Contribution),
			TraditionalBalance: money(row.TraditionalBalance),
			RothBalance:        money(row.RothBalance),
		}
	}
	return resp
}

// FourOhOneKRequest is the 401(k) calculator input.
type FourOhOneKRequest struct {
	CurrentAge       int     `json:"current_age"`
	RetirementAge    int     `json:"retirement_age"`
	Salary           float64 `json:"salary"`
	CurrentBalance   float64 `json:"current_balance"`
	ContributionRate float64 `json:"contribution_rate"` // percent of salary
	EmployerMatch    float64 `json:"employer_match"`    // percent of matched pay
	MatchLimit       float64 `json:"match_limit"`       // percent of salary
	ExpectedReturn   float64 `json:"expected_return"`   // percent
	SalaryGrowth     float64 `json:"salary_growth"`     // percent
	MarginalTaxRate  float64 `json:"marginal_tax_rate"` // percent
}

type FourOhOneKRowDTO struct {
	Age                  int     `json:"age"`
	Salary               float64 `json:"salary"`
	EmployeeContribution float64 `json:"employee_contribution"`
	EmployerMatch        float64 `json:"employer_match"`
	InvestmentGain       float64 `json:"investment_gain"`
	Balance              float64 `json:"balance"`
}

type FourOhOneKResponse struct {
	FinalBalance          float64            `json:"final_balance"`
	EmployeeContributions float64            `json:"employee_contributions"`
	EmployerContributions float64            `json:"employer_contributions"`
	TotalContributions    float64            `json:"total_contributions"`
	InvestmentGains       float64            `json:"investment_gains"`
	RetirementIncome      float64            `json:"retirement_income"`
	TaxSavings            float64            `json:"tax_savings"`
	ExceedsDeferralLimit  bool               `json:"exceeds_deferral_limit"`
	Rows                  []FourOhOneKRowDTO `json:"rows"`
}

func (r FourOhOneKRequest) toInput() calculators.FourOhOneKInput {
	return calculators.FourOhOneKInput{
		CurrentAge:       r.CurrentAge,
		RetirementAge:    r.RetirementAge,
		Salary:           dec(r.Salary),
		CurrentBalance:   dec(r.CurrentBalance),
		ContributionRate: fromPct(r.ContributionRate),
		EmployerMatch:    fromPct(r.EmployerMatch),
		MatchLimit:       fromPct(r.MatchLimit),
		ExpectedReturn:   fromPct(r.ExpectedReturn),
		SalaryGrowth:     fromPct(r.SalaryGrowth),
		MarginalTaxRate:  fromPct(r.MarginalTaxRate),
	}
}

func toFourOhOneKResponse(r *calculators.FourOhOneKResult) FourOhOneKResponse {
	resp := FourOhOneKResponse{
		FinalBalance:          money(r.FinalBalance),
		EmployeeContributions: money(r.EmployeeContributions),
		EmployerContributions: money(r.EmployerContributions),
		TotalContributions:    money(r.TotalContributions),
		InvestmentGains:       money(r.InvestmentGains),
		RetirementIncome:      money(r.RetirementIncome),
		TaxSavings:            money(r.TaxSavings),
		ExceedsDeferralLimit:  r.ExceedsDeferralLimit,
		Rows:                  make([]FourOhOneKRowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = FourOhOneKRowDTO{
			Age:                  row.Age,
			Salary:               money(row.Salary),
			EmployeeContribution: money(row.EmployeeContribution),
			EmployerMatch:        money(row.EmployerMatch),
			InvestmentGain:       money(row.InvestmentGain),
			Balance:              money(row.Balance),
		}
	}
	return resp
}

// SavingsRequest is the savings goal calculator input.
type SavingsRequest struct {
	Goal                float64 `json:"goal"`
	CurrentSavings      float64 `json:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRate          float64 `json:"annual_rate"` // percent, compounded monthly
	Months              int     `json:"months"`
}

type SavingsRowDTO struct {
	Month        int     `json:"month"`
	Contribution float64 `json:"contribution"`
	Interest     float64 `json:"interest"`
	Balance      float64 `json:"balance"`
}

type SavingsResponse struct {
	GoalMet            bool            `json:"goal_met"`
	MonthsToGoal       int             `json:"months_to_goal"`
	RequiredMonthly    float64         `json:"required_monthly"`
	FinalBalance       float64         `json:"final_balance"`
	TotalContributions float64         `json:"total_contributions"`
	InterestEarned     float64         `json:"interest_earned"`
	Rows               []SavingsRowDTO `json:"rows"`
}

func (r SavingsRequest) toInput() calculators.SavingsInput {
	return calculators.SavingsInput{
		Goal:                dec(r.Goal),
		CurrentSavings:      dec(r.CurrentSavings),
		MonthlyContribution: dec(r.MonthlyContribution),
		AnnualRate:          fromPct(r.AnnualRate),
		Months:              r.Months,
	}
}

func toSavingsResponse(r *calculators.SavingsResult) SavingsResponse {
	resp := SavingsResponse{
		GoalMet:            r.GoalMet,
		MonthsToGoal:       r.MonthsToGoal,
		RequiredMonthly:    money(r.RequiredMonthly),
		FinalBalance:       money(r.FinalBalance),
		TotalContributions: money(r.TotalContributions),
		InterestEarned:     money(r.InterestEarned),
		Rows:               make([]SavingsRowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = SavingsRowDTO{
			Month:        row.Month,
			Contribution: money(row.Contribution),
			Interest:     money(row.Interest),
			Balance:      money(row.Balance),
		}
	}
	return resp
}

// CompoundInterestRequest is the compound interest calculator input.
type CompoundInterestRequest struct {
	Principal           float64 `json:"principal"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRate          float64 `json:"annual_rate"` // percent, nominal
	Years               int     `json:"years"`
	CompoundingPerYear  int     `json:"compounding_per_year,omitempty"` // 1, 2, 4, 12, 365
}

type CompoundInterestRowDTO struct {
	Year            int     `json:"year"`
	StartingBalance float64 `json:"starting_balance"`
	Contributions   float64 `json:"contributions"`
	Interest        float64 `json:"interest"`
	EndingBalance   float64 `json:"ending_balance"`
}

type CompoundInterestResponse struct {
	EffectiveAnnualRate float64                  `json:"effective_annual_rate"`
	FinalBalance        float64                  `json:"final_balance"`
	TotalContributions  float64                  `json:"total_contributions"`
	TotalInterest       float64                  `json:"total_interest"`
	Rows                []CompoundInterestRowDTO `json:"rows"`
}

func (r CompoundInterestRequest) toInput() calculators.CompoundInterestInput {
	return calculators.CompoundInterestInput{
		Principal:           dec(r.Principal),
		MonthlyContribution: dec(r.MonthlyContribution),
		AnnualRate:          fromPct(r.AnnualRate),
		Years:               r.Years,
		CompoundingPerYear:  r.CompoundingPerYear,
	}
}

func toCompoundInterestResponse(r *calculators.CompoundInterestResult) CompoundInterestResponse {
	resp := CompoundInterestResponse{
		EffectiveAnnualRate: pct(r.EffectiveAnnualRate),
		FinalBalance:        money(r.FinalBalance),
		TotalContributions:  money(r.TotalContributions),
		TotalInterest:       money(r.TotalInterest),
		Rows:                make([]CompoundInterestRowDTO, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = CompoundInterestRowDTO{
			Year:            row.Year,
			StartingBalance: money(row.StartingBalance),
			Contributions:   money(row.Contributions),
			Interest:        money(row.Interest),
			EndingBalance:   money(row.EndingBalance),
		}
	}
	return resp
}

// InvestmentReturnRequest is the investment return calculator input.
type InvestmentReturnRequest struct {
	InitialInvestment float64 `json:"initial_investment"`
	FinalValue        float64 `json:"final_value"`
	Years             float64 `json:"years"`
}

type InvestmentReturnResponse struct {
	ProfitLoss       float64 `json:"profit_loss"`
	TotalReturn      float64 `json:"total_return"`      // percent
	AnnualizedReturn float64 `json:"annualized_return"` // percent
}

func (r InvestmentReturnRequest) toInput() calculators.InvestmentReturnInput {
	return calculators.InvestmentReturnInput{
		InitialInvestment: dec(r.InitialInvestment),
		FinalValue:        dec(r.FinalValue),
		Years:             dec(r.Years),
	}
}

func toInvestmentReturnResponse(r *calculators.InvestmentReturnResult) InvestmentReturnResponse {
	return InvestmentReturnResponse{
		ProfitLoss:       money(r.ProfitLoss),
		TotalReturn:      pct(r.TotalReturn),
		AnnualizedReturn: pct(r.AnnualizedReturn),
	}
}

// =============================================================================
// PRESETS
// =============================================================================

// PresetDTO represents a preset in API responses.
type PresetDTO struct {
	ID          string             `json:"id"`
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	BuiltIn     bool               `json:"built_in"`
	Version     int                `json:"version"`
	Config      factory.ConfigJSON `json:"config"`
	CreatedAt   string             `json:"created_at,omitempty"`
	UpdatedAt   string             `json:"updated_at,omitempty"`
}

// CreatePresetRequest is the request to save a user preset.
type CreatePresetRequest struct {
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Config      factory.ConfigJSON `json:"config"`
}

// =============================================================================
// TAX TABLES
// =============================================================================

type BracketDTO struct {
	Min  float64 `json:"min"`
	Rate float64 `json:"rate"` // percent
}

// TaxTableDTO represents one year's brackets for one filing status.
type TaxTableDTO struct {
	Year         int          `json:"year"`
	FilingStatus string       `json:"filing_status"`
	Ordinary     []BracketDTO `json:"ordinary"`
	Qualified    []BracketDTO `json:"qualified"`
}

// TaxProfileDTO is the profile derived for a taxable income. It can be sent
// back as the tax block of a projection config.
type TaxProfileDTO struct {
	TaxableIncome float64         `json:"taxable_income"`
	Profile       factory.TaxJSON `json:"profile"`
	EffectiveRate float64         `json:"effective_rate"` // percent
	OrdinaryTax   float64         `json:"ordinary_tax"`   // on the taxable income itself
}

func toTaxTableDTO(t engine.TaxTable) TaxTableDTO {
	return TaxTableDTO{
		Year:         t.Year,
		FilingStatus: string(t.FilingStatus),
		Ordinary:     toBracketDTOs(t.Ordinary),
		Qualified:    toBracketDTOs(t.Qualified),
	}
}

func toBracketDTOs(brackets []engine.Bracket) []BracketDTO {
	out := make([]BracketDTO, len(brackets))
	for i, b := range brackets {
		out[i] = BracketDTO{Min: money(b.Min), Rate: pct(b.Rate)}
	}
	return out
}

// =============================================================================
// NUMBER HELPERS
// =============================================================================

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func fromPct(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Div(hundred) }

func rounded(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

func money(d decimal.Decimal) float64  { return rounded(d, 2) }
func shares(d decimal.Decimal) float64 { return rounded(d, 6) }

// pct converts a fraction to percent with four decimals.
func pct(d decimal.Decimal) float64 { return rounded(d.Mul(hundred), 4) }

func nullMoney(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := money(d.Decimal)
	return &v
}
