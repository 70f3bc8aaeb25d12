/*
handlers_test.go - Unit tests for API handlers

Tests for:
- DRIP projection (JSON body, query string, caching, error mapping)
- Calculator endpoints
- Preset and tax table reference data
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/dividend-engine/config"
	"github.com/warp/dividend-engine/store/sqlite"
)

const scenarioJSON = `{
	"initial_investment": 100000,
	"starting_yield": 4,
	"dividend_growth_rate": 6,
	"price_appreciation_rate": 7,
	"payment_frequency": "annual",
	"horizon_years": 10
}`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	h := NewHandler(store, time.Minute)
	require.NoError(t, h.SeedPresets(ctx))

	tables, err := config.DefaultTaxTables()
	require.NoError(t, err)
	require.NoError(t, h.SeedTaxTables(ctx, tables))
	return h
}

func newTestRouter(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	h := newTestHandler(t)
	return h, NewRouter(h, RouterOptions{AllowedOrigins: []string{"*"}})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

// =============================================================================
// DRIP
// =============================================================================

func TestProjectDrip_Post(t *testing.T) {
	_, router := newTestRouter(t)

	// WHEN: projecting $100k at 4% yield, 6% DGR, 7% appreciation for 10 years
	rec := do(t, router, http.MethodPost, "/api/calculators/drip", scenarioJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[DripResponse](t, rec)

	// THEN: the reinvested portfolio ends between $280k and $290k
	assert.Greater(t, resp.Summary.EndingPortfolioValue, 280000.0)
	assert.Less(t, resp.Summary.EndingPortfolioValue, 290000.0)
	assert.Len(t, resp.Years, 10)
	assert.Empty(t, resp.Periods)
	assert.Empty(t, resp.Lots)

	// Income from the original shares only
	year10 := resp.Years[9]
	assert.Greater(t, year10.InitialLotIncome, 7000.0)
	assert.Less(t, year10.InitialLotIncome, 7300.0)

	// Milestones beyond the horizon are absent
	assert.Contains(t, resp.Milestones, 5)
	assert.Contains(t, resp.Milestones, 10)
	assert.NotContains(t, resp.Milestones, 15)

	assert.Greater(t, resp.ReinvestmentAdvantage, 0.0)
	assert.Less(t, resp.WithoutReinvestment.EndingPortfolioValue, resp.Summary.EndingPortfolioValue)

	// Echoed config is normalized
	assert.Equal(t, "monthly", resp.Config.ContributionFrequency)
	require.NotNil(t, resp.Config.Reinvest)
	assert.True(t, *resp.Config.Reinvest)
}

func TestProjectDrip_GetMatchesPost(t *testing.T) {
	_, router := newTestRouter(t)

	post := decode[DripResponse](t, do(t, router, http.MethodPost, "/api/calculators/drip", scenarioJSON))

	rec := do(t, router, http.MethodGet,
		"/api/calculators/drip?initial_investment=100000&starting_yield=4&dividend_growth_rate=6&price_appreciation_rate=7&payment_frequency=annual&horizon_years=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	get := decode[DripResponse](t, rec)

	assert.Equal(t, post.Summary, get.Summary)
}

func TestProjectDrip_IncludePeriodsAndLots(t *testing.T) {
	_, router := newTestRouter(t)

	body := `{"initial_investment": 10000, "starting_yield": 4, "horizon_years": 2, "payment_frequency": "quarterly"}`
	rec := do(t, router, http.MethodPost, "/api/calculators/drip?include_periods=true&include_lots=true", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[DripResponse](t, rec)

	require.Len(t, resp.Periods, 8)
	assert.Equal(t, 1, resp.Periods[0].PeriodIndex)
	assert.Equal(t, "2026-03-31", resp.Periods[0].Date)
	assert.Equal(t, 2, resp.Periods[7].Year)

	require.NotEmpty(t, resp.Lots)
	assert.Equal(t, "initial", resp.Lots[0].Source)
	assert.Equal(t, 10000.0, resp.Lots[0].Cost)
}

func TestProjectDrip_Cache(t *testing.T) {
	h, router := newTestRouter(t)
	h.cache.Flush()

	// GIVEN: the same config sent twice
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/calculators/drip", scenarioJSON).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/calculators/drip", scenarioJSON).Code)

	// THEN: one cache entry
	assert.Equal(t, 1, h.cache.ItemCount())

	// A config that only differs in defaults shares the entry
	withDefaults := strings.Replace(scenarioJSON, `"horizon_years": 10`, `"horizon_years": 10, "contribution_frequency": "monthly", "reinvest": true`, 1)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/calculators/drip", withDefaults).Code)
	assert.Equal(t, 1, h.cache.ItemCount())

	// A different config does not
	other := strings.Replace(scenarioJSON, `"horizon_years": 10`, `"horizon_years": 11`, 1)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/calculators/drip", other).Code)
	assert.Equal(t, 2, h.cache.ItemCount())
}

func TestProjectDrip_Errors(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		reason string
		field  string
	}{
		{
			name: "zero horizon", method: http.MethodPost, path: "/api/calculators/drip",
			body:   `{"initial_investment": 1000, "horizon_years": 0}`,
			reason: "NEGATIVE_HORIZON", field: "horizon_years",
		},
		{
			name: "weekly payments", method: http.MethodPost, path: "/api/calculators/drip",
			body:   `{"initial_investment": 1000, "horizon_years": 5, "payment_frequency": "weekly"}`,
			reason: "UNSUPPORTED_FREQUENCY", field: "payment_frequency",
		},
		{
			name: "dividend growth below floor", method: http.MethodPost, path: "/api/calculators/drip",
			body:   `{"initial_investment": 1000, "horizon_years": 5, "dividend_growth_rate": -150}`,
			reason: "DIVIDEND_GROWTH_BELOW_FLOOR", field: "dividend_growth_rate",
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/api/calculators/drip",
			body:   `{"initial_investment": `,
			reason: "INVALID_INPUT",
		},
		{
			name: "bad query number", method: http.MethodGet,
			path:   "/api/calculators/drip?initial_investment=1000&horizon_years=ten",
			reason: "INVALID_INPUT", field: "horizon_years",
		},
		{
			name: "NaN query number", method: http.MethodGet,
			path:   "/api/calculators/drip?initial_investment=NaN&horizon_years=10&starting_yield=4",
			reason: "INVALID_INPUT", field: "initial_investment",
		},
		{
			name: "price rounds to zero", method: http.MethodPost, path: "/api/calculators/drip",
			body:   `{"initial_investment": 10000, "recurring_contribution": 1000, "contribution_frequency": "annual", "payment_frequency": "annual", "starting_yield": 4, "price_appreciation_rate": -99, "horizon_years": 10}`,
			reason: "PRICE_APPRECIATION_BELOW_FLOOR", field: "price_appreciation_rate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Equal(t, tt.field, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

// =============================================================================
// CALCULATORS
// =============================================================================

func TestCalculators(t *testing.T) {
	_, router := newTestRouter(t)

	t.Run("dividend growth", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/dividend-growth",
			`{"shares": 1000, "current_dividend": 2.5, "growth_rate": 7, "years": 20}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[DividendGrowthResponse](t, rec)

		assert.Len(t, resp.Rows, 21)
		assert.InDelta(t, 9.6742, resp.FinalDividend, 0.0001)
		assert.InDelta(t, 112162.94, resp.TotalReceived, 0.01)
	})

	t.Run("yield on cost", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/yield-on-cost",
			`{"shares": 500, "purchase_price": 50, "current_price": 75, "initial_dividend": 2, "current_dividend": 3.5, "years_held": 10}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[YieldOnCostResponse](t, rec)

		assert.Equal(t, 7.0, resp.YieldOnCost)
		assert.Equal(t, 4.0, resp.InitialYield)
		assert.Equal(t, 1750.0, resp.AnnualIncome)
		assert.InDelta(t, 5.7557, resp.ImpliedDividendGrowth, 0.0001)
	})

	t.Run("retirement income", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/retirement-income",
			`{"portfolio_value": 500000, "target_income": 40000, "dividend_yield": 4, "years_to_retirement": 15}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[RetirementIncomeResponse](t, rec)

		assert.Equal(t, 1000000.0, resp.RequiredPortfolio)
		assert.Equal(t, 20000.0, resp.CurrentIncome)
		assert.False(t, resp.OnTrack)
		assert.Greater(t, resp.RequiredMonthlyContribution, 0.0)
	})

	t.Run("retirement income with zero return", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/retirement-income",
			`{"portfolio_value": 100000, "target_income": 10000, "dividend_yield": 5, "years_to_retirement": 10, "expected_return": 0}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[RetirementIncomeResponse](t, rec)

		assert.InDelta(t, 833.33, resp.RequiredMonthlyContribution, 0.01)
	})

	t.Run("ira", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/ira",
			`{"current_age": 30, "retirement_age": 65, "annual_contribution": 7000, "expected_return": 7, "current_tax_rate": 22, "retirement_tax_rate": 12}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[IRAResponse](t, rec)

		assert.Len(t, resp.Rows, 35)
		assert.Equal(t, 31, resp.Rows[0].Age)
		assert.Equal(t, "traditional", resp.Recommendation)
		assert.Equal(t, resp.TraditionalBalance, resp.RothBalance)
		assert.Less(t, resp.TraditionalAfterTax, resp.RothAfterTax)
	})

	t.Run("401k", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/401k",
			`{"current_age": 30, "retirement_age": 33, "salary": 100000, "contribution_rate": 10, "employer_match": 50, "match_limit": 6, "marginal_tax_rate": 24}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[FourOhOneKResponse](t, rec)

		assert.Len(t, resp.Rows, 3)
		assert.Equal(t, 39000.0, resp.FinalBalance)
		assert.Equal(t, 9000.0, resp.EmployerContributions)
		assert.Equal(t, 1560.0, resp.RetirementIncome)
		assert.Equal(t, 7200.0, resp.TaxSavings)
	})

	t.Run("savings", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/savings",
			`{"goal": 50000, "current_savings": 5000, "monthly_contribution": 500, "annual_rate": 4, "months": 60}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[SavingsResponse](t, rec)

		assert.Len(t, resp.Rows, 60)
		assert.False(t, resp.GoalMet)
		assert.InDelta(t, 39254.47, resp.FinalBalance, 0.011)
		assert.InDelta(t, 662.08, resp.RequiredMonthly, 0.011)
	})

	t.Run("compound interest", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/compound-interest",
			`{"principal": 10000, "annual_rate": 5, "years": 10, "compounding_per_year": 1}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[CompoundInterestResponse](t, rec)

		assert.InDelta(t, 16288.95, resp.FinalBalance, 0.01)
		assert.InDelta(t, 5.0, resp.EffectiveAnnualRate, 0.0001)
		assert.Len(t, resp.Rows, 10)
	})

	t.Run("investment return", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/calculators/investment-return",
			`{"initial_investment": 10000, "final_value": 15000, "years": 5}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[InvestmentReturnResponse](t, rec)

		assert.Equal(t, 5000.0, resp.ProfitLoss)
		assert.Equal(t, 50.0, resp.TotalReturn)
		assert.InDelta(t, 8.4472, resp.AnnualizedReturn, 0.0001)
	})
}

func TestCalculators_InvalidInput(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		path  string
		body  string
		field string
	}{
		{"/api/calculators/dividend-growth", `{"current_dividend": 1, "years": 5}`, "shares"},
		{"/api/calculators/ira", `{"current_age": 40, "retirement_age": 30}`, "retirement_age"},
		{"/api/calculators/compound-interest", `{"principal": 1, "years": 1, "compounding_per_year": 7}`, "compounding_per_year"},
		{"/api/calculators/investment-return", `{"initial_investment": 0, "final_value": 10, "years": 1}`, "initial_investment"},
		{"/api/calculators/401k", `{"current_age": 30, "retirement_age": 65, "salary": 0}`, "salary"},
		{"/api/calculators/savings", `{"goal": 1000, "current_savings": 10, "months": 0}`, "months"},
		{"/api/calculators/yield-on-cost", `not json`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.field, resp.Field)
			assert.NotEmpty(t, resp.Reason)
		})
	}
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_ListAndGet(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	presets := decode[[]PresetDTO](t, rec)
	require.Len(t, presets, 6)
	for _, p := range presets {
		assert.True(t, p.BuiltIn, p.ID)
	}

	rec = do(t, router, http.MethodGet, "/api/presets/fire", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fire := decode[PresetDTO](t, rec)
	assert.Equal(t, "Early Retirement (FIRE)", fire.Name)
	assert.Equal(t, 25000.0, fire.Config.InitialInvestment)
	assert.Equal(t, 15, fire.Config.HorizonYears)

	rec = do(t, router, http.MethodGet, "/api/presets/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPresets_Projection(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/presets/conservative/projection", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[DripResponse](t, rec)

	assert.Len(t, resp.Years, 20)
	// $100k plus $500 a month for 20 years
	assert.InDelta(t, 220000.0, resp.Summary.TotalContributed, 0.01)
	assert.NotNil(t, resp.Summary.AfterTaxAnnualIncome)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/presets/missing/projection", "").Code)
}

func TestPresets_CreateAndDelete(t *testing.T) {
	_, router := newTestRouter(t)

	body := `{"slug": "my-plan", "name": "My Plan", "config": {"initial_investment": 20000, "starting_yield": 3, "horizon_years": 15}}`

	// WHEN: creating a user preset
	rec := do(t, router, http.MethodPost, "/api/presets", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[PresetDTO](t, rec)

	// THEN: the stored config is normalized
	assert.False(t, created.BuiltIn)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "quarterly", created.Config.PaymentFrequency)

	// AND: it can be projected by slug
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/presets/my-plan/projection", "").Code)

	// Duplicate slug
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/presets", body).Code)

	// Built-in presets are protected
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodDelete, "/api/presets/conservative", "").Code)

	// Delete the user preset
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/presets/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/presets/my-plan", "").Code)
}

func TestPresets_CreateInvalid(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name   string
		body   string
		reason string
		field  string
	}{
		{"missing slug", `{"name": "X", "config": {"initial_investment": 1, "horizon_years": 1}}`, "INVALID_INPUT", "slug"},
		{"slug with slash", `{"slug": "a/b", "name": "X", "config": {"initial_investment": 1, "horizon_years": 1}}`, "INVALID_INPUT", "slug"},
		{"missing name", `{"slug": "x", "config": {"initial_investment": 1, "horizon_years": 1}}`, "INVALID_INPUT", "name"},
		{"invalid config", `{"slug": "x", "name": "X", "config": {"initial_investment": 1, "horizon_years": 101}}`, "HORIZON_TOO_LONG", "horizon_years"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/presets", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

// =============================================================================
// TAX TABLES
// =============================================================================

func TestTaxTables(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/tax-tables", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]TaxTableDTO](t, rec), 3)

	rec = do(t, router, http.MethodGet, "/api/tax-tables/2026/single", "")
	require.Equal(t, http.StatusOK, rec.Code)
	table := decode[TaxTableDTO](t, rec)
	require.Len(t, table.Ordinary, 7)
	assert.Equal(t, 10.0, table.Ordinary[0].Rate)
	assert.Equal(t, 609350.0, table.Ordinary[6].Min)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/tax-tables/1999/single", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/tax-tables/next/single", "").Code)
}

func TestTaxProfile(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name          string
		query         string
		wantClass     string
		wantMarginal  float64
		wantQualified float64
		wantEffective float64
	}{
		{"qualified by default", "taxable_income=75000", "qualified", 22, 15, 15},
		{"ordinary", "taxable_income=75000&class=ordinary", "ordinary", 22, 15, 22},
		{"mixed", "taxable_income=75000&class=mixed&qualified_share=60", "mixed", 22, 15, 17.8},
		{"zero bracket", "taxable_income=30000", "qualified", 12, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/api/tax-tables/2026/single/profile?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decode[TaxProfileDTO](t, rec)

			assert.Equal(t, tt.wantClass, resp.Profile.DividendClass)
			assert.Equal(t, tt.wantMarginal, resp.Profile.MarginalRate)
			assert.Equal(t, tt.wantQualified, resp.Profile.QualifiedRate)
			assert.InDelta(t, tt.wantEffective, resp.EffectiveRate, 0.0001)
		})
	}
}

func TestTaxProfile_Invalid(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		query string
		field string
	}{
		{"", "taxable_income"},
		{"taxable_income=-5", "taxable_income"},
		{"taxable_income=1000&qualified_share=half", "qualified_share"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/api/tax-tables/2026/single/profile?"+tt.query, "")
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.field, decode[ErrorResponse](t, rec).Field)
		})
	}

	rec := do(t, router, http.MethodGet, "/api/tax-tables/2026/single/profile?taxable_income=1000&class=foreign", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNSUPPORTED_DIVIDEND_CLASS", decode[ErrorResponse](t, rec).Reason)
}
