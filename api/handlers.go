/*
handlers.go - HTTP API handlers for the dividend projection engine

PURPOSE:
  Exposes the projection engine and the calculators built on it via REST
  API. Handles HTTP request/response, JSON serialization, and delegates to
  the engine.

ENDPOINTS:
  Calculators:
    POST   /api/calculators/drip               DRIP projection (JSON body)
    GET    /api/calculators/drip               DRIP projection (query string)
    POST   /api/calculators/dividend-growth    Dividend growth of a fixed holding
    POST   /api/calculators/yield-on-cost      Yield on cost of a past purchase
    POST   /api/calculators/retirement-income  Portfolio needed for a target income
    POST   /api/calculators/ira                Traditional vs Roth IRA
    POST   /api/calculators/401k               401(k) with salary growth and employer match
    POST   /api/calculators/savings            Savings goal and required monthly deposit
    POST   /api/calculators/compound-interest  Compound interest with contributions
    POST   /api/calculators/investment-return  Total and annualized return

  Presets:
    GET    /api/presets                        List presets
    POST   /api/presets                        Save a user preset
    GET    /api/presets/{id}                   Get preset by ID or slug
    DELETE /api/presets/{id}                   Delete a user preset
    GET    /api/presets/{id}/projection        DRIP projection of a preset

  Tax tables:
    GET    /api/tax-tables                          List bracket tables
    GET    /api/tax-tables/{year}/{status}          Get one table
    GET    /api/tax-tables/{year}/{status}/profile  Derive a tax profile

QUERY OPTIONS (projection endpoints):
  include_periods=true   Add the full period series
  include_lots=true      Add the purchase lots behind the cost basis

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Reference data (presets, tax tables)
  - ConfigFactory: JSON / query string to ProjectionConfig conversion
  - cache: DRIP results keyed by normalized config

REQUEST FLOW:
  1. Parse HTTP request
  2. Convert to engine or calculator input
  3. Run the engine (pure, no I/O)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: InvalidConfigError, with reason code and field
  - 404: Preset or tax table not found
  - 409: Duplicate slug, deleting a built-in preset
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - presets.go: Reference data seeding
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/calculators"
	"github.com/warp/dividend-engine/engine"
	"github.com/warp/dividend-engine/factory"
	"github.com/warp/dividend-engine/logger"
	"github.com/warp/dividend-engine/store/sqlite"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	ConfigFactory *factory.ConfigFactory

	// DRIP results keyed by normalized config JSON. The engine is pure, so
	// an entry never goes stale; the TTL only bounds memory.
	cache *cache.Cache
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, cacheTTL time.Duration) *Handler {
	return &Handler{
		Store:         store,
		ConfigFactory: factory.NewConfigFactory(),
		cache:         cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// DRIP
// =============================================================================

// ProjectDrip runs the DRIP calculator. POST reads a ConfigJSON body; GET
// reads the same fields from the query string.
func (h *Handler) ProjectDrip(w http.ResponseWriter, r *http.Request) {
	var (
		cfg engine.ProjectionConfig
		err error
	)
	if r.Method == http.MethodGet {
		cfg, err = h.ConfigFactory.FromValues(r.URL.Query())
	} else {
		var cj factory.ConfigJSON
		if err = decodeJSON(w, r, &cj); err == nil {
			cfg, err = h.ConfigFactory.FromJSON(cj)
		}
	}
	if err != nil {
		writeEngineError(w, r, "Invalid projection config", err)
		return
	}

	h.writeDrip(w, r, cfg)
}

func (h *Handler) writeDrip(w http.ResponseWriter, r *http.Request, cfg engine.ProjectionConfig) {
	result, err := h.drip(r.Context(), cfg)
	if err != nil {
		writeEngineError(w, r, "Projection failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toDripResponse(result, projectionOptionsFrom(r)))
}

// drip returns the DRIP result for cfg, from cache when possible.
func (h *Handler) drip(ctx context.Context, cfg engine.ProjectionConfig) (*calculators.DripResult, error) {
	key, err := h.cacheKey(cfg)
	if err != nil {
		return nil, err
	}
	if cached, found := h.cache.Get(key); found {
		logger.FromContext(ctx).Debug("Projection cache hit", "key", key)
		return cached.(*calculators.DripResult), nil
	}

	result, err := calculators.Drip(cfg)
	if err != nil {
		return nil, err
	}
	h.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

func (h *Handler) cacheKey(cfg engine.ProjectionConfig) (string, error) {
	raw, err := json.Marshal(h.ConfigFactory.ToJSON(cfg))
	if err != nil {
		return "", fmt.Errorf("failed to build cache key: %w", err)
	}
	return "drip:" + string(raw), nil
}

func projectionOptionsFrom(r *http.Request) projectionOptions {
	q := r.URL.Query()
	includePeriods, _ := strconv.ParseBool(q.Get("include_periods"))
	includeLots, _ := strconv.ParseBool(q.Get("include_lots"))
	return projectionOptions{IncludePeriods: includePeriods, IncludeLots: includeLots}
}

// =============================================================================
// CALCULATORS
// =============================================================================

// DividendGrowth runs the dividend growth calculator.
func (h *Handler) DividendGrowth(w http.ResponseWriter, r *http.Request) {
	var req DividendGrowthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.DividendGrowth(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Dividend growth calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toDividendGrowthResponse(result))
}

// YieldOnCost runs the yield on cost calculator.
func (h *Handler) YieldOnCost(w http.ResponseWriter, r *http.Request) {
	var req YieldOnCostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.YieldOnCost(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Yield on cost calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toYieldOnCostResponse(result))
}

// RetirementIncome runs the retirement income calculator.
func (h *Handler) RetirementIncome(w http.ResponseWriter, r *http.Request) {
	var req RetirementIncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.RetirementIncome(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Retirement income calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toRetirementIncomeResponse(result))
}

// IRA runs the traditional vs Roth comparison.
func (h *Handler) IRA(w http.ResponseWriter, r *http.Request) {
	var req IRARequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.IRA(req.toInput())
	if err != nil {
		writeEngineError(w, r, "IRA calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toIRAResponse(result))
}

// FourOhOneK runs the 401(k) calculator.
func (h *Handler) FourOhOneK(w http.ResponseWriter, r *http.Request) {
	var req FourOhOneKRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.FourOhOneK(req.toInput())
	if err != nil {
		writeEngineError(w, r, "401(k) calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toFourOhOneKResponse(result))
}

// Savings runs the savings goal calculator.
func (h *Handler) Savings(w http.ResponseWriter, r *http.Request) {
	var req SavingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.Savings(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Savings calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSavingsResponse(result))
}

// CompoundInterest runs the compound interest calculator.
func (h *Handler) CompoundInterest(w http.ResponseWriter, r *http.Request) {
	var req CompoundInterestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.CompoundInterest(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Compound interest calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompoundInterestResponse(result))
}

// InvestmentReturn runs the investment return calculator.
func (h *Handler) InvestmentReturn(w http.ResponseWriter, r *http.Request) {
	var req InvestmentReturnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}
	result, err := calculators.InvestmentReturn(req.toInput())
	if err != nil {
		writeEngineError(w, r, "Investment return calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentReturnResponse(result))
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns all presets.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPresets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets", err)
		return
	}

	dtos := make([]PresetDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toPresetDTO(rec)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Skipping unreadable preset", "id", rec.ID, "error", err)
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPreset returns a single preset by ID or slug.
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadPreset(w, r)
	if !ok {
		return
	}
	dto, err := toPresetDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read preset", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreatePreset validates and stores a user preset.
func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req CreatePresetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEngineError(w, r, "Invalid request body", err)
		return
	}

	req.Slug = strings.TrimSpace(req.Slug)
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Slug == "" || strings.ContainsAny(req.Slug, "/ "):
		writeEngineError(w, r, "Invalid preset", engine.NewInvalidInput("slug", "slug must be non-empty and contain no spaces or slashes"))
		return
	case req.Name == "":
		writeEngineError(w, r, "Invalid preset", engine.NewInvalidInput("name", "name is required"))
		return
	}

	cfg, err := h.ConfigFactory.FromJSON(req.Config)
	if err != nil {
		writeEngineError(w, r, "Invalid preset config", err)
		return
	}
	configJSON, err := json.Marshal(h.ConfigFactory.ToJSON(cfg))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode preset config", err)
		return
	}

	id, err := h.Store.SavePreset(r.Context(), sqlite.PresetRecord{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		ConfigJSON:  string(configJSON),
	})
	if errors.Is(err, sqlite.ErrDuplicateSlug) {
		writeError(w, http.StatusConflict, "Preset slug already exists", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save preset", err)
		return
	}

	rec, err := h.Store.GetPreset(r.Context(), id)
	if err != nil || rec == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload preset", err)
		return
	}
	dto, err := toPresetDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read preset", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// DeletePreset removes a user preset. Built-in presets cannot be deleted.
func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadPreset(w, r)
	if !ok {
		return
	}
	err := h.Store.DeletePreset(r.Context(), rec.ID)
	if errors.Is(err, sqlite.ErrBuiltInPreset) {
		writeError(w, http.StatusConflict, "Built-in presets cannot be deleted", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete preset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPresetProjection runs the DRIP calculator on a stored preset.
func (h *Handler) GetPresetProjection(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadPreset(w, r)
	if !ok {
		return
	}
	cfg, err := h.ConfigFactory.ParseConfig(rec.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored preset config is invalid", err)
		return
	}
	h.writeDrip(w, r, cfg)
}

func (h *Handler) loadPreset(w http.ResponseWriter, r *http.Request) (*sqlite.PresetRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetPreset(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get preset", err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Preset not found", nil)
		return nil, false
	}
	return rec, true
}

func toPresetDTO(rec sqlite.PresetRecord) (PresetDTO, error) {
	var cj factory.ConfigJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &cj); err != nil {
		return PresetDTO{}, fmt.Errorf("preset %s: %w", rec.ID, err)
	}
	return PresetDTO{
		ID:          rec.ID,
		Slug:        rec.Slug,
		Name:        rec.Name,
		Description: rec.Description,
		BuiltIn:     rec.BuiltIn,
		Version:     rec.Version,
		Config:      cj,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// =============================================================================
// TAX TABLE HANDLERS
// =============================================================================

// ListTaxTables returns every stored bracket table.
func (h *Handler) ListTaxTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Store.ListTaxTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tax tables", err)
		return
	}
	dtos := make([]TaxTableDTO, len(tables))
	for i, t := range tables {
		dtos[i] = toTaxTableDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTaxTable returns one table.
func (h *Handler) GetTaxTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTaxTable(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTaxTableDTO(*table))
}

// GetTaxProfile derives the tax profile for a taxable income.
//
// Query: taxable_income (required), class (qualified, ordinary, mixed;
// default qualified), qualified_share (percent, mixed only).
func (h *Handler) GetTaxProfile(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTaxTable(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	income, err := decimal.NewFromString(q.Get("taxable_income"))
	if err != nil || income.IsNegative() {
		writeEngineError(w, r, "Invalid taxable income", engine.NewInvalidInput("taxable_income", "taxable_income must be a non-negative number"))
		return
	}
	class := engine.DividendClass(q.Get("class"))
	if class == "" {
		class = engine.Qualified
	}
	share := decimal.Zero
	if raw := q.Get("qualified_share"); raw != "" {
		if share, err = decimal.NewFromString(raw); err != nil {
			writeEngineError(w, r, "Invalid qualified share", engine.NewInvalidInput("qualified_share", "qualified_share must be a number"))
			return
		}
		share = share.Div(hundred)
	}

	profile, err := table.Profile(income, class, share)
	if err != nil {
		writeEngineError(w, r, "Invalid tax profile", err)
		return
	}

	writeJSON(w, http.StatusOK, TaxProfileDTO{
		TaxableIncome: money(income),
		Profile: factory.TaxJSON{
			DividendClass:  string(profile.DividendClass),
			MarginalRate:   pct(profile.MarginalRate),
			QualifiedRate:  pct(profile.QualifiedRate),
			QualifiedShare: pct(profile.QualifiedShare),
		},
		EffectiveRate: pct(profile.EffectiveRate()),
		OrdinaryTax:   money(table.OrdinaryTax(income)),
	})
}

func (h *Handler) loadTaxTable(w http.ResponseWriter, r *http.Request) (*engine.TaxTable, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeEngineError(w, r, "Invalid year", engine.NewInvalidInput("year", "year must be an integer"))
		return nil, false
	}
	status := engine.FilingStatus(chi.URLParam(r, "status"))

	table, err := h.Store.GetTaxTable(r.Context(), year, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tax table", err)
		return nil, false
	}
	if table == nil {
		writeError(w, http.StatusNotFound, "Tax table not found", nil)
		return nil, false
	}
	return table, true
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeJSON reads a JSON body. Decoding failures are client errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return engine.NewInvalidInput("", "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps an InvalidConfigError onto 400 with its reason code
// and field. Anything else is a 500.
func writeEngineError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var invalid *engine.InvalidConfigError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   message,
			Details: invalid.Message,
			Reason:  string(invalid.Reason),
			Field:   invalid.Field,
		})
		return
	}
	logger.FromContext(r.Context()).Error(message, "error", err)
	writeError(w, http.StatusInternalServerError, message, err)
}
