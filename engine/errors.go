/*
errors.go - Error types for the projection engine

PURPOSE:
  The engine has exactly one failure kind: the input is malformed or out of
  domain. InvalidConfigError carries a machine-readable reason code so the
  hosting UI can map it onto a field-level validation message.

FAILURE MODEL:
  All validation happens before the first period is simulated. Nothing can
  fail mid-simulation, so there is no partial result and nothing to retry.

USAGE:
  _, err := engine.Project(cfg)
  var invalid *engine.InvalidConfigError
  if errors.As(err, &invalid) {
      switch invalid.Reason {
      case engine.ReasonNegativeHorizon:
          ...
      }
  }

SEE ALSO:
  - validate.go: Produces these errors
  - api/handlers.go: Maps them onto HTTP 400 responses
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

// ErrInvalidConfig is the sentinel every InvalidConfigError unwraps to.
var ErrInvalidConfig = errors.New("invalid projection config")

// =============================================================================
// REASON CODES
// =============================================================================

type Reason string

const (
	ReasonNegativeHorizon             Reason = "NEGATIVE_HORIZON"
	ReasonHorizonTooLong              Reason = "HORIZON_TOO_LONG"
	ReasonUnsupportedFrequency        Reason = "UNSUPPORTED_FREQUENCY"
	ReasonDividendGrowthBelowFloor    Reason = "DIVIDEND_GROWTH_BELOW_FLOOR"
	ReasonPriceAppreciationBelowFloor Reason = "PRICE_APPRECIATION_BELOW_FLOOR"
	ReasonNegativeInitialInvestment   Reason = "NEGATIVE_INITIAL_INVESTMENT"
	ReasonNegativeContribution        Reason = "NEGATIVE_CONTRIBUTION"
	ReasonNegativeYield               Reason = "NEGATIVE_YIELD"
	ReasonNonPositiveSharePrice       Reason = "NON_POSITIVE_SHARE_PRICE"
	ReasonEmptyPortfolio              Reason = "EMPTY_PORTFOLIO"
	ReasonInvalidTaxRate              Reason = "INVALID_TAX_RATE"
	ReasonUnsupportedDividendClass    Reason = "UNSUPPORTED_DIVIDEND_CLASS"
	ReasonUnsupportedAlignment        Reason = "UNSUPPORTED_ALIGNMENT"
	ReasonInvalidInput                Reason = "INVALID_INPUT"
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidConfigError reports a rejected input.
type InvalidConfigError struct {
	Reason  Reason
	Field   string // input field the UI should highlight, may be empty
	Message string
}

func (e *InvalidConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Reason, e.Message, e.Field)
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(reason Reason, field, format string, args ...any) *InvalidConfigError {
	return &InvalidConfigError{Reason: reason, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInput builds an InvalidConfigError for calculator-level input checks.
func NewInvalidInput(field, format string, args ...any) *InvalidConfigError {
	return invalid(ReasonInvalidInput, field, format, args...)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// ReasonOf returns the reason code carried by err, or "" if there is none.
func ReasonOf(err error) Reason {
	var ice *InvalidConfigError
	if errors.As(err, &ice) {
		return ice.Reason
	}
	return ""
}
