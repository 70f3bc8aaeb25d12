package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

type InvestmentReturnInput struct {
	InitialInvestment decimal.Decimal
	FinalValue        decimal.Decimal
	Years             decimal.Decimal // may be fractional
}

type InvestmentReturnResult struct {
	ProfitLoss       decimal.Decimal
	TotalReturn      decimal.Decimal // fraction of InitialInvestment
	AnnualizedReturn decimal.Decimal // CAGR
}

// InvestmentReturn computes total and annualized return between two values.
func InvestmentReturn(in InvestmentReturnInput) (*InvestmentReturnResult, error) {
	switch {
	case !in.InitialInvestment.IsPositive():
		return nil, engine.NewInvalidInput("initial_investment", "initial investment must be greater than 0")
	case in.FinalValue.IsNegative():
		return nil, engine.NewInvalidInput("final_value", "final value cannot be negative")
	case !in.Years.IsPositive():
		return nil, engine.NewInvalidInput("years", "years must be greater than 0")
	}
	years, _ := in.Years.Float64()
	profit := in.FinalValue.Sub(in.InitialInvestment)
	return &InvestmentReturnResult{
		ProfitLoss:       profit,
		TotalReturn:      ratio(profit, in.InitialInvestment),
		AnnualizedReturn: cagr(in.InitialInvestment, in.FinalValue, years),
	}, nil
}
