package engine

import "github.com/shopspring/decimal"

// =============================================================================
// PURCHASE LOTS - Cost basis tracking
// =============================================================================

type LotSource string

const (
	LotInitial      LotSource = "initial"
	LotContribution LotSource = "contribution"
	LotDividend     LotSource = "dividend"
)

// Lot is one purchase of shares at one price. Lots are append-only: a
// reinvested dividend or a contribution always opens a new lot at the price
// of its own period.
type Lot struct {
	PeriodIndex int // 0 for the initial purchase
	Source      LotSource
	Shares      decimal.Decimal
	Price       decimal.Decimal
	Cost        decimal.Decimal
}

// CostBasis aggregates lots into a weighted-average cost per share.
type CostBasis struct {
	lots        []Lot
	totalShares decimal.Decimal
	totalCost   decimal.Decimal
}

// Add appends a lot. Empty lots are ignored.
func (cb *CostBasis) Add(lot Lot) {
	if !lot.Shares.IsPositive() {
		return
	}
	cb.lots = append(cb.lots, lot)
	cb.totalShares = cb.totalShares.Add(lot.Shares)
	cb.totalCost = cb.totalCost.Add(lot.Cost)
}

func (cb *CostBasis) Shares() decimal.Decimal { return cb.totalShares }
func (cb *CostBasis) Cost() decimal.Decimal   { return cb.totalCost }

// AverageCost is total cost divided by total shares (zero when empty).
func (cb *CostBasis) AverageCost() decimal.Decimal {
	return div(cb.totalCost, cb.totalShares)
}

// Lots returns a copy of the recorded lots in purchase order.
func (cb *CostBasis) Lots() []Lot {
	out := make([]Lot, len(cb.lots))
	copy(out, cb.lots)
	return out
}

// LotsFromStates rebuilds every purchase lot of a simulated series. cfg must
// be the normalized config the series was produced from.
func LotsFromStates(cfg ProjectionConfig, states []PeriodState) []Lot {
	lots := make([]Lot, 0, 2*len(states)+1)
	if cfg.InitialInvestment.IsPositive() {
		lots = append(lots, Lot{
			PeriodIndex: 0,
			Source:      LotInitial,
			Shares:      sharesFor(cfg.InitialInvestment, cfg.InitialSharePrice),
			Price:       cfg.InitialSharePrice,
			Cost:        cfg.InitialInvestment,
		})
	}
	for _, s := range states {
		if s.SharesPurchasedFromDividend.IsPositive() {
			lots = append(lots, Lot{
				PeriodIndex: s.PeriodIndex,
				Source:      LotDividend,
				Shares:      s.SharesPurchasedFromDividend,
				Price:       s.SharePrice,
				Cost:        s.ReinvestedCash,
			})
		}
		if s.SharesPurchasedFromContribution.IsPositive() {
			lots = append(lots, Lot{
				PeriodIndex: s.PeriodIndex,
				Source:      LotContribution,
				Shares:      s.SharesPurchasedFromContribution,
				Price:       s.SharePrice,
				Cost:        s.Contribution,
			})
		}
	}
	return lots
}
