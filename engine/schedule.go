package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRECISION
// =============================================================================

// workingPlaces bounds the scale of intermediate results. decimal.Mul is
// exact, so without rounding the scale would grow with every period.
const workingPlaces = 12

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func mul(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b).Round(workingPlaces) }

func div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, workingPlaces)
}

// =============================================================================
// PERIOD - One slot of the payment schedule
// =============================================================================

// Period marks one payment interval of the projection.
type Period struct {
	Index        int // 1..HorizonYears*PeriodsPerYear
	Year         int
	PeriodInYear int
	Start        TimePoint // inclusive
	End          TimePoint // inclusive, the payment date
}

// BuildSchedule returns the periods 1..horizonYears*periodsPerYear(freq),
// dated from DefaultStartDate.
func BuildSchedule(horizonYears int, freq Frequency) ([]Period, error) {
	return BuildScheduleFrom(DefaultStartDate, horizonYears, freq)
}

// BuildScheduleFrom is BuildSchedule with an explicit logical start date.
func BuildScheduleFrom(start TimePoint, horizonYears int, freq Frequency) ([]Period, error) {
	if horizonYears <= 0 {
		return nil, invalid(ReasonNegativeHorizon, "horizon_years", "horizon must be a positive number of years, got %d", horizonYears)
	}
	ppy, ok := freq.PeriodsPerYear()
	if !ok {
		return nil, invalid(ReasonUnsupportedFrequency, "payment_frequency", "unsupported frequency %q", freq)
	}
	if start.IsZero() {
		start = DefaultStartDate
	}

	months := freq.MonthsPerPeriod()
	periods := make([]Period, 0, horizonYears*ppy)
	for i := 1; i <= horizonYears*ppy; i++ {
		periodStart := start.AddMonths((i - 1) * months)
		periods = append(periods, Period{
			Index:        i,
			Year:         (i-1)/ppy + 1,
			PeriodInYear: (i-1)%ppy + 1,
			Start:        periodStart,
			End:          periodStart.AddMonths(months).AddDays(-1),
		})
	}
	return periods, nil
}

// =============================================================================
// RATE CONVERSION
// =============================================================================

// PerPeriodRate converts an annualized rate r to the rate of one period:
// (1+r)^(1/periodsPerYear) - 1. Compounding it periodsPerYear times gives
// back exactly one year of growth, whatever the frequency.
func PerPeriodRate(annual decimal.Decimal, periodsPerYear int) decimal.Decimal {
	return periodFactor(annual, periodsPerYear).Sub(one)
}

// periodFactor returns 1 + PerPeriodRate.
func periodFactor(annual decimal.Decimal, periodsPerYear int) decimal.Decimal {
	base := one.Add(annual)
	if periodsPerYear <= 1 || base.IsZero() || base.Equal(one) {
		return base
	}
	// decimal has no fractional power; float64 carries ~16 significant digits
	// which is far below the cent.
	f, _ := base.Float64()
	return decimal.NewFromFloat(math.Pow(f, 1/float64(periodsPerYear)))
}
