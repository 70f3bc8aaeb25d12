package engine

// =============================================================================
// PROJECT - Full pipeline
// =============================================================================

// Project validates cfg, simulates every period and summarizes the result.
// It has no side effects; concurrent calls are independent.
func Project(cfg ProjectionConfig) (*Projection, error) {
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	schedule, err := BuildScheduleFrom(normalized.StartDate, normalized.HorizonYears, normalized.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	states := simulate(normalized, schedule)
	return &Projection{
		Config:  normalized,
		Periods: states,
		Summary: summarize(normalized, states),
	}, nil
}

// Lots returns the purchase lots behind the projection's cost basis.
func (p *Projection) Lots() []Lot {
	return LotsFromStates(p.Config, p.Periods)
}

// Year returns the summary row of projection year y (1-based).
func (p *Projection) Year(y int) (YearSummary, bool) {
	if y < 1 || y > len(p.Summary.Years) {
		return YearSummary{}, false
	}
	return p.Summary.Years[y-1], true
}
