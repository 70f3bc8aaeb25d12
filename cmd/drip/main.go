/*
main.go - Command-line DRIP projection

PURPOSE:
  Runs one projection without the server and prints the yearly table.
  Useful for checking the numbers quoted in an article against a scenario
  file or a built-in preset.

COMMAND-LINE FLAGS:
  -scenario  YAML scenario file (same keys as the JSON API)
  -preset    Built-in preset ID (conservative, aggressive, fire, ...)
  -list      List built-in presets and exit
  -periods   Print every payment period instead of one row per year
  -json      Print the result as JSON

EXAMPLES:
  ./drip -preset=aristocrats
  ./drip -scenario=./scenarios/retiree.yaml -periods

SEE ALSO:
  - config/scenario.go: Scenario YAML
  - calculators/presets.go: Built-in presets
*/
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/warp/dividend-engine/calculators"
	"github.com/warp/dividend-engine/config"
	"github.com/warp/dividend-engine/engine"
	"github.com/warp/dividend-engine/factory"
	"github.com/warp/dividend-engine/logger"
)

func main() {
	logger.L = logger.New(os.Stderr, slog.LevelWarn)

	scenario := flag.String("scenario", "", "YAML scenario file")
	preset := flag.String("preset", "", "Built-in preset ID")
	list := flag.Bool("list", false, "List built-in presets")
	periods := flag.Bool("periods", false, "Print every payment period")
	asJSON := flag.Bool("json", false, "Print JSON")
	flag.Parse()

	if *list {
		listPresets(os.Stdout)
		return
	}

	cfg, err := loadConfig(*scenario, *preset)
	if err != nil {
		logger.L.Error("Invalid input", "error", err)
		os.Exit(2)
	}

	result, err := calculators.Drip(cfg)
	if err != nil {
		logger.L.Error("Projection failed", "error", err, "reason", engine.ReasonOf(err))
		os.Exit(1)
	}

	switch {
	case *asJSON:
		err = printJSON(os.Stdout, result)
	case *periods:
		err = printPeriods(os.Stdout, result.Projection)
	default:
		err = printYears(os.Stdout, result)
	}
	if err != nil {
		logger.L.Error("Failed to write output", "error", err)
		os.Exit(1)
	}
}

func loadConfig(scenario, preset string) (engine.ProjectionConfig, error) {
	switch {
	case scenario != "" && preset != "":
		return engine.ProjectionConfig{}, errors.New("use either -scenario or -preset, not both")
	case scenario != "":
		return config.LoadScenario(scenario)
	case preset != "":
		p, ok := calculators.PresetByID(preset)
		if !ok {
			return engine.ProjectionConfig{}, fmt.Errorf("unknown preset %q (see -list)", preset)
		}
		return p.Config, nil
	default:
		return engine.ProjectionConfig{}, errors.New("one of -scenario or -preset is required")
	}
}

func listPresets(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, p := range calculators.Presets() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	tw.Flush()
}

func printYears(w io.Writer, r *calculators.DripResult) error {
	s := r.Projection.Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "YEAR\tINCOME\tMONTHLY\tDPS\tSHARES\tVALUE\tCONTRIBUTED\tYOC %\t")
	for _, y := range s.Years {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			y.Year,
			y.Income.StringFixed(2),
			y.MonthlyIncome.StringFixed(2),
			y.AnnualDividendPerShare.StringFixed(4),
			y.SharesHeld.StringFixed(4),
			y.PortfolioValue.StringFixed(2),
			y.TotalContributed.StringFixed(2),
			y.YieldOnCost.Shift(2).StringFixed(2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Ending value:           %s\n", s.EndingPortfolioValue.StringFixed(2))
	fmt.Fprintf(w, "Final annual income:    %s\n", s.AnnualIncome.StringFixed(2))
	if s.AfterTaxAnnualIncome.Valid {
		fmt.Fprintf(w, "  after tax:            %s\n", s.AfterTaxAnnualIncome.Decimal.StringFixed(2))
	}
	fmt.Fprintf(w, "Total return:           %s (%s%%)\n", s.TotalReturn.StringFixed(2), s.TotalReturnPercent.StringFixed(2))
	fmt.Fprintf(w, "Annualized return:      %s%%\n", s.AnnualizedReturn.Shift(2).StringFixed(2))
	_, err := fmt.Fprintf(w, "Reinvestment advantage: %s\n", r.ReinvestmentAdvantage.StringFixed(2))
	return err
}

func printPeriods(w io.Writer, p *engine.Projection) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tDATE\tPRICE\tDIVIDEND\tREINVESTED\tCONTRIBUTION\tSHARES\tVALUE\t")
	for _, s := range p.Periods {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.PeriodIndex,
			s.Date,
			s.SharePrice.StringFixed(2),
			s.CashDividend.StringFixed(2),
			s.ReinvestedCash.StringFixed(2),
			s.Contribution.StringFixed(2),
			s.SharesAfter.StringFixed(4),
			s.PortfolioValue.StringFixed(2),
		)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, r *calculators.DripResult) error {
	out := struct {
		Config     factory.ConfigJSON       `json:"config"`
		Summary    engine.ProjectionSummary `json:"summary"`
		Milestones map[int]string           `json:"milestones"`
	}{
		Config:     factory.NewConfigFactory().ToJSON(r.Projection.Config),
		Summary:    r.Projection.Summary,
		Milestones: make(map[int]string, len(r.Milestones)),
	}
	for year, income := range r.Milestones {
		out.Milestones[year] = income.StringFixed(2)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
