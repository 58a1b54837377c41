package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/meenmo/curo/calculator"
	"github.com/meenmo/curo/daycount"
	"github.com/meenmo/curo/series"
)

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// A loan of 10,000 repaid by six monthly instalments in arrear at 8.25%:
// solve the instalment, then recover the rate from the resolved schedule.
func run(w io.Writer) error {
	calc, err := calculator.New(calculator.WithPrecision(2))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := calc.Add(series.NewAdvance(series.Label("Loan advance"), series.Value(-10000))); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := calc.Add(series.NewPayment(series.NumberOf(6), series.Label("Instalment"), series.Unknown())); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	start := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	dc := daycount.NewUS30360()

	payment, err := calc.SolveValue(calculator.ValueParams{
		DayCount:     dc,
		InterestRate: 0.0825,
		StartDate:    start,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	fmt.Fprintf(w, "Instalment: %.2f\n", payment)

	rate, err := calc.SolveRate(calculator.RateParams{DayCount: dc, StartDate: start})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	fmt.Fprintf(w, "Implicit rate: %.4f%%\n", rate*100)

	p, err := calc.Profile()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	for _, cf := range p.Flows() {
		factor := "-"
		if cf.PeriodFactor != nil {
			factor = cf.PeriodFactor.String()
		}
		fmt.Fprintf(w, "%s  %-12s %10.2f  %s\n", cf.PostDate.Format("2006-01-02"), cf.Label, cf.Value, factor)
	}
	return nil
}
