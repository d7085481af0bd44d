package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockSMA/internal/scheduler"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the market board",
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	m, _ := newMetrics()
	col := newCollector(cfg, m)
	rec := newRecorder(cfg)
	defer rec.Close()

	sched := scheduler.NewScheduler(context.Background(), col, rec, cfg.Companies, 0)
	board, err := sched.Refresh(cmd.Context(), "cli")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tNAME\tPRICE\tCHANGE %\tERROR")
	for _, p := range board {
		price, change := "-", "-"
		if p.Price != nil {
			price = fmt.Sprintf("%.2f", *p.Price)
		}
		if p.ChangePercent != nil {
			change = fmt.Sprintf("%+.2f", *p.ChangePercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Ticker, p.Name, price, change, p.Error)
	}
	return w.Flush()
}
