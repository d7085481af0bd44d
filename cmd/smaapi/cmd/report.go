package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockSMA/internal/analyzer"
	"StockSMA/internal/export"
	"StockSMA/internal/recorder"
)

var reportOpts struct {
	ticker    string
	window    int
	start     string
	end       string
	timeframe string
	output    string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute one SMA report",
	Long: `Fetches history for a ticker and prints the SMA report as JSON,
or writes it as an xlsx workbook when --output ends in .xlsx.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.ticker, "ticker", "", "ticker symbol")
	f.IntVar(&reportOpts.window, "sma-period", 20, "SMA window in bars")
	f.StringVar(&reportOpts.start, "start", "", "first day of the window (YYYY-MM-DD)")
	f.StringVar(&reportOpts.end, "end", "", "last day of the window (YYYY-MM-DD)")
	f.StringVar(&reportOpts.timeframe, "timeframe", "1d", "bar interval")
	f.StringVarP(&reportOpts.output, "output", "o", "", "xlsx output file (default JSON on stdout)")
	_ = reportCmd.MarkFlagRequired("ticker")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")
}

func runReport(cmd *cobra.Command, args []string) error {
	m, _ := newMetrics()
	col := newCollector(cfg, m)
	rec := newRecorder(cfg)
	defer rec.Close()

	begin := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	evt := &recorder.ReportEvent{
		Ticker:    reportOpts.ticker,
		Window:    reportOpts.window,
		StartDate: reportOpts.start,
		EndDate:   reportOpts.end,
		Interval:  reportOpts.timeframe,
	}
	defer func() {
		evt.Duration = time.Since(begin)
		if err := rec.RecordReport(evt); err != nil {
			log.Error().Err(err).Str("ticker", evt.Ticker).Msg("record report request")
		}
	}()

	bars, err := col.History(ctx, reportOpts.ticker, cfg.DataSource.HistoryPeriod, reportOpts.timeframe)
	if err != nil {
		evt.Err = err.Error()
		return err
	}
	report, err := analyzer.Analyze(bars, reportOpts.start, reportOpts.end, reportOpts.window)
	if err != nil {
		evt.Err = err.Error()
		return err
	}
	evt.Days = len(report.Details)

	if reportOpts.output != "" {
		if err := export.SaveReportXLSX(reportOpts.output, reportOpts.ticker, report); err != nil {
			evt.Err = err.Error()
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d days to %s\n", len(report.Details), reportOpts.output)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
