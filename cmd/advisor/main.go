package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"market-advisor/internal/display"
	"market-advisor/internal/logger"
	"market-advisor/internal/marketdata"
	"market-advisor/internal/pipeline/pipelineobs"
	"market-advisor/internal/trace"
	"market-advisor/internal/types"
)

// exitCancelled follows the shell convention for SIGINT.
const exitCancelled = 130

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(exitCancelled)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		symbol     string
		configPath string
		dataFile   string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "Market data aggregation and LLM investment advisory",
		Long: `advisor fetches a quote, company profile and market news for a ticker,
builds a market report, asks an LLM for a BUY/HOLD/SELL recommendation and
prints the structured result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, symbol, configPath, dataFile, asJSON)
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Ticker symbol to analyze (defaults to the configured symbol)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Configuration file path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run result as JSON")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "Analyze prebuilt market data from a file instead of fetching it")

	return cmd
}

func run(cmd *cobra.Command, symbolFlag, configPath, dataFile string, asJSON bool) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown tracer: %v\n", err)
		}
	}()

	cfg, creds, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	symbol := symbolFlag
	if symbol == "" {
		symbol = cfg.Symbol
	}
	if _, err := marketdata.ValidateSymbol("symbol", symbol); err != nil {
		logger.ErrorWithErr(ctx, "Invalid symbol", err, "symbol", symbol)
		return err
	}

	marketData, err := loadMarketData(ctx, dataFile)
	if err != nil {
		return err
	}

	journal := initializeJournal(ctx, cfg)
	orchestrator := initializePipeline(ctx, cfg, creds, journal, marketData)

	res, runErr := pipelineobs.Wrap(orchestrator).Run(ctx, symbol)
	if res == nil || (runErr != nil && res.State != types.StateCancelled) {
		return runErr
	}

	out := cmd.OutOrStdout()
	if asJSON {
		err = display.RenderJSON(out, res)
	} else {
		err = display.Render(out, res)
	}
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	compressOldJournals(ctx, cfg, journal)
	return runErr
}
