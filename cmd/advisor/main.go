package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
)

const version = "0.1.0"

var (
	configPath string
	compact    bool
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Equity advisor for Indian stocks",
	Long: `advisor gathers daily prices and fundamentals for BSE/NSE listed stocks from
several providers, derives technical indicators and a fundamentals score, and
asks a language model for a Buy/Hold/Sell verdict. Results are printed as JSON.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeSystem()
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "Stock report: prices, fundamentals, score and indicators",
	Long: `Build the stock report for a ticker such as TCS, INFY.NS or RELIANCE.BSE.
A bare ticker is looked up on BSE first, then NSE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, adv interfaces.Advisor) (any, error) {
			return orNil(adv.Report(ctx, args[0]))
		})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <ticker>",
	Short: "RSI verdict plus the language-model verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, adv interfaces.Advisor) (any, error) {
			return orNil(adv.Predict(ctx, args[0]))
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find symbols by ticker or company name prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, adv interfaces.Advisor) (any, error) {
			return adv.Search(ctx, args[0])
		})
	},
}

var newsCmd = &cobra.Command{
	Use:   "news <ticker>",
	Short: "Recent news for a company with sentiment labels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, adv interfaces.Advisor) (any, error) {
			return orNil(adv.News(ctx, args[0]))
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "Print JSON on a single line")
	rootCmd.AddCommand(analyzeCmd, predictCmd, searchCmd, newsCmd)
}

// run builds the advisor, executes op and prints whatever it returned, even
// alongside an error, so partial results are never lost.
func run(cmd *cobra.Command, op func(context.Context, interfaces.Advisor) (any, error)) error {
	defer shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	adv := initializeAdvisor(ctx, cfg)

	result, opErr := op(ctx, adv)
	if result != nil {
		if err := printJSON(cmd, result); err != nil {
			logger.ErrorWithErr(ctx, "Failed to write output", err)
			return err
		}
	}
	return opErr
}

// orNil keeps a nil result pointer from becoming a non-nil interface.
func orNil[T any](v *T, err error) (any, error) {
	if v == nil {
		return nil, err
	}
	return v, err
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
