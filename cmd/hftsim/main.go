package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/argus-quant/hftsim/internal/engine"
	"github.com/argus-quant/hftsim/internal/logger"
	"github.com/argus-quant/hftsim/internal/strategy"
	"github.com/argus-quant/hftsim/internal/tickdata"
	"github.com/argus-quant/hftsim/internal/version"
)

// runAction replays a tick data file through the strategy named in the run
// config and writes the results.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	resultsDir := cmd.String("output")

	configYAML, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read run config: %w", err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	e := engine.NewEngineV1(l, strategy.NewRegistry())
	if err := e.Initialize(string(configYAML)); err != nil {
		return err
	}

	source, err := tickdata.NewDuckDBTickSource(l)
	if err != nil {
		return err
	}
	defer source.Close()

	e.SetTickSource(source)

	if err := e.SetDataPath(dataPath); err != nil {
		return err
	}

	if resultsDir != "" {
		e.SetResultsDir(resultsDir)
	}

	count, err := source.Count()
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(count))
	onProgress := engine.OnProgressCallback(func(processed, _ int) {
		bar.Set(processed)
	})

	stats, err := e.Run(optional.Some(onProgress))
	if err != nil {
		return err
	}

	fmt.Printf("\nrun %s finished\n", stats.ID)
	fmt.Printf("  strategy:       %s\n", stats.Strategy)
	fmt.Printf("  ticks:          %d\n", stats.TickCount)
	fmt.Printf("  fills:          %d\n", stats.FillCount)
	fmt.Printf("  final balance:  %.4f\n", stats.FinalBalance)
	fmt.Printf("  final position: %+.6f\n", stats.FinalPosition)
	fmt.Printf("  gross pnl:      %.4f\n", stats.GrossPnL)
	fmt.Printf("  halted:         %v\n", stats.Halted)

	if stats.Performance != nil {
		fmt.Printf("  trades:         %d (win rate %.2f%%)\n",
			stats.Performance.TotalTrades, stats.Performance.WinRate*100)
	}

	if resultsDir != "" {
		fmt.Printf("  results:        %s\n", resultsDir)
	}

	return nil
}

// schemaAction prints the JSON config schema of a strategy.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("strategy")

	registry := strategy.NewRegistry()

	schemaJSON, err := registry.ConfigSchemaJSON(name)
	if err != nil {
		return err
	}

	fmt.Println(schemaJSON)

	return nil
}

// strategiesAction lists the registered strategies.
func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	for _, name := range strategy.NewRegistry().List() {
		fmt.Println(name)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "hftsim",
		Usage:   "Deterministic tick-level strategy backtester",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest over a tick data file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the YAML run config",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the CSV or Parquet tick data file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Directory to write results (parquet + stats.yaml); omit to skip persistence",
						Required: false,
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON config schema of a strategy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "strategy",
						Aliases:  []string{"s"},
						Usage:    "Strategy name",
						Required: true,
					},
				},
				Action: schemaAction,
			},
			{
				Name:   "strategies",
				Usage:  "List available strategies",
				Action: strategiesAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
