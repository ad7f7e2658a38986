package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/put-screener/src/export"
	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/screener"
	"github.com/jiaming2012/put-screener/src/services"
	"github.com/jiaming2012/put-screener/src/utils"
)

type RunArgs struct {
	GoEnv      string
	Tickers    []string
	ConfigFile string
	OutDir     string
	MinDTE     int
	MaxDTE     int
}

type RunResult struct {
	Result  *models.ScreenResult
	OutFile string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/screen/main.go --tickers AAPL,MSFT --outDir exports",
	Short: "Screen cash-secured put candidates and print the ranked table",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		tickers, err := cmd.Flags().GetStringSlice("tickers")
		if err != nil {
			log.Fatalf("error getting tickers: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		minDTE, err := cmd.Flags().GetInt("minDTE")
		if err != nil {
			log.Fatalf("error getting minDTE: %v", err)
		}

		maxDTE, err := cmd.Flags().GetInt("maxDTE")
		if err != nil {
			log.Fatalf("error getting maxDTE: %v", err)
		}

		result, err := Run(RunArgs{
			GoEnv:      goEnv,
			Tickers:    tickers,
			ConfigFile: configFile,
			OutDir:     outDir,
			MinDTE:     minDTE,
			MaxDTE:     maxDTE,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Print(export.RenderCandidatesTable(result.Result.Candidates))
		fmt.Printf("%d candidates from %d tickers\n", result.Result.Summary.CandidateCount, result.Result.Summary.TickerCount)

		for _, warning := range result.Result.Warnings {
			log.Warn(warning)
		}

		if result.OutFile != "" {
			fmt.Printf("CSV written to %s\n", result.OutFile)
		}
	},
}

func Run(args RunArgs) (RunResult, error) {
	if err := utils.InitEnvironmentVariables(args.GoEnv); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	expirationsURL, err := utils.GetEnv("OPTION_EXPIRATIONS_URL")
	if err != nil {
		log.Fatalf("$OPTION_EXPIRATIONS_URL not set: %v", err)
	}

	optionChainURL, err := utils.GetEnv("OPTION_CHAIN_URL")
	if err != nil {
		log.Fatalf("$OPTION_CHAIN_URL not set: %v", err)
	}

	stockQuotesURL, err := utils.GetEnv("STOCK_QUOTES_URL")
	if err != nil {
		log.Fatalf("$STOCK_QUOTES_URL not set: %v", err)
	}

	brokerBearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
	if err != nil {
		log.Fatalf("$TRADIER_BEARER_TOKEN not set: %v", err)
	}

	polygonApiKey := os.Getenv("POLYGON_API_KEY")

	params := models.DefaultScreenParams()
	tickers := args.Tickers

	if args.ConfigFile != "" {
		config, err := models.LoadScreenerConfigYAML(args.ConfigFile)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		params = config.ToParams()

		if len(tickers) == 0 {
			tickers = config.Tickers
		}
	}

	if args.MinDTE > 0 {
		params.MinDTE = args.MinDTE
	}

	if args.MaxDTE > 0 {
		params.MaxDTE = args.MaxDTE
	}

	var symbols []models.StockSymbol
	for _, raw := range tickers {
		symbol, err := models.NewStockSymbol(raw)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		symbols = append(symbols, symbol)
	}

	if marketCalendarURL := os.Getenv("MARKET_CALENDAR_URL"); marketCalendarURL != "" {
		estLocation, err := time.LoadLocation("America/New_York")
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: error loading EST location: %v", err)
		}

		nowEST := time.Now().In(estLocation)

		calendar, err := services.FetchMarketCalendar(marketCalendarURL, brokerBearerToken, nowEST)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		open, err := services.IsMarketOpen(calendar, nowEST)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		if !open {
			log.Warn("market is closed, quotes may be stale")
		}
	}

	fetcher := services.NewTradierMarketDataFetcher(expirationsURL, optionChainURL, stockQuotesURL, brokerBearerToken, polygonApiKey)
	if polygonApiKey == "" {
		log.Warn("POLYGON_API_KEY not set, dividend yield assumed zero")
		fetcher.DisableDividends = true
	}

	if _, err := utils.GetEnv("FINANCIAL_MODELING_PREP_API_KEY"); err != nil {
		log.Warn("FINANCIAL_MODELING_PREP_API_KEY not set, earnings filter disabled")
		fetcher.DisableEarnings = true
	}

	result, err := screener.NewScreener(fetcher).Run(context.Background(), symbols, params)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	var outFile string
	if args.OutDir != "" {
		outFile, err = export.ExportCandidates(args.OutDir, fmt.Sprintf("put_candidates_%s.csv", result.RunID), result.Candidates)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}
	}

	return RunResult{Result: result, OutFile: outFile}, nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().StringSlice("tickers", []string{}, "The stock symbols to screen.")
	runCmd.PersistentFlags().String("config", "", "Path to a screener yaml config.")
	runCmd.PersistentFlags().String("outDir", "", "The directory to write the CSV export to.")
	runCmd.PersistentFlags().Int("minDTE", 0, "Override the minimum days to expiry.")
	runCmd.PersistentFlags().Int("maxDTE", 0, "Override the maximum days to expiry.")

	runCmd.Execute()
}
