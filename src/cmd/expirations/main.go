package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/services"
	"github.com/jiaming2012/put-screener/src/utils"
)

type RunArgs struct {
	GoEnv  string
	Ticker string
	MinDTE int
	MaxDTE int
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/expirations/main.go --ticker AAPL",
	Short: "List option expirations for a symbol, with days to expiry",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		ticker, err := cmd.Flags().GetString("ticker")
		if err != nil {
			log.Fatalf("error getting ticker: %v", err)
		}

		minDTE, err := cmd.Flags().GetInt("minDTE")
		if err != nil {
			log.Fatalf("error getting minDTE: %v", err)
		}

		maxDTE, err := cmd.Flags().GetInt("maxDTE")
		if err != nil {
			log.Fatalf("error getting maxDTE: %v", err)
		}

		if err := Run(RunArgs{
			GoEnv:  goEnv,
			Ticker: ticker,
			MinDTE: minDTE,
			MaxDTE: maxDTE,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(args.GoEnv); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	expirationsURL, err := utils.GetEnv("OPTION_EXPIRATIONS_URL")
	if err != nil {
		log.Fatalf("$OPTION_EXPIRATIONS_URL not set: %v", err)
	}

	brokerBearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
	if err != nil {
		log.Fatalf("$TRADIER_BEARER_TOKEN not set: %v", err)
	}

	symbol, err := models.NewStockSymbol(args.Ticker)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	expirations, err := services.FetchOptionExpirations(expirationsURL, brokerBearerToken, symbol)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	now := time.Now().UTC()
	count := 0

	for _, expiration := range expirations {
		dte := utils.DaysToExpiry(expiration, now)
		if dte < args.MinDTE || dte > args.MaxDTE {
			continue
		}

		fmt.Printf("%s (%d DTE)\n", expiration.Format("2006-01-02"), dte)
		count++
	}

	if count == 0 {
		fmt.Printf("no expirations for %s between %d and %d DTE\n", symbol, args.MinDTE, args.MaxDTE)
	}

	return nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().String("ticker", "", "The stock symbol to list expirations for.")
	runCmd.PersistentFlags().Int("minDTE", 0, "Hide expirations closer than this many days.")
	runCmd.PersistentFlags().Int("maxDTE", 365, "Hide expirations further than this many days.")

	runCmd.MarkPersistentFlagRequired("ticker")

	runCmd.Execute()
}
