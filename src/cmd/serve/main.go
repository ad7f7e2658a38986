package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otellogrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/put-screener/src/api"
	"github.com/jiaming2012/put-screener/src/eventpubsub"
	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/notifier"
	"github.com/jiaming2012/put-screener/src/screener"
	"github.com/jiaming2012/put-screener/src/services"
	"github.com/jiaming2012/put-screener/src/telemetry"
	"github.com/jiaming2012/put-screener/src/utils"
)

type RunArgs struct {
	GoEnv      string
	ConfigFile string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/serve/main.go",
	Short: "Serve the put screener HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if err := Run(RunArgs{GoEnv: goEnv, ConfigFile: configFile}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	webhookURL := os.Getenv("WEBHOOK_URL")

	// Set up Telemetry
	if strings.ToLower(os.Getenv("OTEL_ENABLED")) == "true" {
		log.AddHook(otellogrus.NewHook(otellogrus.WithLevels(
			log.PanicLevel,
			log.FatalLevel,
			log.ErrorLevel,
			log.WarnLevel,
			log.InfoLevel,
		)))

		otelShutdown, err := telemetry.SetupOTelSDK(ctx, "put-screener")
		if err != nil {
			log.Fatalf("failed to setup otel sdk: %v", err)
		}

		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				log.Errorf("otel shutdown: %v", err)
			}
		}()
	}

	// setup pubsub
	eventpubsub.Init()

	fetcher := services.NewTradierMarketDataFetcher(expirationsURL, optionChainURL, stockQuotesURL, brokerBearerToken, polygonApiKey)
	if polygonApiKey == "" {
		log.Warn("POLYGON_API_KEY not set, dividend yield assumed zero")
		fetcher.DisableDividends = true
	}

	if _, err := utils.GetEnv("FINANCIAL_MODELING_PREP_API_KEY"); err != nil {
		log.Warn("FINANCIAL_MODELING_PREP_API_KEY not set, earnings filter disabled")
		fetcher.DisableEarnings = true
	}

	screenerSvc := screener.NewScreener(fetcher)

	// setup slack notifier
	wg := &sync.WaitGroup{}
	if webhookURL != "" {
		notifyTopN := 0
		if args.ConfigFile != "" {
			config, err := models.LoadScreenerConfigYAML(args.ConfigFile)
			if err != nil {
				return fmt.Errorf("Run: %w", err)
			}

			notifyTopN = config.NotifyTopN
		}

		notifier.NewSlackNotifierClient(wg, webhookURL, notifyTopN).Start(ctx)
	} else {
		log.Info("WEBHOOK_URL not set, slack notifications disabled")
	}

	// setup router
	router := mux.NewRouter()
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "3000"
	}

	api.SetupHandler(router.PathPrefix("/screen").Subrouter(), screenerSvc)

	// start the http server
	srv := &http.Server{
		Handler: otelhttp.NewHandler(router, "/"),
		Addr:    fmt.Sprintf(":%s", port),
	}

	go func() {
		log.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: failed to listen and serve: %v", err)
		}
	}()

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("error shutting down server %s", err)
	} else {
		log.Info("Server gracefully stopped")
	}

	wg.Wait()

	return nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().String("config", "", "Path to a screener yaml config.")

	runCmd.Execute()
}
