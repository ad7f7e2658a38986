package screener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jiaming2012/put-screener/src/eventpubsub"
	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/services"
	"github.com/jiaming2012/put-screener/src/utils"
)

type Screener struct {
	Fetcher services.MarketDataFetcher
	Now     func() time.Time
}

func NewScreener(fetcher services.MarketDataFetcher) *Screener {
	return &Screener{
		Fetcher: fetcher,
		Now:     time.Now,
	}
}

type tickerScreenResult struct {
	candidates []models.PutCandidate
	warning    string
}

// filterExpirationsByDTE keeps expirations whose days-to-expiry fall inside
// the window.
func filterExpirationsByDTE(expirations []time.Time, minDTE, maxDTE int, now time.Time) []time.Time {
	var filtered []time.Time

	for _, expiration := range expirations {
		dte := utils.DaysToExpiry(expiration, now)
		if dte >= minDTE && dte <= maxDTE {
			filtered = append(filtered, expiration)
		}
	}

	return filtered
}

// screenTicker fetches and prepares candidates for a single underlying. A
// failure returns a warning instead of an error: one bad ticker must not
// sink the run.
func (s *Screener) screenTicker(ctx context.Context, ticker models.StockSymbol, params models.ScreenParams, now time.Time) tickerScreenResult {
	tracer := otel.Tracer("Screener")
	ctx, span := tracer.Start(ctx, "screenTicker")
	span.SetAttributes(attribute.String("ticker", string(ticker)))
	defer span.End()

	spot, err := s.Fetcher.FetchSpot(ctx, ticker)
	if err != nil {
		return tickerScreenResult{warning: fmt.Sprintf("could not get spot for %s: %v", ticker, err)}
	}

	divYield, err := s.Fetcher.FetchDividendYield(ctx, ticker, spot, now)
	if err != nil {
		log.Warnf("screenTicker: failed to fetch dividend yield for %s, assuming 0: %v", ticker, err)
		divYield = 0
	}

	expirations, err := s.Fetcher.FetchExpirations(ctx, ticker)
	if err != nil {
		return tickerScreenResult{warning: fmt.Sprintf("could not list expirations for %s: %v", ticker, err)}
	}

	expirations = filterExpirationsByDTE(expirations, params.MinDTE, params.MaxDTE, now)
	if len(expirations) == 0 {
		return tickerScreenResult{warning: fmt.Sprintf("no expirations for %s within %d-%d DTE", ticker, params.MinDTE, params.MaxDTE)}
	}

	var candidates []models.PutCandidate

	for _, expiration := range expirations {
		quotes, err := s.Fetcher.FetchChain(ctx, ticker, expiration)
		if err != nil {
			log.Warnf("screenTicker: failed to fetch chain for %s %s: %v", ticker, expiration.Format("2006-01-02"), err)
			continue
		}

		if len(quotes) == 0 {
			continue
		}

		// always resolved so the flag column is truthful even when the
		// exclusion filter is off
		earningsFlag := s.Fetcher.HasEarningsBeforeExpiry(ctx, ticker, expiration, now)

		candidates = append(candidates, PrepareCandidates(quotes, ticker, spot, params.RiskFreeRate, divYield, earningsFlag, now)...)
	}

	return tickerScreenResult{candidates: candidates}
}

// Run screens all tickers concurrently and returns the ranked result.
func (s *Screener) Run(ctx context.Context, tickers []models.StockSymbol, params models.ScreenParams) (*models.ScreenResult, error) {
	tracer := otel.Tracer("Screener")
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("Screener.Run: %w", err)
	}

	if len(tickers) == 0 {
		return nil, fmt.Errorf("Screener.Run: no tickers given")
	}

	now := s.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allCandidates []models.PutCandidate
	var warnings []string

	for _, ticker := range tickers {
		wg.Add(1)

		go func(ticker models.StockSymbol) {
			defer wg.Done()

			result := s.screenTicker(ctx, ticker, params, now)

			mu.Lock()
			defer mu.Unlock()

			if result.warning != "" {
				log.Warnf("Screener.Run: %s", result.warning)
				warnings = append(warnings, result.warning)
			}

			allCandidates = append(allCandidates, result.candidates...)
		}(ticker)
	}

	wg.Wait()

	ranked := RankPuts(allCandidates, params)

	summary, err := NewScreenSummary(ranked)
	if err != nil {
		return nil, fmt.Errorf("Screener.Run: %w", err)
	}

	result := &models.ScreenResult{
		RunID:       uuid.New(),
		GeneratedAt: now,
		Params:      params,
		Candidates:  ranked,
		Summary:     summary,
		Warnings:    warnings,
	}

	log.Infof("Screener.Run: %d of %d candidates survived filters across %d tickers", len(ranked), len(allCandidates), len(tickers))

	eventpubsub.Publish(eventpubsub.ScreenCompletedTopic, result)

	return result, nil
}
