package services

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/put-screener/src/models"
)

type PolygonDividendFetcher struct {
	Client *polygon.Client
}

func NewPolygonDividendFetcher(apiKey string) *PolygonDividendFetcher {
	return &PolygonDividendFetcher{
		Client: polygon.New(apiKey),
	}
}

// FetchDividendYield derives an annualized continuous-style dividend yield
// from the trailing twelve months of cash dividends. Symbols without a
// dividend history yield 0.
func (f *PolygonDividendFetcher) FetchDividendYield(ctx context.Context, symbol models.StockSymbol, spot float64, now time.Time) (float64, error) {
	if spot <= 0 {
		return 0, fmt.Errorf("FetchDividendYield: spot must be positive, got %v", spot)
	}

	params := polygonmodels.ListDividendsParams{}.
		WithTicker(polygonmodels.EQ, string(symbol)).
		WithLimit(50)

	iter := f.Client.ListDividends(ctx, params)

	var dividends []polygonmodels.Dividend
	for iter.Next() {
		dividends = append(dividends, iter.Item())
	}

	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("FetchDividendYield: failed to list dividends for %s: %w", symbol, err)
	}

	divYield := trailingDividendYield(dividends, spot, now)

	log.Debugf("FetchDividendYield: %s yield %.4f", symbol, divYield)

	return divYield, nil
}

// trailingDividendYield sums cash dividends whose ex-date falls in the twelve
// months before now and divides by spot. Dividends with an unparseable
// ex-date are skipped.
func trailingDividendYield(dividends []polygonmodels.Dividend, spot float64, now time.Time) float64 {
	cutoff := now.Add(-365 * 24 * time.Hour)
	var trailingCash float64

	for _, dividend := range dividends {
		exDate, err := time.Parse("2006-01-02", dividend.ExDividendDate)
		if err != nil {
			log.Warnf("trailingDividendYield: skipping dividend with bad ex-date %q: %v", dividend.ExDividendDate, err)
			continue
		}

		if exDate.Before(cutoff) || exDate.After(now) {
			continue
		}

		trailingCash += dividend.CashAmount
	}

	divYield := trailingCash / spot
	if divYield < 0 {
		divYield = 0
	}

	return divYield
}
