package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/jiaming2012/put-screener/src/models"
)

// MarketDataFetcher is everything the screener needs from the outside world.
// The screener and the API depend on this interface so tests can inject a
// canned implementation.
type MarketDataFetcher interface {
	FetchExpirations(ctx context.Context, symbol models.StockSymbol) ([]time.Time, error)
	FetchChain(ctx context.Context, symbol models.StockSymbol, expiration time.Time) ([]models.OptionChainQuoteDTO, error)
	FetchSpot(ctx context.Context, symbol models.StockSymbol) (float64, error)
	FetchDividendYield(ctx context.Context, symbol models.StockSymbol, spot float64, now time.Time) (float64, error)
	HasEarningsBeforeExpiry(ctx context.Context, symbol models.StockSymbol, expiration time.Time, now time.Time) bool
}

// TradierMarketDataFetcher pulls quotes and chains from Tradier, dividends
// from Polygon, and earnings dates from Financial Modeling Prep.
type TradierMarketDataFetcher struct {
	ExpirationsURL   string
	OptionChainURL   string
	StockQuotesURL   string
	BearerToken      string
	DividendsFetcher *PolygonDividendFetcher
	DisableDividends bool
	DisableEarnings  bool
}

func NewTradierMarketDataFetcher(expirationsURL, optionChainURL, stockQuotesURL, bearerToken, polygonApiKey string) *TradierMarketDataFetcher {
	return &TradierMarketDataFetcher{
		ExpirationsURL:   expirationsURL,
		OptionChainURL:   optionChainURL,
		StockQuotesURL:   stockQuotesURL,
		BearerToken:      bearerToken,
		DividendsFetcher: NewPolygonDividendFetcher(polygonApiKey),
	}
}

func (f *TradierMarketDataFetcher) FetchExpirations(ctx context.Context, symbol models.StockSymbol) ([]time.Time, error) {
	tracer := otel.Tracer("TradierMarketDataFetcher")
	_, span := tracer.Start(ctx, "FetchExpirations")
	defer span.End()

	expirations, err := FetchOptionExpirations(f.ExpirationsURL, f.BearerToken, symbol)
	if err != nil {
		return nil, fmt.Errorf("TradierMarketDataFetcher.FetchExpirations: %w", err)
	}

	return expirations, nil
}

func (f *TradierMarketDataFetcher) FetchChain(ctx context.Context, symbol models.StockSymbol, expiration time.Time) ([]models.OptionChainQuoteDTO, error) {
	tracer := otel.Tracer("TradierMarketDataFetcher")
	_, span := tracer.Start(ctx, "FetchChain")
	defer span.End()

	quotes, err := FetchOptionChain(f.OptionChainURL, f.BearerToken, symbol, expiration)
	if err != nil {
		return nil, fmt.Errorf("TradierMarketDataFetcher.FetchChain: %w", err)
	}

	return quotes, nil
}

func (f *TradierMarketDataFetcher) FetchSpot(ctx context.Context, symbol models.StockSymbol) (float64, error) {
	tracer := otel.Tracer("TradierMarketDataFetcher")
	_, span := tracer.Start(ctx, "FetchSpot")
	defer span.End()

	quote, err := FetchStockQuote(f.StockQuotesURL, f.BearerToken, symbol)
	if err != nil {
		return 0, fmt.Errorf("TradierMarketDataFetcher.FetchSpot: %w", err)
	}

	spot, err := quote.Spot()
	if err != nil {
		return 0, fmt.Errorf("TradierMarketDataFetcher.FetchSpot: %w", err)
	}

	return spot, nil
}

func (f *TradierMarketDataFetcher) FetchDividendYield(ctx context.Context, symbol models.StockSymbol, spot float64, now time.Time) (float64, error) {
	if f.DisableDividends || f.DividendsFetcher == nil {
		return 0, nil
	}

	divYield, err := f.DividendsFetcher.FetchDividendYield(ctx, symbol, spot, now)
	if err != nil {
		return 0, fmt.Errorf("TradierMarketDataFetcher.FetchDividendYield: %w", err)
	}

	return divYield, nil
}

func (f *TradierMarketDataFetcher) HasEarningsBeforeExpiry(ctx context.Context, symbol models.StockSymbol, expiration time.Time, now time.Time) bool {
	if f.DisableEarnings {
		return false
	}

	return HasEarningsBeforeExpiry(symbol, expiration, now)
}
