package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/screener"
)

var testNow = time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

type mockFetcher struct {
	spots       map[models.StockSymbol]float64
	expirations map[models.StockSymbol][]time.Time
	chains      map[string][]models.OptionChainQuoteDTO
}

func chainKey(symbol models.StockSymbol, expiration time.Time) string {
	return fmt.Sprintf("%s|%s", symbol, expiration.Format("2006-01-02"))
}

func (m *mockFetcher) FetchSpot(ctx context.Context, symbol models.StockSymbol) (float64, error) {
	return m.spots[symbol], nil
}

func (m *mockFetcher) FetchDividendYield(ctx context.Context, symbol models.StockSymbol, spot float64, now time.Time) (float64, error) {
	return 0, nil
}

func (m *mockFetcher) FetchExpirations(ctx context.Context, symbol models.StockSymbol) ([]time.Time, error) {
	return m.expirations[symbol], nil
}

func (m *mockFetcher) FetchChain(ctx context.Context, symbol models.StockSymbol, expiration time.Time) ([]models.OptionChainQuoteDTO, error) {
	return m.chains[chainKey(symbol, expiration)], nil
}

func (m *mockFetcher) HasEarningsBeforeExpiry(ctx context.Context, symbol models.StockSymbol, expiration time.Time, now time.Time) bool {
	return false
}

func setupTestRouter() *mux.Router {
	expiration := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	fetcher := &mockFetcher{
		spots: map[models.StockSymbol]float64{"AAPL": 200},
		expirations: map[models.StockSymbol][]time.Time{
			"AAPL": {expiration},
		},
		chains: map[string][]models.OptionChainQuoteDTO{
			chainKey("AAPL", expiration): {
				{
					Symbol:         "AAPL250620P00185000",
					Strike:         185,
					Bid:            2.80,
					Ask:            2.90,
					Volume:         200,
					OpenInterest:   2000,
					ContractSize:   100,
					ExpirationDate: "2025-06-20",
					OptionType:     "put",
					Greeks: &models.GreeksDTO{
						Delta: -0.20,
						MidIv: 0.35,
					},
				},
			},
		},
	}

	svc := screener.NewScreener(fetcher)
	svc.Now = func() time.Time { return testNow }

	router := mux.NewRouter()
	SetupHandler(router.PathPrefix("/screen").Subrouter(), svc)
	return router
}

func TestScreenHandler(t *testing.T) {
	router := setupTestRouter()

	t.Run("returns ranked candidates as JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/screen?tickers=AAPL", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result models.ScreenResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		require.Len(t, result.Candidates, 1)
		assert.Equal(t, models.StockSymbol("AAPL"), result.Candidates[0].Ticker)
		assert.Equal(t, 1, result.Summary.CandidateCount)
	})

	t.Run("missing tickers is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/screen", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid params are a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/screen?tickers=AAPL&min_dte=60&max_dte=14", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var dto errorDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.NotEmpty(t, dto.Msg)
	})

	t.Run("explicit zero minimum relaxes the default", func(t *testing.T) {
		expiration := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

		fetcher := &mockFetcher{
			spots:       map[models.StockSymbol]float64{"AAPL": 200},
			expirations: map[models.StockSymbol][]time.Time{"AAPL": {expiration}},
			chains: map[string][]models.OptionChainQuoteDTO{
				chainKey("AAPL", expiration): {
					{
						Symbol:         "AAPL250620P00185000",
						Strike:         185,
						Bid:            2.80,
						Ask:            2.90,
						Volume:         200,
						OpenInterest:   10, // below the default minimum of 50
						ContractSize:   100,
						ExpirationDate: "2025-06-20",
						OptionType:     "put",
						Greeks:         &models.GreeksDTO{Delta: -0.20, MidIv: 0.35},
					},
				},
			},
		}

		svc := screener.NewScreener(fetcher)
		svc.Now = func() time.Time { return testNow }

		illiquidRouter := mux.NewRouter()
		SetupHandler(illiquidRouter.PathPrefix("/screen").Subrouter(), svc)

		req := httptest.NewRequest(http.MethodGet, "/screen?tickers=AAPL", nil)
		rec := httptest.NewRecorder()
		illiquidRouter.ServeHTTP(rec, req)

		var result models.ScreenResult
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Empty(t, result.Candidates)

		req = httptest.NewRequest(http.MethodGet, "/screen?tickers=AAPL&min_open_interest=0", nil)
		rec = httptest.NewRecorder()
		illiquidRouter.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Len(t, result.Candidates, 1)
	})

	t.Run("query overrides defaults", func(t *testing.T) {
		// delta bound below the quote's -0.20 filters everything out
		req := httptest.NewRequest(http.MethodGet, "/screen?tickers=AAPL&max_abs_delta=0.15", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result models.ScreenResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Empty(t, result.Candidates)
	})
}

func TestScreenCSVHandler(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/screen/csv?tickers=AAPL", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "put_candidates.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "AAPL250620P00185000")
}

func TestHealthHandler(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/screen/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
