package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionChainDTOParse(t *testing.T) {
	t.Run("list of quotes", func(t *testing.T) {
		payload := `{"options":{"option":[
			{"symbol":"AAPL250620P00190000","strike":190,"bid":2.35,"ask":2.45,"last":2.41,"volume":120,"open_interest":1540,"expiration_date":"2025-06-20","option_type":"put","contract_size":100,"greeks":{"delta":-0.21,"mid_iv":0.29}},
			{"symbol":"AAPL250620P00185000","strike":185,"bid":1.55,"ask":1.66,"last":1.60,"volume":45,"open_interest":320,"expiration_date":"2025-06-20","option_type":"put","contract_size":100,"greeks":{"delta":-0.15,"mid_iv":0.31}}
		]}}`

		var dto OptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(payload), &dto))

		quotes, err := dto.Parse()
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, "AAPL250620P00190000", quotes[0].Symbol)
		assert.Equal(t, 190.0, quotes[0].Strike)
		require.NotNil(t, quotes[0].Greeks)
		assert.Equal(t, -0.21, quotes[0].Greeks.Delta)
		assert.Equal(t, 0.31, quotes[1].Greeks.MidIv)
	})

	t.Run("single quote object", func(t *testing.T) {
		payload := `{"options":{"option":
			{"symbol":"TSLA250620P00200000","strike":200,"bid":5.10,"ask":5.30,"expiration_date":"2025-06-20","option_type":"put","contract_size":100}
		}}`

		var dto OptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(payload), &dto))

		quotes, err := dto.Parse()
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "TSLA250620P00200000", quotes[0].Symbol)
		assert.Nil(t, quotes[0].Greeks)
	})

	t.Run("null chain", func(t *testing.T) {
		payload := `{"options":null}`

		var dto OptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(payload), &dto))

		quotes, err := dto.Parse()
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}

func TestOptionExpirationsDTO(t *testing.T) {
	payload := `{"expirations":{"expiration":[
		{"date":"2025-06-20","contract_size":100,"expiration_type":"standard"},
		{"date":"2025-07-18","contract_size":100,"expiration_type":"standard"}
	]}}`

	var dto OptionExpirationsDTO
	require.NoError(t, json.Unmarshal([]byte(payload), &dto))

	expirations, err := dto.ConvertToExpirationDates()
	require.NoError(t, err)
	require.Len(t, expirations, 2)
	assert.Equal(t, "2025-06-20", expirations[0].Format("2006-01-02"))
}

func TestStockQuoteSpot(t *testing.T) {
	t.Run("mid of live bid and ask", func(t *testing.T) {
		quote := StockQuoteDTO{Symbol: "AAPL", Bid: 189.9, Ask: 190.1, LastPrice: 189.5}
		spot, err := quote.Spot()
		require.NoError(t, err)
		assert.InDelta(t, 190.0, spot, 1e-9)
	})

	t.Run("falls back to last trade", func(t *testing.T) {
		quote := StockQuoteDTO{Symbol: "AAPL", Bid: 0, Ask: 0, LastPrice: 189.5}
		spot, err := quote.Spot()
		require.NoError(t, err)
		assert.Equal(t, 189.5, spot)
	})

	t.Run("crossed market falls back to last", func(t *testing.T) {
		quote := StockQuoteDTO{Symbol: "AAPL", Bid: 191, Ask: 190, LastPrice: 190.5}
		spot, err := quote.Spot()
		require.NoError(t, err)
		assert.Equal(t, 190.5, spot)
	})

	t.Run("no usable price", func(t *testing.T) {
		quote := StockQuoteDTO{Symbol: "AAPL"}
		_, err := quote.Spot()
		assert.Error(t, err)
	})
}

func TestScreenRequestToParams(t *testing.T) {
	t.Run("zero request keeps defaults", func(t *testing.T) {
		req := ScreenRequest{Tickers: "AAPL"}
		params := req.ToParams()
		assert.Equal(t, DefaultScreenParams(), params)
	})

	t.Run("overrides apply", func(t *testing.T) {
		minDTE := 7
		maxDTE := 45
		minProbOTM := 0.70
		includeEarnings := true

		req := ScreenRequest{
			Tickers:         "AAPL",
			MinDTE:          &minDTE,
			MaxDTE:          &maxDTE,
			MinProbOTM:      &minProbOTM,
			IncludeEarnings: &includeEarnings,
		}

		params := req.ToParams()
		assert.Equal(t, 7, params.MinDTE)
		assert.Equal(t, 45, params.MaxDTE)
		assert.Equal(t, 0.70, params.MinProbOTM)
		assert.False(t, params.ExcludeEarnings)

		// untouched knobs keep their defaults
		assert.Equal(t, 50, params.MinOpenInterest)
		assert.Equal(t, 0.045, params.RiskFreeRate)
	})

	t.Run("explicit zeros override defaults", func(t *testing.T) {
		minOI := 0
		minProbOTM := 0.0

		req := ScreenRequest{
			Tickers:         "AAPL",
			MinOpenInterest: &minOI,
			MinProbOTM:      &minProbOTM,
		}

		params := req.ToParams()
		assert.Equal(t, 0, params.MinOpenInterest)
		assert.Equal(t, 0.0, params.MinProbOTM)
	})
}

func TestScreenRequestParseTickers(t *testing.T) {
	t.Run("splits trims and uppercases", func(t *testing.T) {
		req := ScreenRequest{Tickers: "aapl, msft ,TSLA,"}
		symbols, err := req.ParseTickers()
		require.NoError(t, err)
		assert.Equal(t, []StockSymbol{"AAPL", "MSFT", "TSLA"}, symbols)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		req := ScreenRequest{Tickers: " , "}
		_, err := req.ParseTickers()
		assert.Error(t, err)
	})
}

func TestScreenParamsValidate(t *testing.T) {
	params := DefaultScreenParams()
	assert.NoError(t, params.Validate())

	params.MaxDTE = 5
	assert.Error(t, params.Validate())

	params = DefaultScreenParams()
	params.MaxAbsDelta = 0.05
	assert.Error(t, params.Validate())
}
