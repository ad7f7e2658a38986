package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jiaming2012/put-screener/src/models"
)

// FetchOptionExpirations returns the listed expiration dates for symbol from
// the Tradier expirations endpoint.
func FetchOptionExpirations(url, bearerToken string, symbol models.StockSymbol) ([]time.Time, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchOptionExpirations: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbol", string(symbol))
	q.Add("includeAllRoots", "true")
	q.Add("expirationType", "true")
	q.Add("contractSize", "true")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchOptionExpirations: failed to fetch expirations: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchOptionExpirations: failed to fetch expirations, http code %v", res.Status)
	}

	var dto models.OptionExpirationsDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("fetchOptionExpirations: failed to decode json: %w", err)
	}

	expirations, err := dto.ConvertToExpirationDates()
	if err != nil {
		return nil, fmt.Errorf("fetchOptionExpirations: %w", err)
	}

	return expirations, nil
}

// FetchOptionChain returns the full chain for one expiration, with greeks
// attached by the broker.
func FetchOptionChain(url, bearerToken string, symbol models.StockSymbol, expiration time.Time) ([]models.OptionChainQuoteDTO, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchOptionChain: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbol", string(symbol))
	q.Add("expiration", expiration.Format("2006-01-02"))
	q.Add("greeks", "true")

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchOptionChain: failed to fetch option chain: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchOptionChain: failed to fetch option chain, http code %v", res.Status)
	}

	var dto models.OptionChainDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("fetchOptionChain: failed to decode json: %w", err)
	}

	quotes, err := dto.Parse()
	if err != nil {
		return nil, fmt.Errorf("fetchOptionChain: %w", err)
	}

	return quotes, nil
}

// FetchStockQuote returns the underlying quote used to derive the spot price.
func FetchStockQuote(url, bearerToken string, symbol models.StockSymbol) (*models.StockQuoteDTO, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchStockQuote: failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("symbols", string(symbol))

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchStockQuote: failed to fetch stock quote: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchStockQuote: failed to fetch stock quote, http code %v", res.Status)
	}

	var dto models.StockQuotesDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("fetchStockQuote: failed to decode json: %w", err)
	}

	quotes, err := dto.Parse()
	if err != nil {
		return nil, fmt.Errorf("fetchStockQuote: %w", err)
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("fetchStockQuote: no quote returned for %s", symbol)
	}

	return &quotes[0], nil
}
