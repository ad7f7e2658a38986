package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/utils"
)

// FetchNextEarningsDate returns the next scheduled earnings date for symbol on
// or after now, or nil when none is scheduled inside the lookahead window.
func FetchNextEarningsDate(symbol models.StockSymbol, now time.Time) (*time.Time, error) {
	apiKey := os.Getenv("FINANCIAL_MODELING_PREP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing FINANCIAL_MODELING_PREP_API_KEY environment variable")
	}

	parsedURL, err := url.Parse("https://financialmodelingprep.com/api/v3/earning_calendar")
	if err != nil {
		return nil, fmt.Errorf("fetchNextEarningsDate: failed to parse base URL: %w", err)
	}

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetchNextEarningsDate: failed to create request: %w", err)
	}

	// earnings more than two quarters out are not actionable for the screen
	fromDate := utils.NormalizeDate(now)
	toDate := fromDate.Add(180 * 24 * time.Hour)

	q := req.URL.Query()
	q.Add("symbol", string(symbol))
	q.Add("from", fromDate.Format("2006-01-02"))
	q.Add("to", toDate.Format("2006-01-02"))
	q.Add("apikey", apiKey)

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchNextEarningsDate: failed to fetch earnings calendar: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchNextEarningsDate: failed to fetch earnings calendar, http code %v", res.Status)
	}

	var dto []*models.EarningsEventDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("fetchNextEarningsDate: failed to decode json: %w", err)
	}

	var dates []time.Time
	for _, event := range dto {
		if event.Symbol != string(symbol) {
			continue
		}

		date, err := event.ToDate()
		if err != nil {
			log.Warnf("fetchNextEarningsDate: skipping unparseable earnings date: %v", err)
			continue
		}

		if date.Before(fromDate) {
			continue
		}

		dates = append(dates, date)
	}

	if len(dates) == 0 {
		return nil, nil
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	return &dates[0], nil
}

// HasEarningsBeforeExpiry reports whether the next earnings event lands on or
// before the given expiration. Missing earnings data counts as no earnings:
// the screen must not drop a ticker because the calendar was unavailable.
func HasEarningsBeforeExpiry(symbol models.StockSymbol, expiration time.Time, now time.Time) bool {
	nextEarnings, err := FetchNextEarningsDate(symbol, now)
	if err != nil {
		log.Warnf("HasEarningsBeforeExpiry: failed to fetch earnings for %s: %v", symbol, err)
		return false
	}

	if nextEarnings == nil {
		return false
	}

	return !nextEarnings.After(utils.NormalizeDate(expiration))
}
