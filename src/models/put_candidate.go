package models

import (
	"fmt"
	"time"
)

// PutCandidate is a single short-put contract with the derived metrics the
// screener filters and ranks on. Prices are per share; one contract controls
// ContractSize shares.
type PutCandidate struct {
	Ticker               StockSymbol  `json:"ticker" csv:"ticker"`
	Expiration           string       `json:"expiry" csv:"expiry"`
	ContractSymbol       OptionSymbol `json:"contractSymbol" csv:"contractSymbol"`
	Strike               float64      `json:"strike" csv:"strike"`
	Bid                  float64      `json:"bid" csv:"bid"`
	Ask                  float64      `json:"ask" csv:"ask"`
	Mid                  float64      `json:"mid" csv:"mid"`
	Last                 float64      `json:"last" csv:"-"`
	Volume               int          `json:"volume" csv:"volume"`
	OpenInterest         int          `json:"openInterest" csv:"openInterest"`
	ImpliedVolatility    float64      `json:"impliedVolatility" csv:"impliedVolatility"`
	Delta                float64      `json:"delta" csv:"delta"`
	OTMPercent           float64      `json:"otm_pct" csv:"otm_pct"`
	Premium              float64      `json:"premium" csv:"premium"`
	ProbOTM              float64      `json:"prob_otm" csv:"prob_otm"`
	AnnualizedROC        float64      `json:"annualized_roc" csv:"annualized_roc"`
	Breakeven            float64      `json:"breakeven" csv:"breakeven"`
	SpreadRatio          float64      `json:"spread_ratio" csv:"spread_ratio"`
	EarningsBeforeExpiry bool         `json:"earnings_before_expiry" csv:"earnings_before_expiry"`
	Score                float64      `json:"score" csv:"score"`
	DaysToExpiry         int          `json:"days_to_expiry" csv:"-"`
	ContractSize         int          `json:"contract_size" csv:"-"`
}

func (c *PutCandidate) AbsDelta() float64 {
	if c.Delta < 0 {
		return -c.Delta
	}

	return c.Delta
}

// CollateralRequired is the cash needed to secure the put if assigned.
func (c *PutCandidate) CollateralRequired() float64 {
	contractSize := c.ContractSize
	if contractSize == 0 {
		contractSize = 100
	}

	return c.Strike * float64(contractSize)
}

func (c *PutCandidate) ExpirationTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Expiration)
	if err != nil {
		return time.Time{}, fmt.Errorf("PutCandidate.ExpirationTime: failed to parse expiry %s: %w", c.Expiration, err)
	}

	return t, nil
}
