package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScreenParams are the liquidity and risk filters applied to put candidates.
type ScreenParams struct {
	MinDTE           int     `json:"min_dte"`
	MaxDTE           int     `json:"max_dte"`
	MinOpenInterest  int     `json:"min_open_interest"`
	MinVolume        int     `json:"min_volume"`
	MaxSpreadRatio   float64 `json:"max_spread_ratio"`
	MinProbOTM       float64 `json:"min_prob_otm"`
	MinAnnualizedROC float64 `json:"min_annualized_roc"`
	MinAbsDelta      float64 `json:"min_abs_delta"`
	MaxAbsDelta      float64 `json:"max_abs_delta"`
	MinOTMPercent    float64 `json:"min_otm_pct"`
	ExcludeEarnings  bool    `json:"exclude_earnings"`
	RiskFreeRate     float64 `json:"risk_free_rate"`
}

func DefaultScreenParams() ScreenParams {
	return ScreenParams{
		MinDTE:           14,
		MaxDTE:           60,
		MinOpenInterest:  50,
		MinVolume:        1,
		MaxSpreadRatio:   0.5,
		MinProbOTM:       0.55,
		MinAnnualizedROC: 0.10,
		MinAbsDelta:      0.10,
		MaxAbsDelta:      0.35,
		MinOTMPercent:    0.05,
		ExcludeEarnings:  true,
		RiskFreeRate:     0.045,
	}
}

func (p ScreenParams) Validate() error {
	if p.MinDTE < 0 {
		return fmt.Errorf("ScreenParams: Validate: minDTE must be >= 0")
	}

	if p.MaxDTE < p.MinDTE {
		return fmt.Errorf("ScreenParams: Validate: maxDTE %d < minDTE %d", p.MaxDTE, p.MinDTE)
	}

	if p.MinAbsDelta < 0 || p.MaxAbsDelta > 1 {
		return fmt.Errorf("ScreenParams: Validate: delta band must be within [0, 1]")
	}

	if p.MaxAbsDelta < p.MinAbsDelta {
		return fmt.Errorf("ScreenParams: Validate: maxAbsDelta %.2f < minAbsDelta %.2f", p.MaxAbsDelta, p.MinAbsDelta)
	}

	if p.RiskFreeRate < 0 {
		return fmt.Errorf("ScreenParams: Validate: riskFreeRate must be >= 0")
	}

	return nil
}

// ScreenRequest is the HTTP query surface, decoded with gorilla/schema.
// Override fields are pointers so an explicit zero (min_open_interest=0) is
// distinguishable from an absent parameter.
type ScreenRequest struct {
	Tickers          string   `schema:"tickers,required"`
	MinDTE           *int     `schema:"min_dte"`
	MaxDTE           *int     `schema:"max_dte"`
	MinOpenInterest  *int     `schema:"min_open_interest"`
	MinVolume        *int     `schema:"min_volume"`
	MaxSpreadRatio   *float64 `schema:"max_spread_ratio"`
	MinProbOTM       *float64 `schema:"min_prob_otm"`
	MinAnnualizedROC *float64 `schema:"min_annualized_roc"`
	MinAbsDelta      *float64 `schema:"min_abs_delta"`
	MaxAbsDelta      *float64 `schema:"max_abs_delta"`
	MinOTMPercent    *float64 `schema:"min_otm_pct"`
	IncludeEarnings  *bool    `schema:"include_earnings"`
	RiskFreeRate     *float64 `schema:"risk_free_rate"`
}

func (r *ScreenRequest) ParseTickers() ([]StockSymbol, error) {
	var symbols []StockSymbol

	for _, raw := range strings.Split(r.Tickers, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		symbol, err := NewStockSymbol(raw)
		if err != nil {
			return nil, fmt.Errorf("ScreenRequest.ParseTickers: %w", err)
		}

		symbols = append(symbols, symbol)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("ScreenRequest.ParseTickers: no tickers given")
	}

	return symbols, nil
}

func (r *ScreenRequest) ToParams() ScreenParams {
	params := DefaultScreenParams()

	if r.MinDTE != nil {
		params.MinDTE = *r.MinDTE
	}

	if r.MaxDTE != nil {
		params.MaxDTE = *r.MaxDTE
	}

	if r.MinOpenInterest != nil {
		params.MinOpenInterest = *r.MinOpenInterest
	}

	if r.MinVolume != nil {
		params.MinVolume = *r.MinVolume
	}

	if r.MaxSpreadRatio != nil {
		params.MaxSpreadRatio = *r.MaxSpreadRatio
	}

	if r.MinProbOTM != nil {
		params.MinProbOTM = *r.MinProbOTM
	}

	if r.MinAnnualizedROC != nil {
		params.MinAnnualizedROC = *r.MinAnnualizedROC
	}

	if r.MinAbsDelta != nil {
		params.MinAbsDelta = *r.MinAbsDelta
	}

	if r.MaxAbsDelta != nil {
		params.MaxAbsDelta = *r.MaxAbsDelta
	}

	if r.MinOTMPercent != nil {
		params.MinOTMPercent = *r.MinOTMPercent
	}

	if r.RiskFreeRate != nil {
		params.RiskFreeRate = *r.RiskFreeRate
	}

	if r.IncludeEarnings != nil {
		params.ExcludeEarnings = !*r.IncludeEarnings
	}

	return params
}

// ScreenSummary aggregates the surviving candidates of a run.
type ScreenSummary struct {
	CandidateCount      int     `json:"candidate_count"`
	TickerCount         int     `json:"ticker_count"`
	MeanAnnualizedROC   float64 `json:"mean_annualized_roc"`
	MedianAnnualizedROC float64 `json:"median_annualized_roc"`
	StdDevAnnualizedROC float64 `json:"stddev_annualized_roc"`
	MeanProbOTM         float64 `json:"mean_prob_otm"`
	MedianProbOTM       float64 `json:"median_prob_otm"`
	TopScore            float64 `json:"top_score"`
}

type ScreenResult struct {
	RunID       uuid.UUID      `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Params      ScreenParams   `json:"params"`
	Candidates  []PutCandidate `json:"candidates"`
	Summary     ScreenSummary  `json:"summary"`
	Warnings    []string       `json:"warnings,omitempty"`
}
