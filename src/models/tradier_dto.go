package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type OptionExpirationDetailDTO struct {
	Date           string `json:"date"`
	ContractSize   int    `json:"contract_size"`
	ExpirationType string `json:"expiration_type"`
}

type OptionExpirationValuesDTO struct {
	Values []OptionExpirationDetailDTO `json:"expiration"`
}

type OptionExpirationsDTO struct {
	Expirations OptionExpirationValuesDTO `json:"expirations"`
}

// ConvertToExpirationDates parses the raw expiration payload, dropping dates
// that fail to parse.
func (dto *OptionExpirationsDTO) ConvertToExpirationDates() ([]time.Time, error) {
	var expirations []time.Time

	for _, detail := range dto.Expirations.Values {
		expiration, err := time.Parse("2006-01-02", detail.Date)
		if err != nil {
			return nil, fmt.Errorf("ConvertToExpirationDates: failed to parse expiration date %s: %w", detail.Date, err)
		}

		expirations = append(expirations, expiration)
	}

	return expirations, nil
}

type GreeksDTO struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Theta     float64 `json:"theta"`
	Vega      float64 `json:"vega"`
	Rho       float64 `json:"rho"`
	Phi       float64 `json:"phi"`
	BidIv     float64 `json:"bid_iv"`
	MidIv     float64 `json:"mid_iv"`
	AskIv     float64 `json:"ask_iv"`
	SmvVol    float64 `json:"smv_vol"`
	UpdatedAt string  `json:"updated_at"`
}

type OptionChainQuoteDTO struct {
	Symbol         string     `json:"symbol"`
	Description    string     `json:"description"`
	Underlying     string     `json:"underlying"`
	Strike         float64    `json:"strike"`
	Bid            float64    `json:"bid"`
	Ask            float64    `json:"ask"`
	LastPrice      float64    `json:"last"`
	Volume         int        `json:"volume"`
	BidSize        int        `json:"bidsize"`
	AskSize        int        `json:"asksize"`
	OpenInterest   int        `json:"open_interest"`
	ContractSize   int        `json:"contract_size"`
	ExpirationDate string     `json:"expiration_date"`
	ExpirationType string     `json:"expiration_type"`
	OptionType     string     `json:"option_type"`
	RootSymbol     string     `json:"root_symbol"`
	Greeks         *GreeksDTO `json:"greeks"`
}

type optionChainRawDTO struct {
	Option *json.RawMessage `json:"option"`
}

type OptionChainDTO struct {
	Options optionChainRawDTO `json:"options"`
}

// Parse unwraps the chain payload. Tradier returns a bare object instead of a
// single element list when the chain has one contract.
func (dto *OptionChainDTO) Parse() ([]OptionChainQuoteDTO, error) {
	var quotes []OptionChainQuoteDTO

	if dto.Options.Option == nil {
		return quotes, nil
	}

	if listErr := json.Unmarshal(*dto.Options.Option, &quotes); listErr != nil {
		var quote OptionChainQuoteDTO
		if singleErr := json.Unmarshal(*dto.Options.Option, &quote); singleErr != nil {
			return nil, fmt.Errorf("OptionChainDTO.Parse: failed to decode JSON: %v", singleErr)
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}

type StockQuoteDTO struct {
	Symbol           string  `json:"symbol"`
	Description      string  `json:"description"`
	LastPrice        float64 `json:"last"`
	Bid              float64 `json:"bid"`
	Ask              float64 `json:"ask"`
	Volume           int     `json:"volume"`
	AverageVolume    int     `json:"average_volume"`
	ChangePercentage float64 `json:"change_percentage"`
	PrevClose        float64 `json:"prevclose"`
	Week52High       float64 `json:"week_52_high"`
	Week52Low        float64 `json:"week_52_low"`
}

type stockQuotesRawDTO struct {
	Quote *json.RawMessage `json:"quote"`
}

type StockQuotesDTO struct {
	Quotes stockQuotesRawDTO `json:"quotes"`
}

func (dto *StockQuotesDTO) Parse() ([]StockQuoteDTO, error) {
	var quotes []StockQuoteDTO

	if dto.Quotes.Quote == nil {
		return quotes, nil
	}

	if listErr := json.Unmarshal(*dto.Quotes.Quote, &quotes); listErr != nil {
		var quote StockQuoteDTO
		if singleErr := json.Unmarshal(*dto.Quotes.Quote, &quote); singleErr != nil {
			return nil, fmt.Errorf("StockQuotesDTO.Parse: failed to decode JSON: %v", singleErr)
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// Spot is the mid of bid/ask when both sides are live, otherwise the last
// trade price.
func (q *StockQuoteDTO) Spot() (float64, error) {
	if q.Bid > 0 && q.Ask > 0 && q.Ask >= q.Bid {
		return (q.Bid + q.Ask) / 2.0, nil
	}

	if q.LastPrice > 0 {
		return q.LastPrice, nil
	}

	return 0, fmt.Errorf("StockQuoteDTO.Spot: no usable price for %s", q.Symbol)
}
