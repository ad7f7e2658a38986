package models

import (
	"fmt"
	"time"
)

// EarningsEventDTO is a single row from the Financial Modeling Prep earnings
// calendar endpoint.
type EarningsEventDTO struct {
	Date             string   `json:"date"`
	Symbol           string   `json:"symbol"`
	EpsEstimated     *float64 `json:"epsEstimated"`
	Eps              *float64 `json:"eps"`
	RevenueEstimated *float64 `json:"revenueEstimated"`
	Revenue          *float64 `json:"revenue"`
	Time             string   `json:"time"`
	UpdatedFromDate  string   `json:"updatedFromDate"`
}

func (dto *EarningsEventDTO) ToDate() (time.Time, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("EarningsEventDTO.ToDate: failed to parse date %s: %w", dto.Date, err)
	}

	return date, nil
}
