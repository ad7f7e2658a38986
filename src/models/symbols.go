package models

import (
	"fmt"
	"strings"
	"time"
)

type StockSymbol string

func (s StockSymbol) String() string {
	return string(s)
}

func NewStockSymbol(raw string) (StockSymbol, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", fmt.Errorf("NewStockSymbol: empty symbol")
	}

	return StockSymbol(trimmed), nil
}

type OptionSymbol string

func (s OptionSymbol) String() string {
	return string(s)
}

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

// ExpirationDate is a date in 2006-01-02 format, as returned by the broker.
type ExpirationDate string

func (e ExpirationDate) ToTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", string(e))
	if err != nil {
		return time.Time{}, fmt.Errorf("ExpirationDate.ToTime: failed to parse %s: %w", e, err)
	}

	return t, nil
}
