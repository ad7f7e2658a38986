package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ScreenerConfigYAML struct {
	Tickers          []string `yaml:"tickers"`
	MinDTE           *int     `yaml:"minDTE,omitempty"`
	MaxDTE           *int     `yaml:"maxDTE,omitempty"`
	MinOpenInterest  *int     `yaml:"minOpenInterest,omitempty"`
	MinVolume        *int     `yaml:"minVolume,omitempty"`
	MaxSpreadRatio   *float64 `yaml:"maxSpreadRatio,omitempty"`
	MinProbOTM       *float64 `yaml:"minProbOTM,omitempty"`
	MinAnnualizedROC *float64 `yaml:"minAnnualizedROC,omitempty"`
	MinAbsDelta      *float64 `yaml:"minAbsDelta,omitempty"`
	MaxAbsDelta      *float64 `yaml:"maxAbsDelta,omitempty"`
	MinOTMPercent    *float64 `yaml:"minOTMPercent,omitempty"`
	IncludeEarnings  *bool    `yaml:"includeEarnings,omitempty"`
	RiskFreeRate     *float64 `yaml:"riskFreeRate,omitempty"`
	NotifyTopN       int      `yaml:"notifyTopN"`
}

func LoadScreenerConfigYAML(filepath string) (*ScreenerConfigYAML, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("LoadScreenerConfigYAML: failed to read %s: %w", filepath, err)
	}

	var config ScreenerConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("LoadScreenerConfigYAML: failed to unmarshal %s: %w", filepath, err)
	}

	return &config, nil
}

func (c *ScreenerConfigYAML) ToParams() ScreenParams {
	params := DefaultScreenParams()

	if c.MinDTE != nil {
		params.MinDTE = *c.MinDTE
	}

	if c.MaxDTE != nil {
		params.MaxDTE = *c.MaxDTE
	}

	if c.MinOpenInterest != nil {
		params.MinOpenInterest = *c.MinOpenInterest
	}

	if c.MinVolume != nil {
		params.MinVolume = *c.MinVolume
	}

	if c.MaxSpreadRatio != nil {
		params.MaxSpreadRatio = *c.MaxSpreadRatio
	}

	if c.MinProbOTM != nil {
		params.MinProbOTM = *c.MinProbOTM
	}

	if c.MinAnnualizedROC != nil {
		params.MinAnnualizedROC = *c.MinAnnualizedROC
	}

	if c.MinAbsDelta != nil {
		params.MinAbsDelta = *c.MinAbsDelta
	}

	if c.MaxAbsDelta != nil {
		params.MaxAbsDelta = *c.MaxAbsDelta
	}

	if c.MinOTMPercent != nil {
		params.MinOTMPercent = *c.MinOTMPercent
	}

	if c.IncludeEarnings != nil {
		params.ExcludeEarnings = !*c.IncludeEarnings
	}

	if c.RiskFreeRate != nil {
		params.RiskFreeRate = *c.RiskFreeRate
	}

	return params
}

func (c *ScreenerConfigYAML) ParseTickers() ([]StockSymbol, error) {
	var symbols []StockSymbol

	for _, raw := range c.Tickers {
		symbol, err := NewStockSymbol(raw)
		if err != nil {
			return nil, fmt.Errorf("ScreenerConfigYAML.ParseTickers: %w", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, nil
}
