package bsm

import (
	"fmt"
	"math"
)

// normCDF is the standard normal CDF via the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func validatePositive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("bsm: %s must be positive and finite, got %v", name, value)
	}

	return nil
}

// D1D2 computes the Black-Scholes d1 and d2 terms with a continuous dividend
// yield.
func D1D2(spot, strike, riskFreeRate, dividendYield, impliedVol, timeToExpiryYears float64) (float64, float64, error) {
	if err := validatePositive("spot", spot); err != nil {
		return 0, 0, err
	}

	if err := validatePositive("strike", strike); err != nil {
		return 0, 0, err
	}

	if err := validatePositive("impliedVol", impliedVol); err != nil {
		return 0, 0, err
	}

	if err := validatePositive("timeToExpiryYears", timeToExpiryYears); err != nil {
		return 0, 0, err
	}

	mu := riskFreeRate - dividendYield
	sqrtT := math.Sqrt(timeToExpiryYears)

	d1 := (math.Log(spot/strike) + (mu+0.5*impliedVol*impliedVol)*timeToExpiryYears) / (impliedVol * sqrtT)
	d2 := d1 - impliedVol*sqrtT

	return d1, d2, nil
}

// PutDelta returns -exp(-qT) * N(-d1), the dividend-adjusted delta of a
// European put.
func PutDelta(spot, strike, riskFreeRate, dividendYield, impliedVol, timeToExpiryYears float64) (float64, error) {
	d1, _, err := D1D2(spot, strike, riskFreeRate, dividendYield, impliedVol, timeToExpiryYears)
	if err != nil {
		return 0, fmt.Errorf("PutDelta: %w", err)
	}

	return -math.Exp(-dividendYield*timeToExpiryYears) * normCDF(-d1), nil
}

// ProbOTMPut is the risk-neutral probability that the underlying finishes
// above the strike, i.e. the put expires worthless.
func ProbOTMPut(spot, strike, riskFreeRate, dividendYield, impliedVol, timeToExpiryYears float64) (float64, error) {
	_, d2, err := D1D2(spot, strike, riskFreeRate, dividendYield, impliedVol, timeToExpiryYears)
	if err != nil {
		return 0, fmt.Errorf("ProbOTMPut: %w", err)
	}

	return normCDF(d2), nil
}

// Breakeven is the underlying price at expiry below which the short put loses
// money: strike less the premium collected.
func Breakeven(strike, premiumPerShare float64) float64 {
	return strike - premiumPerShare
}

// AnnualizedROC approximates return on capital for a cash-secured put:
// premium over strike capital, annualized by 365 days.
func AnnualizedROC(premiumPerShare, strike float64, daysToExpiry int) (float64, error) {
	if strike <= 0 {
		return 0, fmt.Errorf("AnnualizedROC: strike must be positive, got %v", strike)
	}

	if daysToExpiry <= 0 {
		return 0, fmt.Errorf("AnnualizedROC: daysToExpiry must be positive, got %d", daysToExpiry)
	}

	roc := premiumPerShare / strike

	return roc * (365.0 / float64(daysToExpiry)), nil
}
