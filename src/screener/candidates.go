package screener

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/put-screener/src/bsm"
	"github.com/jiaming2012/put-screener/src/models"
	"github.com/jiaming2012/put-screener/src/utils"
)

// Sentinels for metrics that could not be derived from the quote. They are
// chosen so every filter rejects them, matching the behavior of dropping a
// row with missing data.
const (
	missingSpread = -1.0
	missingDelta  = -1.0
)

// midPrice prefers the bid/ask mid when both sides are live, otherwise the
// last trade.
func midPrice(quote models.OptionChainQuoteDTO) float64 {
	if quote.Bid > 0 && quote.Ask > 0 && quote.Ask >= quote.Bid {
		return (quote.Bid + quote.Ask) / 2.0
	}

	if quote.LastPrice > 0 {
		return quote.LastPrice
	}

	return 0
}

// NewPutCandidate derives the screener metrics for a single put quote. Quotes
// with no usable price return nil.
func NewPutCandidate(quote models.OptionChainQuoteDTO, ticker models.StockSymbol, spot, riskFreeRate, dividendYield float64, now time.Time) *models.PutCandidate {
	if quote.OptionType != string(models.Put) {
		return nil
	}

	mid := midPrice(quote)
	if mid <= 0 {
		log.Debugf("NewPutCandidate: skipping %s: no usable price", quote.Symbol)
		return nil
	}

	expiration, err := time.Parse("2006-01-02", quote.ExpirationDate)
	if err != nil {
		log.Warnf("NewPutCandidate: skipping %s: bad expiration date %s", quote.Symbol, quote.ExpirationDate)
		return nil
	}

	candidate := &models.PutCandidate{
		Ticker:         ticker,
		Expiration:     quote.ExpirationDate,
		ContractSymbol: models.OptionSymbol(quote.Symbol),
		Strike:         quote.Strike,
		Bid:            quote.Bid,
		Ask:            quote.Ask,
		Mid:            mid,
		Last:           quote.LastPrice,
		Volume:         quote.Volume,
		OpenInterest:   quote.OpenInterest,
		Premium:        mid,
		Breakeven:      bsm.Breakeven(quote.Strike, mid),
		ContractSize:   quote.ContractSize,
		SpreadRatio:    missingSpread,
		Delta:          missingDelta,
	}

	// the spread is still measurable against a last-trade mid when only the
	// ask side is live
	if quote.Ask > 0 && quote.Ask >= quote.Bid {
		candidate.SpreadRatio = (quote.Ask - quote.Bid) / mid
	}

	candidate.DaysToExpiry = utils.DaysToExpiry(expiration, now)
	timeToExpiryYears := float64(candidate.DaysToExpiry) / 365.0

	if spot > 0 {
		otm := spot - quote.Strike
		if otm < 0 {
			otm = 0
		}
		candidate.OTMPercent = otm / spot
	}

	if roc, err := bsm.AnnualizedROC(candidate.Premium, quote.Strike, candidate.DaysToExpiry); err == nil {
		candidate.AnnualizedROC = roc
	}

	if quote.Greeks != nil {
		candidate.ImpliedVolatility = quote.Greeks.MidIv
	}

	if candidate.ImpliedVolatility > 0 {
		if prob, err := bsm.ProbOTMPut(spot, quote.Strike, riskFreeRate, dividendYield, candidate.ImpliedVolatility, timeToExpiryYears); err == nil {
			candidate.ProbOTM = prob
		}
	}

	// Prefer the broker's delta; recompute from mid IV when it is absent.
	if quote.Greeks != nil && quote.Greeks.Delta != 0 {
		candidate.Delta = quote.Greeks.Delta
	} else if candidate.ImpliedVolatility > 0 {
		if delta, err := bsm.PutDelta(spot, quote.Strike, riskFreeRate, dividendYield, candidate.ImpliedVolatility, timeToExpiryYears); err == nil {
			candidate.Delta = delta
		}
	}

	return candidate
}

// PrepareCandidates converts a raw chain into put candidates, dropping quotes
// without a usable price.
func PrepareCandidates(quotes []models.OptionChainQuoteDTO, ticker models.StockSymbol, spot, riskFreeRate, dividendYield float64, earningsBeforeExpiry bool, now time.Time) []models.PutCandidate {
	var candidates []models.PutCandidate

	for _, quote := range quotes {
		candidate := NewPutCandidate(quote, ticker, spot, riskFreeRate, dividendYield, now)
		if candidate == nil {
			continue
		}

		candidate.EarningsBeforeExpiry = earningsBeforeExpiry
		candidates = append(candidates, *candidate)
	}

	return candidates
}
