package screener

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/put-screener/src/models"
)

// NewScreenSummary aggregates the ranked candidates. Candidates are assumed
// sorted best first, so the top score is the first entry's.
func NewScreenSummary(candidates []models.PutCandidate) (models.ScreenSummary, error) {
	summary := models.ScreenSummary{
		CandidateCount: len(candidates),
	}

	if len(candidates) == 0 {
		return summary, nil
	}

	tickers := make(map[models.StockSymbol]struct{})
	rocs := make([]float64, 0, len(candidates))
	probs := make([]float64, 0, len(candidates))

	for _, c := range candidates {
		tickers[c.Ticker] = struct{}{}
		rocs = append(rocs, c.AnnualizedROC)
		probs = append(probs, c.ProbOTM)
	}

	summary.TickerCount = len(tickers)
	summary.TopScore = candidates[0].Score

	meanROC, err := stats.Mean(rocs)
	if err != nil {
		return summary, fmt.Errorf("NewScreenSummary: failed to calculate mean roc: %v", err)
	}
	summary.MeanAnnualizedROC = meanROC

	medianROC, err := stats.Median(rocs)
	if err != nil {
		return summary, fmt.Errorf("NewScreenSummary: failed to calculate median roc: %v", err)
	}
	summary.MedianAnnualizedROC = medianROC

	stdDevROC, err := stats.StandardDeviation(rocs)
	if err != nil {
		return summary, fmt.Errorf("NewScreenSummary: failed to calculate roc standard deviation: %v", err)
	}
	summary.StdDevAnnualizedROC = stdDevROC

	meanProb, err := stats.Mean(probs)
	if err != nil {
		return summary, fmt.Errorf("NewScreenSummary: failed to calculate mean prob: %v", err)
	}
	summary.MeanProbOTM = meanProb

	medianProb, err := stats.Median(probs)
	if err != nil {
		return summary, fmt.Errorf("NewScreenSummary: failed to calculate median prob: %v", err)
	}
	summary.MedianProbOTM = medianProb

	return summary, nil
}
