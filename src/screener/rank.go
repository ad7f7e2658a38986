package screener

import (
	"sort"

	"github.com/jiaming2012/put-screener/src/models"
)

const (
	rocScoreWeight     = 0.6
	probOTMScoreWeight = 0.4
)

// passesFilters applies the liquidity and risk masks. A metric that could not
// be derived carries a sentinel that fails its own filter.
func passesFilters(c *models.PutCandidate, params models.ScreenParams) bool {
	if c.OpenInterest < params.MinOpenInterest {
		return false
	}

	if c.Volume < params.MinVolume {
		return false
	}

	if c.SpreadRatio < 0 || c.SpreadRatio > params.MaxSpreadRatio {
		return false
	}

	if c.ProbOTM < params.MinProbOTM {
		return false
	}

	if c.AnnualizedROC < params.MinAnnualizedROC {
		return false
	}

	absDelta := c.AbsDelta()
	if absDelta < params.MinAbsDelta || absDelta > params.MaxAbsDelta {
		return false
	}

	if c.OTMPercent < params.MinOTMPercent {
		return false
	}

	if params.ExcludeEarnings && c.EarningsBeforeExpiry {
		return false
	}

	return true
}

// Score blends yield and assignment risk: 0.6 * annualized ROC + 0.4 * P(OTM).
func Score(c *models.PutCandidate) float64 {
	return rocScoreWeight*c.AnnualizedROC + probOTMScoreWeight*c.ProbOTM
}

// moreAttractive orders candidates best first: score, then annualized ROC,
// then P(OTM).
func moreAttractive(a, b *models.PutCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	if a.AnnualizedROC != b.AnnualizedROC {
		return a.AnnualizedROC > b.AnnualizedROC
	}

	return a.ProbOTM > b.ProbOTM
}

// RankPuts filters, scores, and sorts candidates best first.
func RankPuts(candidates []models.PutCandidate, params models.ScreenParams) []models.PutCandidate {
	var ranked []models.PutCandidate

	for i := range candidates {
		if !passesFilters(&candidates[i], params) {
			continue
		}

		candidate := candidates[i]
		candidate.Score = Score(&candidate)
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return moreAttractive(&ranked[i], &ranked[j])
	})

	return ranked
}
