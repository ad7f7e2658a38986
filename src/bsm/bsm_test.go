package bsm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestD1D2(t *testing.T) {
	t.Run("at the money", func(t *testing.T) {
		// S=K=100, r=5%, q=0, vol=20%, T=1y
		// d1 = (0.05 + 0.02) / 0.2 = 0.35, d2 = 0.15
		d1, d2, err := D1D2(100, 100, 0.05, 0, 0.20, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.35, d1, 1e-9)
		assert.InDelta(t, 0.15, d2, 1e-9)
	})

	t.Run("dividend yield shifts drift", func(t *testing.T) {
		d1, _, err := D1D2(100, 100, 0.05, 0.05, 0.20, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.10, d1, 1e-9)
	})

	t.Run("rejects zero vol", func(t *testing.T) {
		_, _, err := D1D2(100, 100, 0.05, 0, 0, 1.0)
		assert.Error(t, err)
	})

	t.Run("rejects zero time", func(t *testing.T) {
		_, _, err := D1D2(100, 100, 0.05, 0, 0.20, 0)
		assert.Error(t, err)
	})

	t.Run("rejects non finite inputs", func(t *testing.T) {
		_, _, err := D1D2(math.NaN(), 100, 0.05, 0, 0.20, 1.0)
		assert.Error(t, err)

		_, _, err = D1D2(100, math.Inf(1), 0.05, 0, 0.20, 1.0)
		assert.Error(t, err)
	})
}

func TestPutDelta(t *testing.T) {
	t.Run("at the money", func(t *testing.T) {
		delta, err := PutDelta(100, 100, 0.05, 0, 0.20, 1.0)
		require.NoError(t, err)

		// -N(-0.35)
		assert.InDelta(t, -0.36317, delta, 1e-4)
	})

	t.Run("deep OTM put has small delta", func(t *testing.T) {
		delta, err := PutDelta(100, 50, 0.05, 0, 0.20, 0.1)
		require.NoError(t, err)

		// N(-d1) underflows to zero this far out, leaving delta at -0
		assert.True(t, math.Signbit(delta))
		assert.Greater(t, delta, -0.001)
	})

	t.Run("deep ITM put approaches -1", func(t *testing.T) {
		delta, err := PutDelta(50, 100, 0.05, 0, 0.20, 0.1)
		require.NoError(t, err)
		assert.Less(t, delta, -0.99)
	})

	t.Run("dividend discount dampens delta", func(t *testing.T) {
		noDiv, err := PutDelta(100, 90, 0.05, 0, 0.25, 0.25)
		require.NoError(t, err)

		withDiv, err := PutDelta(100, 90, 0.05, 0.03, 0.25, 0.25)
		require.NoError(t, err)

		assert.NotEqual(t, noDiv, withDiv)
	})
}

func TestProbOTMPut(t *testing.T) {
	t.Run("at the money", func(t *testing.T) {
		prob, err := ProbOTMPut(100, 100, 0.05, 0, 0.20, 1.0)
		require.NoError(t, err)

		// N(0.15)
		assert.InDelta(t, 0.55962, prob, 1e-4)
	})

	t.Run("far OTM strike is near certain to expire worthless", func(t *testing.T) {
		prob, err := ProbOTMPut(100, 50, 0.05, 0, 0.20, 0.1)
		require.NoError(t, err)
		assert.Greater(t, prob, 0.999)
	})

	t.Run("far ITM strike is near certain to be assigned", func(t *testing.T) {
		prob, err := ProbOTMPut(50, 100, 0.05, 0, 0.20, 0.1)
		require.NoError(t, err)
		assert.Less(t, prob, 0.001)
	})

	t.Run("bounded by [0, 1]", func(t *testing.T) {
		prob, err := ProbOTMPut(100, 95, 0.045, 0.01, 0.35, 30.0/365.0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, prob, 0.0)
		assert.LessOrEqual(t, prob, 1.0)
	})
}

func TestBreakeven(t *testing.T) {
	assert.Equal(t, 97.5, Breakeven(100, 2.5))
	assert.Equal(t, 100.0, Breakeven(100, 0))
}

func TestAnnualizedROC(t *testing.T) {
	t.Run("one year holding period", func(t *testing.T) {
		roc, err := AnnualizedROC(5, 100, 365)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, roc, 1e-9)
	})

	t.Run("shorter holding period scales up", func(t *testing.T) {
		roc, err := AnnualizedROC(1, 100, 30)
		require.NoError(t, err)
		assert.InDelta(t, 0.01*(365.0/30.0), roc, 1e-9)
	})

	t.Run("rejects zero dte", func(t *testing.T) {
		_, err := AnnualizedROC(1, 100, 0)
		assert.Error(t, err)
	})

	t.Run("rejects non positive strike", func(t *testing.T) {
		_, err := AnnualizedROC(1, 0, 30)
		assert.Error(t, err)
	})
}
