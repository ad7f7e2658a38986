package export

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/put-screener/src/models"
)

func testCandidates() []models.PutCandidate {
	return []models.PutCandidate{
		{
			Ticker:         "AAPL",
			Expiration:     "2025-06-20",
			ContractSymbol: "AAPL250620P00185000",
			Strike:         185,
			Bid:            2.80,
			Ask:            2.90,
			Mid:            2.85,
			Volume:         200,
			OpenInterest:   2000,
			Premium:        2.85,
			ProbOTM:        0.77,
			AnnualizedROC:  0.187,
			Breakeven:      182.15,
			SpreadRatio:    0.035,
			Delta:          -0.20,
			Score:          0.42,
		},
	}
}

func TestWriteCandidatesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidatesCSV(&buf, testCandidates()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "ticker")
	assert.Contains(t, lines[0], "contractSymbol")
	assert.Contains(t, lines[0], "annualized_roc")
	assert.NotContains(t, lines[0], "days_to_expiry")

	assert.Contains(t, lines[1], "AAPL250620P00185000")
	assert.Contains(t, lines[1], "2025-06-20")
}

func TestExportCandidates(t *testing.T) {
	outDir := path.Join(t.TempDir(), "exports")

	outFile, err := ExportCandidates(outDir, "put_candidates.csv", testCandidates())
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AAPL")

	// second export leaves the existing file alone
	again, err := ExportCandidates(outDir, "put_candidates.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, outFile, again)

	data, err = os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AAPL")
}

func TestRenderCandidatesTable(t *testing.T) {
	rendered := RenderCandidatesTable(testCandidates())

	assert.Contains(t, rendered, "AAPL")
	assert.Contains(t, rendered, "2025-06-20")
	assert.Contains(t, rendered, "$185.00")
	assert.Contains(t, rendered, "77%")
}
