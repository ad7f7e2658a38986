package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/put-screener/src/models"
)

// RenderCandidatesTable formats ranked candidates for the console.
func RenderCandidatesTable(candidates []models.PutCandidate) string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)

	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")
	table.SetHeader([]string{"Ticker", "Expiry", "Strike", "Mid", "Delta", "Prob OTM", "Ann ROC", "Breakeven", "OI", "Score"})

	for _, c := range candidates {
		strike := fmt.Sprintf("$%s", p.Sprintf("%.2f", c.Strike))
		mid := fmt.Sprintf("$%s", p.Sprintf("%.2f", c.Mid))
		breakeven := fmt.Sprintf("$%s", p.Sprintf("%.2f", c.Breakeven))
		probOTM := fmt.Sprintf("%.0f%%", c.ProbOTM*100)
		annROC := fmt.Sprintf("%.1f%%", c.AnnualizedROC*100)
		delta := fmt.Sprintf("%.2f", c.Delta)
		score := fmt.Sprintf("%.3f", c.Score)

		table.Append([]string{
			string(c.Ticker),
			c.Expiration,
			strike,
			mid,
			delta,
			probOTM,
			annROC,
			breakeven,
			strconv.Itoa(c.OpenInterest),
			score,
		})
	}

	table.Render()
	return display.String()
}
