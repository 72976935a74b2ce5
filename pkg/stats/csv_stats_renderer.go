package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderSummary(summary MonthlySummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

func (t *CsvStatsRendererImpl) RenderSummary(summary MonthlySummary) (string, error) {
	data := make([][]string, 0, len(summary.Categories)+6)
	data = append(data, []string{"Category", "Kind", "Planned", "Actual", "Remaining"})
	for _, stats := range summary.Categories {
		data = append(data, []string{
			stats.Category.Name,
			string(stats.Category.Kind),
			stats.Planned.StringFixed(2),
			stats.Actual.StringFixed(2),
			stats.Remaining.StringFixed(2),
		})
	}
	data = append(data,
		[]string{"TOTAL PLANNED", "", summary.TotalPlanned.StringFixed(2), "", summary.TotalRemaining.StringFixed(2)},
		[]string{"Income", "", "", summary.Income.StringFixed(2), ""},
		[]string{"Expenses", "", "", summary.Expenses.StringFixed(2), ""},
		[]string{"Net", "", "", summary.Net.StringFixed(2), ""},
		[]string{"Period", strconv.Itoa(summary.Year) + "-" + monthNumber(summary), "", "", ""},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func monthNumber(summary MonthlySummary) string {
	month := strconv.Itoa(int(summary.Month))
	if len(month) == 1 {
		month = "0" + month
	}
	return month
}
