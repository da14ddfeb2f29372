package fraud

import (
	"fmt"
	"math"
	"strconv"

	"finrisk/pkg/models"
)

// benfordFields is the fixed set of statement fields sampled for the
// leading-digit test. Kept deliberately narrow: headline balance-sheet and
// income figures, not derived subtotals.
var benfordFields = []models.Field{
	models.FieldAssets,
	models.FieldLiabilities,
	models.FieldCurrentAssets,
	models.FieldCurrentLiabilities,
	models.FieldRevenue,
	models.FieldNetIncome,
	models.FieldCash,
	models.FieldInventory,
	models.FieldAccountsReceivable,
}

// benfordSamples collects the present, strictly positive values of the
// sample field set.
func benfordSamples(stmt *models.FinancialStatement) []float64 {
	out := make([]float64, 0, len(benfordFields))
	for _, f := range benfordFields {
		if !stmt.Has(f) {
			continue
		}
		if v := stmt.Val(f); v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// leadingDigit returns the first significant decimal digit of v, so 4200
// and 0.042 both yield 4. Zero means no digit was found.
func leadingDigit(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	for _, c := range s {
		if c >= '1' && c <= '9' {
			return int(c - '0')
		}
	}
	return 0
}

// benford tests the statement's leading-digit distribution against
// Benford's law with a chi-square statistic at 8 degrees of freedom. Fewer
// than MinSamples usable values means abstain, not pass.
func (d *Detector) benford(stmt *models.FinancialStatement) Indicator {
	cfg := d.cfg.Fraud.Benford
	samples := benfordSamples(stmt)
	if len(samples) < cfg.MinSamples {
		return abstain(IndicatorBenford,
			fmt.Sprintf("only %d usable values, the digit test needs %d", len(samples), cfg.MinSamples))
	}

	var counts [9]float64
	for _, v := range samples {
		if dg := leadingDigit(v); dg >= 1 {
			counts[dg-1]++
		}
	}
	n := float64(len(samples))

	var chi float64
	var observed, expected [9]float64
	for i := 0; i < 9; i++ {
		expCount := cfg.Expected[i] * n
		observed[i] = counts[i] / n
		expected[i] = cfg.Expected[i]
		if expCount > 0 {
			diff := counts[i] - expCount
			chi += diff * diff / expCount
		}
	}

	details := &BenfordDetails{
		SampleSize: len(samples),
		ChiSquare:  chi,
		Critical:   cfg.ChiSquareCritical,
		Observed:   observed,
		Expected:   expected,
	}

	for _, b := range cfg.Bands {
		if chi > b.Cutoff*cfg.ChiSquareCritical {
			return Indicator{
				Type:     IndicatorBenford,
				Severity: b.Severity,
				Score:    b.Score,
				Description: fmt.Sprintf(
					"leading-digit distribution deviates from Benford's law (chi-square %.2f, critical %.2f)",
					chi, cfg.ChiSquareCritical),
				Details:        details,
				Recommendation: "Review source documents for the sampled figures; digit-level anomalies often point at rounded or invented amounts.",
			}
		}
	}
	return Indicator{
		Type:        IndicatorBenford,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: fmt.Sprintf("leading-digit distribution consistent with Benford's law (chi-square %.2f)", chi),
		Details:     details,
	}
}
