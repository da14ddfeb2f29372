package forecast

import (
	"math"

	"finrisk/pkg/models"
)

// Trend classifies the direction of the net margin series.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
	TrendDeclining Trend = "Declining"
)

// PredictProfitabilityTrend votes on adjacent-period net margin changes.
// A pair moving more than the configured relative threshold counts toward
// Improving or Declining; whichever side holds a strict majority wins, and
// ties or series shorter than the minimum read Stable. Pairs starting from
// a zero margin are skipped since no relative change is defined there.
func (f *Forecaster) PredictProfitabilityTrend(stmts []*models.FinancialStatement) Trend {
	usable := make([]*models.FinancialStatement, 0, len(stmts))
	for _, s := range stmts {
		if s.Has(models.FieldNetIncome, models.FieldRevenue) && s.Val(models.FieldRevenue) > 0 {
			usable = append(usable, s)
		}
	}
	if len(usable) < f.cfg.Forecast.TrendMinPeriods {
		return TrendStable
	}
	usable = models.SortByPeriod(usable)

	margins := make([]float64, len(usable))
	for i, s := range usable {
		margins[i] = s.Val(models.FieldNetIncome) / s.Val(models.FieldRevenue)
	}

	improving, declining := 0, 0
	for i := 1; i < len(margins); i++ {
		base := margins[i-1]
		if base == 0 {
			continue
		}
		change := (margins[i] - base) / math.Abs(base)
		switch {
		case change > f.cfg.Forecast.TrendThreshold:
			improving++
		case change < -f.cfg.Forecast.TrendThreshold:
			declining++
		}
	}
	switch {
	case improving > declining:
		return TrendImproving
	case declining > improving:
		return TrendDeclining
	default:
		return TrendStable
	}
}
