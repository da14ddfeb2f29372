package forecast

import (
	"fmt"
	"math"

	"finrisk/pkg/models"
)

// RevenueForecast is one projected period.
type RevenueForecast struct {
	Period           string  `json:"period"`
	PredictedRevenue float64 `json:"predicted_revenue"`
	ConfidenceLow    float64 `json:"confidence_low"`
	ConfidenceHigh   float64 `json:"confidence_high"`
	GrowthRate       float64 `json:"growth_rate"`
	Methodology      string  `json:"methodology"`
}

// ForecastRevenue projects revenue periodsAhead periods past the newest
// statement by compounding the mean historical growth rate. The confidence
// interval scales with the population standard deviation of the observed
// rates, so a steady series forecasts tightly and a volatile one widely.
// Statements without positive revenue are dropped before fitting; fewer than
// two usable periods fails with ErrInsufficientHistory.
func (f *Forecaster) ForecastRevenue(stmts []*models.FinancialStatement, periodsAhead int) ([]RevenueForecast, error) {
	usable := make([]*models.FinancialStatement, 0, len(stmts))
	for _, s := range stmts {
		if s.Has(models.FieldRevenue) && s.Val(models.FieldRevenue) > 0 {
			usable = append(usable, s)
		}
	}
	if len(usable) < f.cfg.Forecast.MinHistory {
		return nil, fmt.Errorf("revenue forecast needs %d periods with positive revenue, have %d: %w",
			f.cfg.Forecast.MinHistory, len(usable), models.ErrInsufficientHistory)
	}
	usable = models.SortByPeriod(usable)

	rates := make([]float64, 0, len(usable)-1)
	for i := 1; i < len(usable); i++ {
		prev := usable[i-1].Val(models.FieldRevenue)
		cur := usable[i].Val(models.FieldRevenue)
		rates = append(rates, (cur-prev)/prev)
	}
	avg := mean(rates)
	sd := stddev(rates, avg)

	last := usable[len(usable)-1]
	lastRevenue := last.Val(models.FieldRevenue)
	period := last.Period

	forecasts := make([]RevenueForecast, 0, periodsAhead)
	for i := 1; i <= periodsAhead; i++ {
		period = models.NextPeriod(period)
		predicted := math.Round(lastRevenue * math.Pow(1+avg, float64(i)))
		margin := f.cfg.Forecast.IntervalWidth * sd * predicted
		forecasts = append(forecasts, RevenueForecast{
			Period:           period,
			PredictedRevenue: predicted,
			ConfidenceLow:    predicted - margin,
			ConfidenceHigh:   predicted + margin,
			GrowthRate:       avg,
			Methodology:      "trend extrapolation from mean historical growth",
		})
	}
	return forecasts, nil
}
