// Package forecast derives forward-looking signals from statement history:
// the Altman Z-Score bankruptcy index, trend-extrapolated revenue forecasts,
// and a profitability trend classification.
package forecast

import (
	"math"

	"finrisk/pkg/core/thresholds"
)

// Forecaster evaluates the Z-Score model and the revenue/margin trend
// projections against a shared thresholds configuration.
type Forecaster struct {
	cfg *thresholds.Config
}

func NewForecaster(cfg *thresholds.Config) *Forecaster {
	return &Forecaster{cfg: cfg}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev is the population standard deviation around a precomputed mean.
func stddev(vs []float64, avg float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)))
}
