package forecast

import (
	"testing"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

func margined(period string, revenue, netIncome float64) *models.FinancialStatement {
	return &models.FinancialStatement{
		CompanyID:   "co-1",
		Period:      period,
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		Revenue:     models.F64(revenue),
		NetIncome:   models.F64(netIncome),
	}
}

func TestTrendShortSeriesIsStable(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 100000),
		margined("1400-Q2", 1000000, 150000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendStable {
		t.Errorf("Expected Stable for two periods, got %s", got)
	}
}

func TestTrendImproving(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	// Margins 0.10 -> 0.12 -> 0.15: +20% then +25%.
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 100000),
		margined("1400-Q2", 1000000, 120000),
		margined("1400-Q3", 1000000, 150000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendImproving {
		t.Errorf("Expected Improving, got %s", got)
	}
}

func TestTrendDeclining(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 150000),
		margined("1400-Q2", 1000000, 120000),
		margined("1400-Q3", 1000000, 100000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendDeclining {
		t.Errorf("Expected Declining, got %s", got)
	}
}

func TestTrendTieIsStable(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	// One +20% move, one -16.7% move: a 1-1 tie.
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 100000),
		margined("1400-Q2", 1000000, 120000),
		margined("1400-Q3", 1000000, 100000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendStable {
		t.Errorf("Expected Stable for a tie, got %s", got)
	}
}

func TestTrendSmallMovesAreStable(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	// +2% and +1.96% sit inside the 5% threshold.
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 100000),
		margined("1400-Q2", 1000000, 102000),
		margined("1400-Q3", 1000000, 104000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendStable {
		t.Errorf("Expected Stable inside the threshold, got %s", got)
	}
}

func TestTrendNegativeMarginsImproving(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	// Losses shrinking toward breakeven count as improvement; the change is
	// taken against the magnitude of the prior margin.
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, -100000),
		margined("1400-Q2", 1000000, -50000),
		margined("1400-Q3", 1000000, -20000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendImproving {
		t.Errorf("Expected Improving for shrinking losses, got %s", got)
	}
}

func TestTrendZeroMarginPairSkipped(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	// The 0 -> 0.10 pair casts no vote; 0.10 -> 0.20 decides Improving.
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 0),
		margined("1400-Q2", 1000000, 100000),
		margined("1400-Q3", 1000000, 200000),
	}
	if got := f.PredictProfitabilityTrend(stmts); got != TrendImproving {
		t.Errorf("Expected Improving, got %s", got)
	}
}

func TestTrendFiltersUnusableStatements(t *testing.T) {
	f := NewForecaster(thresholds.Default())
	noIncome := margined("1400-Q2", 1000000, 0)
	noIncome.NetIncome = nil
	stmts := []*models.FinancialStatement{
		margined("1400-Q1", 1000000, 100000),
		noIncome,
		margined("1400-Q3", 1000000, 120000),
		margined("1400-Q4", 1000000, 150000),
	}
	// Three usable periods remain: 0.10 -> 0.12 -> 0.15.
	if got := f.PredictProfitabilityTrend(stmts); got != TrendImproving {
		t.Errorf("Expected Improving after filtering, got %s", got)
	}
}
