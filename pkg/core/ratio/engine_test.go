package ratio

import (
	"math"
	"reflect"
	"testing"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// fullStatement has every field a ratio needs, with all thirteen landing in
// the Good band.
func fullStatement() *models.FinancialStatement {
	return &models.FinancialStatement{
		CompanyID:          "ACME",
		Period:             "1402",
		Assets:             models.F64(2000000),
		Liabilities:        models.F64(800000),
		CurrentAssets:      models.F64(1000000),
		CurrentLiabilities: models.F64(500000),
		Inventory:          models.F64(250000),
		Cash:               models.F64(150000),
		AccountsReceivable: models.F64(250000),
		Revenue:            models.F64(2400000),
		COGS:               models.F64(1600000),
		GrossProfit:        models.F64(800000),
		EBIT:               models.F64(300000),
		InterestExpense:    models.F64(100000),
		NetIncome:          models.F64(300000),
	}
}

func findRatio(t *testing.T, ratios []Ratio, name string) Ratio {
	t.Helper()
	for _, r := range ratios {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("Ratio %q not computed", name)
	return Ratio{}
}

func TestComputeRatiosFullStatement(t *testing.T) {
	e := NewEngine(thresholds.Default())
	ratios, err := e.ComputeRatios(fullStatement())
	if err != nil {
		t.Fatalf("ComputeRatios failed: %v", err)
	}
	if len(ratios) != 13 {
		t.Fatalf("Expected 13 ratios, got %d", len(ratios))
	}

	// Current Ratio = 1,000,000 / 500,000 = 2.0
	cr := findRatio(t, ratios, "Current Ratio")
	if math.Abs(cr.Value-2.0) > 0.0001 {
		t.Errorf("Expected Current Ratio 2.0, got %f", cr.Value)
	}
	if cr.Status != StatusGood {
		t.Errorf("Expected Current Ratio status Good, got %s", cr.Status)
	}

	// Quick Ratio = (1,000,000 - 250,000) / 500,000 = 1.5
	qr := findRatio(t, ratios, "Quick Ratio")
	if math.Abs(qr.Value-1.5) > 0.0001 {
		t.Errorf("Expected Quick Ratio 1.5, got %f", qr.Value)
	}
	if qr.Status != StatusGood {
		t.Errorf("Expected Quick Ratio status Good, got %s", qr.Status)
	}

	// Debt to Equity = 800,000 / (2,000,000 - 800,000) = 0.6667
	de := findRatio(t, ratios, "Debt to Equity")
	if math.Abs(de.Value-0.6667) > 0.0001 {
		t.Errorf("Expected Debt to Equity 0.6667, got %f", de.Value)
	}

	// Receivables Turnover = 2,400,000 / 250,000 = 9.6
	rt := findRatio(t, ratios, "Receivables Turnover")
	if math.Abs(rt.Value-9.6) > 0.0001 {
		t.Errorf("Expected Receivables Turnover 9.6, got %f", rt.Value)
	}

	for _, r := range ratios {
		if r.Status != StatusGood {
			t.Errorf("Expected %s to be Good on the full statement, got %s", r.Name, r.Status)
		}
	}
}

func TestComputeRatiosOmitsMissingFields(t *testing.T) {
	e := NewEngine(thresholds.Default())
	// Only the mandatory fields: every ratio needing optional data is
	// omitted. Debt Ratio still computes from assets and liabilities, and
	// Debt to Equity from derived equity.
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
	}
	ratios, err := e.ComputeRatios(s)
	if err != nil {
		t.Fatalf("ComputeRatios failed: %v", err)
	}
	if len(ratios) != 2 {
		t.Fatalf("Expected 2 ratios on a minimal statement, got %d", len(ratios))
	}
	if ratios[0].Name != "Debt to Equity" || ratios[1].Name != "Debt Ratio" {
		t.Errorf("Expected Debt to Equity and Debt Ratio, got %s and %s", ratios[0].Name, ratios[1].Name)
	}
}

func TestComputeRatiosOmitsZeroDenominators(t *testing.T) {
	e := NewEngine(thresholds.Default())
	s := fullStatement()
	s.CurrentLiabilities = models.F64(0)

	ratios, err := e.ComputeRatios(s)
	if err != nil {
		t.Fatalf("ComputeRatios failed: %v", err)
	}
	for _, r := range ratios {
		if r.Category == CategoryLiquidity {
			t.Errorf("Expected no liquidity ratios with zero current liabilities, got %s", r.Name)
		}
	}
}

func TestComputeRatiosNegativeEquity(t *testing.T) {
	e := NewEngine(thresholds.Default())
	s := fullStatement()
	// Liabilities exceed assets: equity is negative, so the equity-based
	// ratios must disappear rather than report a negative leverage.
	s.Liabilities = models.F64(2500000)

	ratios, err := e.ComputeRatios(s)
	if err != nil {
		t.Fatalf("ComputeRatios failed: %v", err)
	}
	for _, r := range ratios {
		if r.Name == "Debt to Equity" || r.Name == "Return on Equity" {
			t.Errorf("Expected %s to be omitted with negative equity", r.Name)
		}
	}
}

func TestStatusBoundaries(t *testing.T) {
	e := NewEngine(thresholds.Default())

	// Current Ratio exactly 1.0 sits on the Warning boundary (inclusive).
	s := fullStatement()
	s.CurrentAssets = models.F64(500000)
	ratios, _ := e.ComputeRatios(s)
	cr := findRatio(t, ratios, "Current Ratio")
	if cr.Status != StatusWarning {
		t.Errorf("Expected Current Ratio 1.0 to be Warning, got %s", cr.Status)
	}

	// Just below 1.0 drops to Critical.
	s.CurrentAssets = models.F64(499999)
	ratios, _ = e.ComputeRatios(s)
	cr = findRatio(t, ratios, "Current Ratio")
	if cr.Status != StatusCritical {
		t.Errorf("Expected Current Ratio below 1.0 to be Critical, got %s", cr.Status)
	}

	// Debt to Equity exactly 2.0 is still Good (boundaries inclusive on the
	// good side). Assets 2,400,000 and liabilities 1,600,000 give equity
	// 800,000 and D/E = 2.0.
	s = fullStatement()
	s.Assets = models.F64(2400000)
	s.Liabilities = models.F64(1600000)
	ratios, _ = e.ComputeRatios(s)
	de := findRatio(t, ratios, "Debt to Equity")
	if math.Abs(de.Value-2.0) > 0.0001 {
		t.Fatalf("Expected D/E 2.0, got %f", de.Value)
	}
	if de.Status != StatusGood {
		t.Errorf("Expected D/E 2.0 to be Good, got %s", de.Status)
	}
}

func TestCategoryScores(t *testing.T) {
	e := NewEngine(thresholds.Default())
	ratios := []Ratio{
		{Name: "Current Ratio", Category: CategoryLiquidity, Status: StatusGood},
		{Name: "Quick Ratio", Category: CategoryLiquidity, Status: StatusWarning},
		{Name: "Debt Ratio", Category: CategoryLeverage, Status: StatusCritical},
	}
	cs := e.CategoryScores(ratios)

	// Liquidity: (100 + 60) / 2 = 80
	if math.Abs(cs.Liquidity-80) > 0.0001 {
		t.Errorf("Expected liquidity score 80, got %f", cs.Liquidity)
	}
	// Leverage: 20 / 1 = 20
	if math.Abs(cs.Leverage-20) > 0.0001 {
		t.Errorf("Expected leverage score 20, got %f", cs.Leverage)
	}
	// No profitability or efficiency ratios: 0.
	if cs.Profitability != 0 || cs.Efficiency != 0 {
		t.Errorf("Expected empty categories to score 0, got %f and %f", cs.Profitability, cs.Efficiency)
	}
}

func TestOverallScore(t *testing.T) {
	e := NewEngine(thresholds.Default())
	cs := CategoryScores{Liquidity: 100, Leverage: 50, Profitability: 80, Efficiency: 60}
	// 100*0.2 + 50*0.2 + 80*0.4 + 60*0.2 = 20 + 10 + 32 + 12 = 74
	if got := e.OverallScore(cs); math.Abs(got-74) > 0.0001 {
		t.Errorf("Expected overall score 74, got %f", got)
	}
}

func TestComputeRatiosDeterministic(t *testing.T) {
	e := NewEngine(thresholds.Default())
	s := fullStatement()
	first, err := e.ComputeRatios(s)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ComputeRatios(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output on repeated calls")
	}
}

func TestScoresWithinBounds(t *testing.T) {
	e := NewEngine(thresholds.Default())
	ratios, err := e.ComputeRatios(fullStatement())
	if err != nil {
		t.Fatal(err)
	}
	cs := e.CategoryScores(ratios)
	for name, v := range map[string]float64{
		"liquidity":     cs.Liquidity,
		"leverage":      cs.Leverage,
		"profitability": cs.Profitability,
		"efficiency":    cs.Efficiency,
		"overall":       e.OverallScore(cs),
	} {
		if v < 0 || v > 100 {
			t.Errorf("Expected %s score within [0,100], got %f", name, v)
		}
	}
}
