package fraud

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

func TestAnalyzeRequiresMandatoryFields(t *testing.T) {
	d := NewDetector(thresholds.Default())
	s := &models.FinancialStatement{Liabilities: models.F64(100)}
	_, err := d.Analyze(s, nil)
	if !errors.Is(err, models.ErrMissingRequiredField) {
		t.Errorf("Expected ErrMissingRequiredField, got %v", err)
	}
}

func TestQualityOfEarningsCashBacked(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// CFO 500,000 >= NI 450,000: ratio 1.11, no flag.
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		NetIncome:   models.F64(450000),
		OperatingCF: models.F64(500000),
	}
	ind := d.qualityOfEarnings(s)
	if ind.Score != 0 {
		t.Errorf("Expected score 0 when cash backs earnings, got %f", ind.Score)
	}
}

func TestQualityOfEarningsCashShortfall(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// CFO 200,000 / NI 450,000 = 0.444, under the 0.5 rung.
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		NetIncome:   models.F64(450000),
		OperatingCF: models.F64(200000),
	}
	ind := d.qualityOfEarnings(s)
	if ind.Score != 90 {
		t.Errorf("Expected score 90 for ratio 0.444, got %f", ind.Score)
	}
	if ind.Severity != models.SeverityCritical {
		t.Errorf("Expected severity Critical, got %s", ind.Severity)
	}
	det := ind.Details.(*QualityOfEarningsDetails)
	if math.Abs(det.Ratio-0.4444) > 0.001 {
		t.Errorf("Expected ratio 0.444, got %f", det.Ratio)
	}
}

func TestQualityOfEarningsZeroNetIncome(t *testing.T) {
	d := NewDetector(thresholds.Default())
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		NetIncome:   models.F64(0),
		OperatingCF: models.F64(100000),
	}
	if ind := d.qualityOfEarnings(s); ind.Score != 0 {
		t.Errorf("Expected abstention on zero net income, got score %f", ind.Score)
	}
}

func TestReceivableGrowthOutpacesSales(t *testing.T) {
	d := NewDetector(thresholds.Default())
	prior := &models.FinancialStatement{
		Period:             "1401",
		Assets:             models.F64(900000),
		Liabilities:        models.F64(300000),
		AccountsReceivable: models.F64(100000),
		Revenue:            models.F64(1000000),
	}
	curr := &models.FinancialStatement{
		Period:             "1402",
		Assets:             models.F64(1000000),
		Liabilities:        models.F64(350000),
		AccountsReceivable: models.F64(300000),
		Revenue:            models.F64(1100000),
	}
	// AR growth = 200% while sales grew 10%: ratio 20, far past the 2.0 rung.
	ind := d.receivableGrowth(curr, prior)
	if ind.Score != 85 {
		t.Errorf("Expected score 85, got %f", ind.Score)
	}
	det := ind.Details.(*ReceivableGrowthDetails)
	if math.Abs(det.Ratio-20.0) > 0.0001 {
		t.Errorf("Expected growth ratio 20.0, got %f", det.Ratio)
	}
}

func TestReceivableGrowthFlatSalesAbstains(t *testing.T) {
	d := NewDetector(thresholds.Default())
	prior := &models.FinancialStatement{
		Period:             "1401",
		Assets:             models.F64(900000),
		Liabilities:        models.F64(300000),
		AccountsReceivable: models.F64(100000),
		Revenue:            models.F64(1000000),
	}
	curr := &models.FinancialStatement{
		Period:             "1402",
		Assets:             models.F64(1000000),
		Liabilities:        models.F64(350000),
		AccountsReceivable: models.F64(250000),
		Revenue:            models.F64(1000000),
	}
	ind := d.receivableGrowth(curr, prior)
	if ind.Score != 0 {
		t.Errorf("Expected abstention on flat sales, got score %f", ind.Score)
	}
	det, ok := ind.Details.(*ReceivableGrowthDetails)
	if !ok {
		t.Fatal("Expected details explaining the abstention")
	}
	if det.Note == "" {
		t.Error("Expected a note on the zero sales growth case")
	}
}

func TestAssetInflation(t *testing.T) {
	d := NewDetector(thresholds.Default())
	prior := &models.FinancialStatement{
		Period:      "1401",
		Assets:      models.F64(2000000),
		Liabilities: models.F64(700000),
		FixedAssets: models.F64(1000000),
		Revenue:     models.F64(1000000),
	}
	curr := &models.FinancialStatement{
		Period:      "1402",
		Assets:      models.F64(2600000),
		Liabilities: models.F64(800000),
		FixedAssets: models.F64(1500000),
		Revenue:     models.F64(1050000),
	}
	// FA growth 50% - revenue growth 5% = 45 points, past the 0.30 rung.
	ind := d.assetInflation(curr, prior)
	if ind.Score != 75 {
		t.Errorf("Expected score 75, got %f", ind.Score)
	}
	det := ind.Details.(*AssetInflationDetails)
	if math.Abs(det.Difference-0.45) > 0.0001 {
		t.Errorf("Expected growth gap 0.45, got %f", det.Difference)
	}
}

func TestAccrualRatio(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// (450,000 - 200,000) / 1,000,000 = 0.25, past the 0.15 rung.
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		NetIncome:   models.F64(450000),
		OperatingCF: models.F64(200000),
	}
	ind := d.accrualRatio(s)
	if ind.Score != 80 {
		t.Errorf("Expected score 80, got %f", ind.Score)
	}

	// The magnitude matters, not the sign: CFO far above NI flags too.
	s.NetIncome = models.F64(100000)
	s.OperatingCF = models.F64(400000)
	ind = d.accrualRatio(s)
	if ind.Score != 80 {
		t.Errorf("Expected score 80 for negative accruals of 0.30 magnitude, got %f", ind.Score)
	}
}

func TestAnalyzeMeanIncludesAbstentions(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// Only quality of earnings can flag here: Benford has 3 samples, the
	// growth checks have no prior, and accruals sit at 250,000/5,000,000 =
	// 0.05. Overall = 90/5 = 18, level Low.
	s := &models.FinancialStatement{
		Assets:      models.F64(5000000),
		Liabilities: models.F64(2000000),
		NetIncome:   models.F64(450000),
		OperatingCF: models.F64(200000),
	}
	rep, err := d.Analyze(s, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if math.Abs(rep.OverallScore-18) > 0.0001 {
		t.Errorf("Expected overall score 18, got %f", rep.OverallScore)
	}
	if rep.RiskLevel != models.SeverityLow {
		t.Errorf("Expected risk level Low, got %s", rep.RiskLevel)
	}
	if len(rep.Indicators) != 1 {
		t.Fatalf("Expected 1 exposed indicator, got %d", len(rep.Indicators))
	}
	if rep.Indicators[0].Type != IndicatorQualityOfEarnings {
		t.Errorf("Expected quality_of_earnings, got %s", rep.Indicators[0].Type)
	}
}

func TestAnalyzeAllFlags(t *testing.T) {
	d := NewDetector(thresholds.Default())
	prior := &models.FinancialStatement{
		Period:             "1401",
		Assets:             models.F64(4000000),
		Liabilities:        models.F64(400000),
		AccountsReceivable: models.F64(100000),
		Revenue:            models.F64(5000000),
		FixedAssets:        models.F64(3000000),
	}
	// Every sampled field leads with 5 (Benford 80), CFO is negative against
	// positive NI (QoE 90), receivables exploded against 2% sales growth
	// (85), fixed assets grew 73% versus 2% (75), and accruals are
	// 800,000/5,000,000 = 0.16 (80). Overall = 410/5 = 82, Critical.
	curr := &models.FinancialStatement{
		Period:             "1402",
		Assets:             models.F64(5000000),
		Liabilities:        models.F64(500000),
		CurrentAssets:      models.F64(550000),
		CurrentLiabilities: models.F64(520000),
		Revenue:            models.F64(5100000),
		NetIncome:          models.F64(500000),
		Cash:               models.F64(560000),
		Inventory:          models.F64(590000),
		AccountsReceivable: models.F64(550000),
		FixedAssets:        models.F64(5200000),
		OperatingCF:        models.F64(-300000),
	}
	rep, err := d.Analyze(curr, []*models.FinancialStatement{prior})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if math.Abs(rep.OverallScore-82) > 0.0001 {
		t.Errorf("Expected overall score 82, got %f", rep.OverallScore)
	}
	if rep.RiskLevel != models.SeverityCritical {
		t.Errorf("Expected risk level Critical, got %s", rep.RiskLevel)
	}
	if len(rep.Indicators) != 5 {
		t.Fatalf("Expected all 5 indicators flagged, got %d", len(rep.Indicators))
	}
	// Fixed analyzer order.
	wantOrder := []IndicatorType{
		IndicatorBenford,
		IndicatorQualityOfEarnings,
		IndicatorReceivableGrowth,
		IndicatorAssetInflation,
		IndicatorAccrualRatio,
	}
	for i, ind := range rep.Indicators {
		if ind.Type != wantOrder[i] {
			t.Errorf("Position %d: expected %s, got %s", i, wantOrder[i], ind.Type)
		}
		if ind.Score < 0 || ind.Score > 100 {
			t.Errorf("Indicator %s score out of bounds: %f", ind.Type, ind.Score)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	d := NewDetector(thresholds.Default())
	s := &models.FinancialStatement{
		Assets:      models.F64(5000000),
		Liabilities: models.F64(2000000),
		NetIncome:   models.F64(450000),
		OperatingCF: models.F64(200000),
	}
	first, err := d.Analyze(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Analyze(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical reports on repeated analysis")
	}
}
