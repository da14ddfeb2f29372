package fraud

import (
	"testing"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

func TestLeadingDigit(t *testing.T) {
	cases := []struct {
		value float64
		digit int
	}{
		{4200, 4},
		{1, 1},
		{999999, 9},
		{0.042, 4},
		{0.5, 5},
		{123.45, 1},
		{0, 0},
	}
	for _, c := range cases {
		if got := leadingDigit(c.value); got != c.digit {
			t.Errorf("leadingDigit(%v): expected %d, got %d", c.value, c.digit, got)
		}
	}
}

func TestBenfordAbstainsOnSmallSample(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// Only four strictly positive sampled fields: assets, liabilities,
	// revenue, net income. Below the five-sample floor.
	s := &models.FinancialStatement{
		Assets:      models.F64(1000000),
		Liabilities: models.F64(400000),
		Revenue:     models.F64(750000),
		NetIncome:   models.F64(90000),
	}
	ind := d.benford(s)
	if ind.Score != 0 {
		t.Errorf("Expected score 0 on a small sample, got %f", ind.Score)
	}
	if ind.Severity != models.SeverityLow {
		t.Errorf("Expected severity Low, got %s", ind.Severity)
	}
}

func TestBenfordNegativeValuesExcluded(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// Net income is negative, so only four values qualify and the check
	// abstains.
	s := &models.FinancialStatement{
		Assets:             models.F64(1000000),
		Liabilities:        models.F64(400000),
		Revenue:            models.F64(750000),
		NetIncome:          models.F64(-90000),
		AccountsReceivable: models.F64(120000),
	}
	ind := d.benford(s)
	if ind.Score != 0 {
		t.Errorf("Expected abstention with negatives excluded, got score %f", ind.Score)
	}
}

func TestBenfordFlagsUniformDigits(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// All nine sampled fields lead with digit 5. With n=9 the chi-square is
	// (9-0.711)^2/0.711 + 8.289 ≈ 104.9, far beyond 2x the critical 15.51.
	s := &models.FinancialStatement{
		Assets:             models.F64(5000000),
		Liabilities:        models.F64(500000),
		CurrentAssets:      models.F64(550000),
		CurrentLiabilities: models.F64(520000),
		Revenue:            models.F64(5100000),
		NetIncome:          models.F64(500000),
		Cash:               models.F64(560000),
		Inventory:          models.F64(590000),
		AccountsReceivable: models.F64(550000),
	}
	ind := d.benford(s)
	if ind.Score != 80 {
		t.Errorf("Expected score 80 for an extreme deviation, got %f", ind.Score)
	}
	if ind.Severity != models.SeverityCritical {
		t.Errorf("Expected severity Critical, got %s", ind.Severity)
	}
	det, ok := ind.Details.(*BenfordDetails)
	if !ok {
		t.Fatal("Expected BenfordDetails payload")
	}
	if det.SampleSize != 9 {
		t.Errorf("Expected sample size 9, got %d", det.SampleSize)
	}
	if det.ChiSquare <= 2*det.Critical {
		t.Errorf("Expected chi-square above 2x critical, got %f", det.ChiSquare)
	}
}

func TestBenfordPassesConformingDigits(t *testing.T) {
	d := NewDetector(thresholds.Default())
	// Leading digits 1,1,1,2,2,3,4,5,8 track the Benford shape closely; the
	// chi-square works out to roughly 2.5, well under 15.51.
	s := &models.FinancialStatement{
		Assets:             models.F64(1050000),
		Liabilities:        models.F64(140000),
		CurrentAssets:      models.F64(195000),
		CurrentLiabilities: models.F64(210000),
		Revenue:            models.F64(2400000),
		NetIncome:          models.F64(310000),
		Cash:               models.F64(45000),
		Inventory:          models.F64(56000),
		AccountsReceivable: models.F64(82000),
	}
	ind := d.benford(s)
	if ind.Score != 0 {
		t.Errorf("Expected score 0 for conforming digits, got %f (%s)", ind.Score, ind.Description)
	}
	det, ok := ind.Details.(*BenfordDetails)
	if !ok {
		t.Fatal("Expected BenfordDetails payload")
	}
	if det.ChiSquare > det.Critical {
		t.Errorf("Expected chi-square under critical, got %f", det.ChiSquare)
	}
}
