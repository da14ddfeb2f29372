package forecast

import (
	"finrisk/pkg/models"
)

// Zone labels the band a Z-Score falls into.
type Zone string

const (
	ZoneSafe     Zone = "Safe"
	ZoneGrey     Zone = "Grey"
	ZoneDistress Zone = "Distress"
)

// ZScoreComponents are the five ratios the index weights.
type ZScoreComponents struct {
	WorkingCapitalToAssets   float64 `json:"working_capital_to_assets"`
	RetainedEarningsToAssets float64 `json:"retained_earnings_to_assets"`
	EBITToAssets             float64 `json:"ebit_to_assets"`
	EquityToLiabilities      float64 `json:"equity_to_liabilities"`
	SalesToAssets            float64 `json:"sales_to_assets"`
}

// ZScoreResult carries the rounded index, its zone, and the component ratios
// that produced it.
type ZScoreResult struct {
	ZScore         float64          `json:"z_score"`
	Zone           Zone             `json:"zone"`
	BankruptcyRisk models.Severity  `json:"bankruptcy_risk"`
	Components     ZScoreComponents `json:"components"`
}

// CalculateZScore computes the Altman Z-Score for one statement. Unlike the
// ratio and fraud checks, the model defaults missing optional inputs instead
// of abstaining: working capital and sales read as 0, retained earnings and
// EBIT fall back to net income, and the equity term is 0 when liabilities
// are 0. A statement with zero assets produces a non-finite index, which the
// zone mapping places in Distress.
func (f *Forecaster) CalculateZScore(stmt *models.FinancialStatement) (*ZScoreResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}

	ta := *stmt.Assets
	tl := *stmt.Liabilities

	wc := orZero(stmt, models.FieldCurrentAssets) - orZero(stmt, models.FieldCurrentLiabilities)
	re := fallback(stmt, models.FieldRetainedEarnings, models.FieldNetIncome)
	ebit := fallback(stmt, models.FieldEBIT, models.FieldNetIncome)
	sales := orZero(stmt, models.FieldRevenue)

	comp := ZScoreComponents{
		WorkingCapitalToAssets:   wc / ta,
		RetainedEarningsToAssets: re / ta,
		EBITToAssets:             ebit / ta,
		SalesToAssets:            sales / ta,
	}
	if tl != 0 {
		comp.EquityToLiabilities = stmt.EquityValue() / tl
	}

	cfg := f.cfg.ZScore
	z := round2(cfg.WorkingCapitalWeight*comp.WorkingCapitalToAssets +
		cfg.RetainedEarningsWeight*comp.RetainedEarningsToAssets +
		cfg.EBITWeight*comp.EBITToAssets +
		cfg.EquityWeight*comp.EquityToLiabilities +
		cfg.SalesWeight*comp.SalesToAssets)

	res := &ZScoreResult{ZScore: z, Components: comp}
	switch {
	case z > cfg.SafeAbove:
		res.Zone = ZoneSafe
		res.BankruptcyRisk = models.SeverityLow
	case z > cfg.GreyAbove:
		res.Zone = ZoneGrey
		res.BankruptcyRisk = models.SeverityMedium
	default:
		// A NaN index compares false against both cutoffs and lands here.
		res.Zone = ZoneDistress
		res.BankruptcyRisk = models.SeverityHigh
	}
	return res, nil
}

// orZero reads an optional field, defaulting to 0 when absent.
func orZero(stmt *models.FinancialStatement, f models.Field) float64 {
	if stmt.Has(f) {
		return stmt.Val(f)
	}
	return 0
}

// fallback returns the primary field when present, then the alternate, then 0.
func fallback(stmt *models.FinancialStatement, primary, alt models.Field) float64 {
	if stmt.Has(primary) {
		return stmt.Val(primary)
	}
	return orZero(stmt, alt)
}
