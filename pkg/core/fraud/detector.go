package fraud

import (
	"fmt"
	"math"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// IndicatorType names one of the five heuristics.
type IndicatorType string

const (
	IndicatorBenford           IndicatorType = "benford_deviation"
	IndicatorQualityOfEarnings IndicatorType = "quality_of_earnings"
	IndicatorReceivableGrowth  IndicatorType = "receivable_growth"
	IndicatorAssetInflation    IndicatorType = "asset_inflation"
	IndicatorAccrualRatio      IndicatorType = "accrual_ratio"
)

// Indicator is one heuristic's verdict on a statement. Score 0 means the
// check either passed clean or abstained for lack of data; the description
// says which.
type Indicator struct {
	Type           IndicatorType    `json:"type"`
	Severity       models.Severity  `json:"severity"`
	Score          float64          `json:"score"`
	Description    string           `json:"description"`
	Details        IndicatorDetails `json:"details,omitempty"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// Report aggregates the five heuristics for one statement. OverallScore is
// the mean over all five analyzer scores, abstentions included as zeros, so
// a single flag cannot dominate a mostly-unscorable statement.
type Report struct {
	OverallScore float64         `json:"overall_score"`
	RiskLevel    models.Severity `json:"risk_level"`
	// Indicators lists only the flagged heuristics (score > 0), in fixed
	// analyzer order.
	Indicators []Indicator `json:"indicators"`
}

// Detector runs the five fraud heuristics against a statement.
type Detector struct {
	cfg *thresholds.Config
}

func NewDetector(cfg *thresholds.Config) *Detector {
	return &Detector{cfg: cfg}
}

// abstain is the shared no-opinion result for an analyzer missing its
// inputs.
func abstain(t IndicatorType, reason string) Indicator {
	return Indicator{
		Type:        t,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: reason,
	}
}

// Analyze scores stmt against the five heuristics. previous, when supplied,
// holds the company's earlier statements; the growth-based checks compare
// against the latest of them. A nil or empty previous just makes those
// checks abstain.
func (d *Detector) Analyze(stmt *models.FinancialStatement, previous []*models.FinancialStatement) (*Report, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	var prior *models.FinancialStatement
	if len(previous) > 0 {
		sorted := models.SortByPeriod(previous)
		prior = sorted[len(sorted)-1]
		if err := prior.Validate(); err != nil {
			return nil, err
		}
	}

	indicators := []Indicator{
		d.benford(stmt),
		d.qualityOfEarnings(stmt),
		d.receivableGrowth(stmt, prior),
		d.assetInflation(stmt, prior),
		d.accrualRatio(stmt),
	}

	var total float64
	flagged := make([]Indicator, 0, len(indicators))
	for _, ind := range indicators {
		total += ind.Score
		if ind.Score > 0 {
			flagged = append(flagged, ind)
		}
	}
	overall := math.Min(total/float64(len(indicators)), 100)

	return &Report{
		OverallScore: overall,
		RiskLevel:    d.cfg.Fraud.Levels.Level(overall),
		Indicators:   flagged,
	}, nil
}

// qualityOfEarnings compares operating cash flow against net income.
// Earnings without cash behind them score progressively worse as the CFO/NI
// ratio drops below 1.
func (d *Detector) qualityOfEarnings(stmt *models.FinancialStatement) Indicator {
	if !stmt.Has(models.FieldOperatingCF, models.FieldNetIncome) {
		return abstain(IndicatorQualityOfEarnings, "operating cash flow or net income not reported")
	}
	ni := stmt.Val(models.FieldNetIncome)
	if ni == 0 {
		return abstain(IndicatorQualityOfEarnings, "net income is zero, cash backing ratio undefined")
	}
	cfo := stmt.Val(models.FieldOperatingCF)
	ratio := cfo / ni
	details := &QualityOfEarningsDetails{OperatingCF: cfo, NetIncome: ni, Ratio: ratio}

	for _, b := range d.cfg.Fraud.QualityOfEarnings {
		if ratio < b.Cutoff {
			return Indicator{
				Type:           IndicatorQualityOfEarnings,
				Severity:       b.Severity,
				Score:          b.Score,
				Description:    fmt.Sprintf("operating cash flow covers only %.0f%% of reported net income", ratio*100),
				Details:        details,
				Recommendation: "Reconcile revenue recognition and accrual entries against collections.",
			}
		}
	}
	return Indicator{
		Type:        IndicatorQualityOfEarnings,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: "operating cash flow fully backs reported earnings",
		Details:     details,
	}
}

// growthRate is the fractional period-over-period change, computed against
// the magnitude of the prior value so a negative base keeps its direction.
func growthRate(current, prior float64) float64 {
	return (current - prior) / math.Abs(prior)
}

// receivableGrowth flags receivables growing out of proportion to sales, a
// classic sign of channel stuffing or fictitious revenue. Flat sales make
// the proportion meaningless, so that case abstains with a note.
func (d *Detector) receivableGrowth(stmt, prior *models.FinancialStatement) Indicator {
	if prior == nil {
		return abstain(IndicatorReceivableGrowth, "no prior period available")
	}
	need := []models.Field{models.FieldAccountsReceivable, models.FieldRevenue}
	if !stmt.Has(need...) || !prior.Has(need...) {
		return abstain(IndicatorReceivableGrowth, "receivables or revenue missing in one of the periods")
	}
	prevAR := prior.Val(models.FieldAccountsReceivable)
	prevRev := prior.Val(models.FieldRevenue)
	if prevAR == 0 || prevRev == 0 {
		return abstain(IndicatorReceivableGrowth, "prior-period base is zero, growth undefined")
	}

	arGrowth := growthRate(stmt.Val(models.FieldAccountsReceivable), prevAR)
	salesGrowth := growthRate(stmt.Val(models.FieldRevenue), prevRev)
	if salesGrowth == 0 {
		ind := abstain(IndicatorReceivableGrowth, "sales flat between periods, receivable-to-sales comparison inconclusive")
		ind.Details = &ReceivableGrowthDetails{
			ReceivableGrowth: arGrowth,
			SalesGrowth:      0,
			Note:             "zero sales growth",
		}
		return ind
	}

	ratio := arGrowth / salesGrowth
	details := &ReceivableGrowthDetails{ReceivableGrowth: arGrowth, SalesGrowth: salesGrowth, Ratio: ratio}
	for _, b := range d.cfg.Fraud.ReceivableGrowth {
		if ratio > b.Cutoff {
			return Indicator{
				Type:           IndicatorReceivableGrowth,
				Severity:       b.Severity,
				Score:          b.Score,
				Description:    fmt.Sprintf("receivables grew %.1fx faster than sales", ratio),
				Details:        details,
				Recommendation: "Age the receivables ledger and verify collectability of the newest balances.",
			}
		}
	}
	return Indicator{
		Type:        IndicatorReceivableGrowth,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: "receivable growth in line with sales",
		Details:     details,
	}
}

// assetInflation flags fixed assets growing well past revenue, which can
// hide capitalized operating costs.
func (d *Detector) assetInflation(stmt, prior *models.FinancialStatement) Indicator {
	if prior == nil {
		return abstain(IndicatorAssetInflation, "no prior period available")
	}
	need := []models.Field{models.FieldFixedAssets, models.FieldRevenue}
	if !stmt.Has(need...) || !prior.Has(need...) {
		return abstain(IndicatorAssetInflation, "fixed assets or revenue missing in one of the periods")
	}
	prevFA := prior.Val(models.FieldFixedAssets)
	prevRev := prior.Val(models.FieldRevenue)
	if prevFA == 0 || prevRev == 0 {
		return abstain(IndicatorAssetInflation, "prior-period base is zero, growth undefined")
	}

	faGrowth := growthRate(stmt.Val(models.FieldFixedAssets), prevFA)
	revGrowth := growthRate(stmt.Val(models.FieldRevenue), prevRev)
	diff := faGrowth - revGrowth
	details := &AssetInflationDetails{FixedAssetGrowth: faGrowth, RevenueGrowth: revGrowth, Difference: diff}

	for _, b := range d.cfg.Fraud.AssetInflation {
		if diff > b.Cutoff {
			return Indicator{
				Type:           IndicatorAssetInflation,
				Severity:       b.Severity,
				Score:          b.Score,
				Description:    fmt.Sprintf("fixed assets grew %.0f points faster than revenue", diff*100),
				Details:        details,
				Recommendation: "Inspect capitalization policy for expenses moved onto the balance sheet.",
			}
		}
	}
	return Indicator{
		Type:        IndicatorAssetInflation,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: "fixed-asset growth consistent with revenue growth",
		Details:     details,
	}
}

// accrualRatio measures the gap between net income and operating cash flow
// scaled by total assets. Large gaps in either direction point at aggressive
// accrual accounting.
func (d *Detector) accrualRatio(stmt *models.FinancialStatement) Indicator {
	if !stmt.Has(models.FieldNetIncome, models.FieldOperatingCF) {
		return abstain(IndicatorAccrualRatio, "net income or operating cash flow not reported")
	}
	ta := *stmt.Assets
	if ta == 0 {
		return abstain(IndicatorAccrualRatio, "total assets are zero, accrual ratio undefined")
	}
	ni := stmt.Val(models.FieldNetIncome)
	cfo := stmt.Val(models.FieldOperatingCF)
	accrual := (ni - cfo) / ta
	details := &AccrualRatioDetails{NetIncome: ni, OperatingCF: cfo, TotalAssets: ta, AccrualRatio: accrual}

	mag := math.Abs(accrual)
	for _, b := range d.cfg.Fraud.AccrualRatio {
		if mag > b.Cutoff {
			return Indicator{
				Type:           IndicatorAccrualRatio,
				Severity:       b.Severity,
				Score:          b.Score,
				Description:    fmt.Sprintf("accruals amount to %.1f%% of total assets", accrual*100),
				Details:        details,
				Recommendation: "Break down the accrual components; recurring high accruals warrant a restatement check.",
			}
		}
	}
	return Indicator{
		Type:        IndicatorAccrualRatio,
		Severity:    models.SeverityLow,
		Score:       0,
		Description: "accrual levels unremarkable",
		Details:     details,
	}
}
