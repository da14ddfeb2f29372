package risk

import (
	"encoding/json"
	"fmt"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// FinancialMetrics backs the solvency assessment.
type FinancialMetrics struct {
	DebtToEquity float64 `json:"debt_to_equity"`
	Equity       float64 `json:"equity"`
}

func (*FinancialMetrics) riskMetrics() {}

// LiquidityMetrics backs the short-term coverage assessment.
type LiquidityMetrics struct {
	CurrentRatio float64 `json:"current_ratio"`
}

func (*LiquidityMetrics) riskMetrics() {}

// OperationalMetrics backs the cost-structure assessment.
type OperationalMetrics struct {
	OpexRatio float64 `json:"opex_ratio"`
}

func (*OperationalMetrics) riskMetrics() {}

// MarketMetrics backs the revenue-generation assessment.
type MarketMetrics struct {
	RevenueToAssets float64 `json:"revenue_to_assets"`
	Loss            bool    `json:"loss"`
}

func (*MarketMetrics) riskMetrics() {}

// UnmarshalJSON reverses the tagged union when reports come back from
// storage: the category type selects the concrete metrics struct the
// payload decodes into.
func (as *Assessment) UnmarshalJSON(data []byte) error {
	type alias Assessment
	aux := struct {
		*alias
		Metrics json.RawMessage `json:"metrics"`
	}{alias: (*alias)(as)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Metrics) == 0 || string(aux.Metrics) == "null" {
		return nil
	}

	var m Metrics
	switch as.Type {
	case TypeFinancial:
		m = &FinancialMetrics{}
	case TypeLiquidity:
		m = &LiquidityMetrics{}
	case TypeOperational:
		m = &OperationalMetrics{}
	case TypeMarket:
		m = &MarketMetrics{}
	default:
		return fmt.Errorf("unknown risk type %q", as.Type)
	}
	if err := json.Unmarshal(aux.Metrics, m); err != nil {
		return err
	}
	as.Metrics = m
	return nil
}

// abstained builds the zero-score assessment used when a category lacks its
// inputs.
func abstained(t Type, reason string) Assessment {
	return Assessment{
		Type:        t,
		Score:       0,
		Level:       models.SeverityLow,
		Explanation: reason,
	}
}

// bandAbove walks a ladder where the metric flags by exceeding cutoffs.
func bandAbove(metric float64, cfg thresholds.RiskAssessorConfig) (float64, models.Severity) {
	for _, b := range cfg.Bands {
		if metric > b.Cutoff {
			return b.Score, b.Severity
		}
	}
	return cfg.BaseScore, models.SeverityLow
}

// bandBelow walks a ladder where the metric flags by falling under cutoffs.
// Rungs are strictest first, so the lowest cutoff wins.
func bandBelow(metric float64, cfg thresholds.RiskAssessorConfig) (float64, models.Severity) {
	for _, b := range cfg.Bands {
		if metric < b.Cutoff {
			return b.Score, b.Severity
		}
	}
	return cfg.BaseScore, models.SeverityLow
}

// financial grades solvency through debt-to-equity. Zero or negative equity
// takes the top rung outright: the leverage reading only worsens as equity
// approaches zero, and past it the company is balance-sheet insolvent.
func (a *Assessor) financial(stmt *models.FinancialStatement) Assessment {
	cfg := a.cfg.Risk.Financial
	eq := stmt.EquityValue()
	if eq <= 0 {
		top := cfg.Bands[0]
		return Assessment{
			Type:           TypeFinancial,
			Score:          top.Score,
			Level:          top.Severity,
			Explanation:    "equity is zero or negative; liabilities exceed assets",
			Recommendation: "Recapitalize or restructure debt before extending further credit.",
			Metrics:        &FinancialMetrics{Equity: eq},
		}
	}
	de := *stmt.Liabilities / eq
	score, level := bandAbove(de, cfg)

	as := Assessment{
		Type:        TypeFinancial,
		Score:       score,
		Level:       level,
		Explanation: fmt.Sprintf("liabilities stand at %.2fx equity", de),
		Metrics:     &FinancialMetrics{DebtToEquity: de, Equity: eq},
	}
	if level != models.SeverityLow {
		as.Recommendation = "Reduce leverage or strengthen the equity base."
	}
	return as
}

// liquidity grades short-term coverage through the current ratio.
func (a *Assessor) liquidity(stmt *models.FinancialStatement) Assessment {
	if !stmt.Has(models.FieldCurrentAssets, models.FieldCurrentLiabilities) {
		return abstained(TypeLiquidity, "current assets or current liabilities not reported")
	}
	cl := stmt.Val(models.FieldCurrentLiabilities)
	if cl == 0 {
		return abstained(TypeLiquidity, "current liabilities are zero, coverage undefined")
	}
	cr := stmt.Val(models.FieldCurrentAssets) / cl
	score, level := bandBelow(cr, a.cfg.Risk.Liquidity)

	as := Assessment{
		Type:        TypeLiquidity,
		Score:       score,
		Level:       level,
		Explanation: fmt.Sprintf("current assets cover %.2fx of current liabilities", cr),
		Metrics:     &LiquidityMetrics{CurrentRatio: cr},
	}
	if level != models.SeverityLow {
		as.Recommendation = "Shore up near-term liquidity: extend payables or arrange a credit line."
	}
	return as
}

// operational grades the cost structure through operating expenses over
// revenue.
func (a *Assessor) operational(stmt *models.FinancialStatement) Assessment {
	if !stmt.Has(models.FieldOperatingExpenses, models.FieldRevenue) {
		return abstained(TypeOperational, "operating expenses or revenue not reported")
	}
	rev := stmt.Val(models.FieldRevenue)
	if rev == 0 {
		return abstained(TypeOperational, "revenue is zero, expense ratio undefined")
	}
	opex := stmt.Val(models.FieldOperatingExpenses) / rev
	score, level := bandAbove(opex, a.cfg.Risk.Operational)

	as := Assessment{
		Type:        TypeOperational,
		Score:       score,
		Level:       level,
		Explanation: fmt.Sprintf("operating expenses consume %.0f%% of revenue", opex*100),
		Metrics:     &OperationalMetrics{OpexRatio: opex},
	}
	if level != models.SeverityLow {
		as.Recommendation = "Review the cost base; the expense ratio leaves little margin for shocks."
	}
	return as
}

// market grades revenue generation against the asset base. It is only
// produced when revenue is reported at all; a loss-making statement takes a
// fixed penalty on top and can never read better than Medium.
func (a *Assessor) market(stmt *models.FinancialStatement) (Assessment, bool) {
	if !stmt.Has(models.FieldRevenue) {
		return Assessment{}, false
	}
	ta := *stmt.Assets
	if ta == 0 {
		return abstained(TypeMarket, "total assets are zero, asset productivity undefined"), true
	}
	rev := stmt.Val(models.FieldRevenue)
	rta := rev / ta
	score, level := bandBelow(rta, a.cfg.Risk.Market)

	loss := false
	if stmt.Has(models.FieldNetIncome) && rev != 0 && stmt.Val(models.FieldNetIncome)/rev < 0 {
		loss = true
		score += a.cfg.Risk.LossPenalty
		if score > 100 {
			score = 100
		}
		level = a.cfg.Risk.Levels.Level(score)
		if level == models.SeverityLow {
			level = models.SeverityMedium
		}
	}

	explanation := fmt.Sprintf("revenue turns over %.2fx of assets", rta)
	if loss {
		explanation += "; the period closed at a net loss"
	}
	as := Assessment{
		Type:        TypeMarket,
		Score:       score,
		Level:       level,
		Explanation: explanation,
		Metrics:     &MarketMetrics{RevenueToAssets: rta, Loss: loss},
	}
	if level != models.SeverityLow {
		as.Recommendation = "Investigate demand and pricing; asset productivity trails the risk bar."
	}
	return as, true
}
