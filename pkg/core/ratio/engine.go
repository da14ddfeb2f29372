package ratio

import (
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// Category buckets a ratio.
type Category string

const (
	CategoryLiquidity     Category = "Liquidity"
	CategoryLeverage      Category = "Leverage"
	CategoryProfitability Category = "Profitability"
	CategoryEfficiency    Category = "Efficiency"
)

// Status grades a ratio against its thresholds.
type Status string

const (
	StatusGood     Status = "Good"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// Ratio is one computed financial ratio. Ideal carries the Good boundary as
// the reference value.
type Ratio struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Value    float64  `json:"value"`
	Ideal    float64  `json:"ideal"`
	Status   Status   `json:"status"`
}

// CategoryScores holds the 0-100 score per ratio category.
type CategoryScores struct {
	Liquidity     float64 `json:"liquidity"`
	Leverage      float64 `json:"leverage"`
	Profitability float64 `json:"profitability"`
	Efficiency    float64 `json:"efficiency"`
}

// Engine computes the ratio suite for a single statement.
type Engine struct {
	cfg *thresholds.Config
}

func NewEngine(cfg *thresholds.Config) *Engine {
	return &Engine{cfg: cfg}
}

// definition describes one ratio: the optional fields it needs, how to
// compute it, and which side of its band counts as good. The value func
// returns ok=false to omit the ratio on zero denominators or non-positive
// equity; a missing field already omits it via requires.
type definition struct {
	name          string
	category      Category
	requires      []models.Field
	lowerIsBetter bool
	band          func(*thresholds.RatioConfig) thresholds.RatioBand
	value         func(*models.FinancialStatement) (float64, bool)
}

// div guards a division. Unlike a safeDiv that returns 0, the ok flag makes
// the caller drop the ratio entirely: a zero denominator must never read as
// a zero-valued ratio.
func div(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// definitions lists the thirteen ratios in their fixed output order.
var definitions = []definition{
	{
		name:     "Current Ratio",
		category: CategoryLiquidity,
		requires: []models.Field{models.FieldCurrentAssets, models.FieldCurrentLiabilities},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.CurrentRatio },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldCurrentAssets), s.Val(models.FieldCurrentLiabilities))
		},
	},
	{
		name:     "Quick Ratio",
		category: CategoryLiquidity,
		requires: []models.Field{models.FieldCurrentAssets, models.FieldInventory, models.FieldCurrentLiabilities},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.QuickRatio },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldCurrentAssets)-s.Val(models.FieldInventory), s.Val(models.FieldCurrentLiabilities))
		},
	},
	{
		name:     "Cash Ratio",
		category: CategoryLiquidity,
		requires: []models.Field{models.FieldCash, models.FieldCurrentLiabilities},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.CashRatio },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldCash), s.Val(models.FieldCurrentLiabilities))
		},
	},
	{
		name:          "Debt to Equity",
		category:      CategoryLeverage,
		lowerIsBetter: true,
		band:          func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.DebtToEquity },
		value: func(s *models.FinancialStatement) (float64, bool) {
			eq := s.EquityValue()
			if eq <= 0 {
				return 0, false
			}
			return *s.Liabilities / eq, true
		},
	},
	{
		name:          "Debt Ratio",
		category:      CategoryLeverage,
		lowerIsBetter: true,
		band:          func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.DebtRatio },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(*s.Liabilities, *s.Assets)
		},
	},
	{
		name:     "Times Interest Earned",
		category: CategoryLeverage,
		requires: []models.Field{models.FieldEBIT, models.FieldInterestExpense},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.TimesInterestEarned },
		value: func(s *models.FinancialStatement) (float64, bool) {
			ie := s.Val(models.FieldInterestExpense)
			if ie <= 0 {
				return 0, false
			}
			return s.Val(models.FieldEBIT) / ie, true
		},
	},
	{
		name:     "Net Profit Margin",
		category: CategoryProfitability,
		requires: []models.Field{models.FieldNetIncome, models.FieldRevenue},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.NetProfitMargin },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldNetIncome), s.Val(models.FieldRevenue))
		},
	},
	{
		name:     "Return on Assets",
		category: CategoryProfitability,
		requires: []models.Field{models.FieldNetIncome},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.ReturnOnAssets },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldNetIncome), *s.Assets)
		},
	},
	{
		name:     "Return on Equity",
		category: CategoryProfitability,
		requires: []models.Field{models.FieldNetIncome},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.ReturnOnEquity },
		value: func(s *models.FinancialStatement) (float64, bool) {
			eq := s.EquityValue()
			if eq <= 0 {
				return 0, false
			}
			return s.Val(models.FieldNetIncome) / eq, true
		},
	},
	{
		name:     "Gross Profit Margin",
		category: CategoryProfitability,
		requires: []models.Field{models.FieldGrossProfit, models.FieldRevenue},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.GrossProfitMargin },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldGrossProfit), s.Val(models.FieldRevenue))
		},
	},
	{
		name:     "Asset Turnover",
		category: CategoryEfficiency,
		requires: []models.Field{models.FieldRevenue},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.AssetTurnover },
		value: func(s *models.FinancialStatement) (float64, bool) {
			return div(s.Val(models.FieldRevenue), *s.Assets)
		},
	},
	{
		name:     "Inventory Turnover",
		category: CategoryEfficiency,
		requires: []models.Field{models.FieldCOGS, models.FieldInventory},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.InventoryTurnover },
		value: func(s *models.FinancialStatement) (float64, bool) {
			inv := s.Val(models.FieldInventory)
			if inv <= 0 {
				return 0, false
			}
			return s.Val(models.FieldCOGS) / inv, true
		},
	},
	{
		name:     "Receivables Turnover",
		category: CategoryEfficiency,
		requires: []models.Field{models.FieldRevenue, models.FieldAccountsReceivable},
		band:     func(c *thresholds.RatioConfig) thresholds.RatioBand { return c.ReceivablesTurnover },
		value: func(s *models.FinancialStatement) (float64, bool) {
			ar := s.Val(models.FieldAccountsReceivable)
			if ar <= 0 {
				return 0, false
			}
			return s.Val(models.FieldRevenue) / ar, true
		},
	},
}

// ComputeRatios evaluates every ratio whose inputs are present and
// well-defined on stmt. Ratios with missing fields, zero denominators, or
// non-positive equity are omitted, not zeroed. Output order is fixed.
func (e *Engine) ComputeRatios(stmt *models.FinancialStatement) ([]Ratio, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	out := make([]Ratio, 0, len(definitions))
	for _, d := range definitions {
		if !stmt.Has(d.requires...) {
			continue
		}
		v, ok := d.value(stmt)
		if !ok {
			continue
		}
		b := d.band(&e.cfg.Ratios)
		st := statusAtLeast(v, b)
		if d.lowerIsBetter {
			st = statusAtMost(v, b)
		}
		out = append(out, Ratio{
			Name:     d.name,
			Category: d.category,
			Value:    v,
			Ideal:    b.Good,
			Status:   st,
		})
	}
	return out, nil
}

func statusAtLeast(v float64, b thresholds.RatioBand) Status {
	switch {
	case v >= b.Good:
		return StatusGood
	case v >= b.Warning:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func statusAtMost(v float64, b thresholds.RatioBand) Status {
	switch {
	case v <= b.Good:
		return StatusGood
	case v <= b.Warning:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// CategoryScores averages status points per category. A category with no
// computed ratios scores 0.
func (e *Engine) CategoryScores(ratios []Ratio) CategoryScores {
	p := e.cfg.Ratios.Points
	var cs CategoryScores
	var nLiq, nLev, nProf, nEff int
	for _, r := range ratios {
		pts := p.Critical
		switch r.Status {
		case StatusGood:
			pts = p.Good
		case StatusWarning:
			pts = p.Warning
		}
		switch r.Category {
		case CategoryLiquidity:
			cs.Liquidity += pts
			nLiq++
		case CategoryLeverage:
			cs.Leverage += pts
			nLev++
		case CategoryProfitability:
			cs.Profitability += pts
			nProf++
		case CategoryEfficiency:
			cs.Efficiency += pts
			nEff++
		}
	}
	if nLiq > 0 {
		cs.Liquidity /= float64(nLiq)
	}
	if nLev > 0 {
		cs.Leverage /= float64(nLev)
	}
	if nProf > 0 {
		cs.Profitability /= float64(nProf)
	}
	if nEff > 0 {
		cs.Efficiency /= float64(nEff)
	}
	return cs
}

// OverallScore folds the category scores into one weighted ratio score.
func (e *Engine) OverallScore(cs CategoryScores) float64 {
	w := e.cfg.Ratios.CategoryWeights
	return cs.Liquidity*w.Liquidity +
		cs.Leverage*w.Leverage +
		cs.Profitability*w.Profitability +
		cs.Efficiency*w.Efficiency
}
