package risk

import (
	"fmt"

	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// Type names a risk category.
type Type string

const (
	TypeFinancial   Type = "Financial"
	TypeLiquidity   Type = "Liquidity"
	TypeOperational Type = "Operational"
	TypeMarket      Type = "Market"
)

// Metrics is the typed metric payload behind an assessment, one concrete
// type per category.
type Metrics interface {
	riskMetrics()
}

// Assessment is one category's verdict on a statement.
type Assessment struct {
	Type           Type            `json:"type"`
	Score          float64         `json:"score"`
	Level          models.Severity `json:"level"`
	Explanation    string          `json:"explanation"`
	Recommendation string          `json:"recommendation,omitempty"`
	Metrics        Metrics         `json:"metrics,omitempty"`
}

// Report aggregates the category assessments for one statement. The overall
// score is a weighted mean renormalized over the categories actually
// produced, so an absent market assessment does not drag the score down.
type Report struct {
	OverallScore float64         `json:"overall_score"`
	RiskLevel    models.Severity `json:"risk_level"`
	Assessments  []Assessment    `json:"assessments"`
	Summary      string          `json:"summary"`
}

// Assessor evaluates the four risk categories for a statement.
type Assessor struct {
	cfg *thresholds.Config
}

func NewAssessor(cfg *thresholds.Config) *Assessor {
	return &Assessor{cfg: cfg}
}

// AssessRisks runs the category assessors. Financial, liquidity, and
// operational always produce an assessment (abstaining at score 0 when data
// is missing); market is produced only when revenue is reported.
func (a *Assessor) AssessRisks(stmt *models.FinancialStatement) (*Report, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}

	assessments := []Assessment{
		a.financial(stmt),
		a.liquidity(stmt),
		a.operational(stmt),
	}
	if market, ok := a.market(stmt); ok {
		assessments = append(assessments, market)
	}

	var weighted, weightSum float64
	for _, as := range assessments {
		w := a.weightOf(as.Type)
		weighted += as.Score * w
		weightSum += w
	}
	var overall float64
	if weightSum > 0 {
		overall = weighted / weightSum
	}
	level := a.cfg.Risk.Levels.Level(overall)

	return &Report{
		OverallScore: overall,
		RiskLevel:    level,
		Assessments:  assessments,
		Summary:      summarize(assessments, overall, level),
	}, nil
}

func (a *Assessor) weightOf(t Type) float64 {
	w := a.cfg.Risk.Weights
	switch t {
	case TypeFinancial:
		return w.Financial
	case TypeLiquidity:
		return w.Liquidity
	case TypeOperational:
		return w.Operational
	case TypeMarket:
		return w.Market
	}
	return 0
}

// summarize names the overall level and the heaviest category. Ties keep
// the first category in assessment order, so the text is stable.
func summarize(assessments []Assessment, overall float64, level models.Severity) string {
	var top *Assessment
	for i := range assessments {
		if top == nil || assessments[i].Score > top.Score {
			top = &assessments[i]
		}
	}
	if top == nil {
		return "no risk categories assessed"
	}
	return fmt.Sprintf("%d categories assessed; overall risk %.1f (%s), driven by %s (%.0f, %s)",
		len(assessments), overall, level, top.Type, top.Score, top.Level)
}
