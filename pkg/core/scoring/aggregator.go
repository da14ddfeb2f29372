// Package scoring folds the ratio category indices and the fraud screen into
// a single weighted score, letter rating, and recommendation.
package scoring

import (
	"math"

	"finrisk/pkg/core/fraud"
	"finrisk/pkg/core/ratio"
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// WeightedScore is the composite verdict on one statement.
type WeightedScore struct {
	FinalScore     float64              `json:"final_score"`
	Rating         string               `json:"rating"`
	Categories     ratio.CategoryScores `json:"categories"`
	FraudRiskIndex float64              `json:"fraud_risk_index"`
	Recommendation string               `json:"recommendation"`
}

// Aggregator runs the ratio engine and the fraud detector and weighs their
// outputs into the final score.
type Aggregator struct {
	cfg      *thresholds.Config
	ratios   *ratio.Engine
	detector *fraud.Detector
}

func NewAggregator(cfg *thresholds.Config) *Aggregator {
	return &Aggregator{
		cfg:      cfg,
		ratios:   ratio.NewEngine(cfg),
		detector: fraud.NewDetector(cfg),
	}
}

// CalculateWeightedScore scores one statement, with previous supplying the
// history the growth-based fraud checks compare against. The fraud score
// inverts into a fraud-risk index (100 = clean) so every term of the
// weighted sum points the same way: higher is healthier.
func (a *Aggregator) CalculateWeightedScore(stmt *models.FinancialStatement, previous []*models.FinancialStatement) (*WeightedScore, error) {
	rs, err := a.ratios.ComputeRatios(stmt)
	if err != nil {
		return nil, err
	}
	cats := a.ratios.CategoryScores(rs)

	fr, err := a.detector.Analyze(stmt, previous)
	if err != nil {
		return nil, err
	}
	fraudRiskIndex := 100 - fr.OverallScore

	w := a.cfg.Scoring.Weights
	final := round2(w.Liquidity*cats.Liquidity +
		w.Leverage*cats.Leverage +
		w.Profitability*cats.Profitability +
		w.Efficiency*cats.Efficiency +
		w.FraudRisk*fraudRiskIndex)

	return &WeightedScore{
		FinalScore:     final,
		Rating:         a.cfg.Scoring.Rating(final),
		Categories:     cats,
		FraudRiskIndex: fraudRiskIndex,
		Recommendation: a.recommendation(final, cats, fraudRiskIndex),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
