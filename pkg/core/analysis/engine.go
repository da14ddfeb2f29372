// Package analysis orchestrates the full assessment of a company: ratios,
// fraud screen, risk categories, Z-Score, forecasts, trend, and the final
// weighted score, run off one statement history.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finrisk/pkg/core/forecast"
	"finrisk/pkg/core/fraud"
	"finrisk/pkg/core/ratio"
	"finrisk/pkg/core/risk"
	"finrisk/pkg/core/scoring"
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/models"
)

// CompanyAssessment is the combined output of every engine for one company,
// evaluated at its latest statement.
type CompanyAssessment struct {
	AssessmentID string    `json:"assessment_id"`
	CompanyID    string    `json:"company_id"`
	Period       string    `json:"period"`
	GeneratedAt  time.Time `json:"generated_at"`

	Ratios     []ratio.Ratio          `json:"ratios"`
	RatioScore float64                `json:"ratio_score"`
	Fraud      *fraud.Report          `json:"fraud"`
	Risk       *risk.Report           `json:"risk"`
	ZScore     *forecast.ZScoreResult `json:"z_score"`
	// Forecasts is nil when the history is too short to fit a growth trend;
	// the rest of the assessment still runs.
	Forecasts []forecast.RevenueForecast `json:"forecasts,omitempty"`
	Trend     forecast.Trend             `json:"trend"`
	Score     *scoring.WeightedScore     `json:"score"`
}

// Engine wires the five scoring engines against one thresholds config.
type Engine struct {
	cfg        *thresholds.Config
	ratios     *ratio.Engine
	detector   *fraud.Detector
	assessor   *risk.Assessor
	forecaster *forecast.Forecaster
	aggregator *scoring.Aggregator
}

func NewEngine(cfg *thresholds.Config) *Engine {
	return &Engine{
		cfg:        cfg,
		ratios:     ratio.NewEngine(cfg),
		detector:   fraud.NewDetector(cfg),
		assessor:   risk.NewAssessor(cfg),
		forecaster: forecast.NewForecaster(cfg),
		aggregator: scoring.NewAggregator(cfg),
	}
}

// Assess runs the full pipeline over a company's statements. The newest
// period is assessed; the earlier ones feed the growth-based fraud checks,
// the revenue forecast, and the trend vote. A short history degrades the
// forecast to nil instead of failing the whole assessment.
func (e *Engine) Assess(stmts []*models.FinancialStatement) (*CompanyAssessment, error) {
	if len(stmts) == 0 {
		return nil, fmt.Errorf("assessment needs at least one statement: %w", models.ErrInsufficientHistory)
	}
	sorted := models.SortByPeriod(stmts)
	latest := sorted[len(sorted)-1]
	previous := sorted[:len(sorted)-1]

	ratios, err := e.ratios.ComputeRatios(latest)
	if err != nil {
		return nil, err
	}
	cats := e.ratios.CategoryScores(ratios)

	fraudReport, err := e.detector.Analyze(latest, previous)
	if err != nil {
		return nil, err
	}
	riskReport, err := e.assessor.AssessRisks(latest)
	if err != nil {
		return nil, err
	}
	zscore, err := e.forecaster.CalculateZScore(latest)
	if err != nil {
		return nil, err
	}
	score, err := e.aggregator.CalculateWeightedScore(latest, previous)
	if err != nil {
		return nil, err
	}

	forecasts, err := e.forecaster.ForecastRevenue(sorted, e.cfg.Forecast.Horizon)
	if err != nil {
		if !errors.Is(err, models.ErrInsufficientHistory) {
			return nil, err
		}
		forecasts = nil
	}

	return &CompanyAssessment{
		AssessmentID: uuid.NewString(),
		CompanyID:    latest.CompanyID,
		Period:       latest.Period,
		GeneratedAt:  time.Now().UTC(),
		Ratios:       ratios,
		RatioScore:   e.ratios.OverallScore(cats),
		Fraud:        fraudReport,
		Risk:         riskReport,
		ZScore:       zscore,
		Forecasts:    forecasts,
		Trend:        e.forecaster.PredictProfitabilityTrend(sorted),
		Score:        score,
	}, nil
}
