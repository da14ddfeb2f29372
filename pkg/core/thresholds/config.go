package thresholds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"finrisk/pkg/models"
)

// Config gathers every tunable of the scoring pipeline in one injectable
// place: ratio thresholds, fraud cutoffs, risk bands and weights, Z-Score
// coefficients, forecast parameters, and the final rating scale. Engines
// take a *Config at construction, so alternate thresholds are a plain
// struct literal away in tests.
type Config struct {
	Ratios   RatioConfig    `yaml:"ratios"`
	Fraud    FraudConfig    `yaml:"fraud"`
	Risk     RiskConfig     `yaml:"risk"`
	ZScore   ZScoreConfig   `yaml:"zscore"`
	Forecast ForecastConfig `yaml:"forecast"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// ===== SHARED BUILDING BLOCKS =====

// Band is one rung of a severity ladder: when an analyzer's metric crosses
// Cutoff, the check reports Score and Severity. Ladders list their strictest
// rung first and are evaluated in order; the comparison direction is fixed
// per analyzer.
type Band struct {
	Cutoff   float64         `yaml:"cutoff"`
	Score    float64         `yaml:"score"`
	Severity models.Severity `yaml:"severity"`
}

// RatioBand holds the Good and Warning boundaries for a single ratio.
// Whether "good" means above or below the boundary is fixed per ratio.
type RatioBand struct {
	Good    float64 `yaml:"good"`
	Warning float64 `yaml:"warning"`
}

// LevelCutoffs map an aggregate 0-100 score onto a severity level. A score
// at or above a cutoff takes that level; below all three it is Low.
type LevelCutoffs struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
}

// Level resolves score against the cutoffs.
func (l LevelCutoffs) Level(score float64) models.Severity {
	switch {
	case score >= l.Critical:
		return models.SeverityCritical
	case score >= l.High:
		return models.SeverityHigh
	case score >= l.Medium:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// ===== RATIO ENGINE =====

// StatusPoints map a ratio status to the points it contributes to its
// category score.
type StatusPoints struct {
	Good     float64 `yaml:"good"`
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// CategoryWeights weight the four ratio categories in the overall ratio
// score.
type CategoryWeights struct {
	Liquidity     float64 `yaml:"liquidity"`
	Leverage      float64 `yaml:"leverage"`
	Profitability float64 `yaml:"profitability"`
	Efficiency    float64 `yaml:"efficiency"`
}

type RatioConfig struct {
	CurrentRatio        RatioBand `yaml:"current_ratio"`
	QuickRatio          RatioBand `yaml:"quick_ratio"`
	CashRatio           RatioBand `yaml:"cash_ratio"`
	DebtToEquity        RatioBand `yaml:"debt_to_equity"`
	DebtRatio           RatioBand `yaml:"debt_ratio"`
	TimesInterestEarned RatioBand `yaml:"times_interest_earned"`
	NetProfitMargin     RatioBand `yaml:"net_profit_margin"`
	ReturnOnAssets      RatioBand `yaml:"return_on_assets"`
	ReturnOnEquity      RatioBand `yaml:"return_on_equity"`
	GrossProfitMargin   RatioBand `yaml:"gross_profit_margin"`
	AssetTurnover       RatioBand `yaml:"asset_turnover"`
	InventoryTurnover   RatioBand `yaml:"inventory_turnover"`
	ReceivablesTurnover RatioBand `yaml:"receivables_turnover"`

	Points          StatusPoints    `yaml:"points"`
	CategoryWeights CategoryWeights `yaml:"category_weights"`
}

// ===== FRAUD DETECTOR =====

type BenfordConfig struct {
	// Expected holds the first-digit frequencies for digits 1 through 9.
	Expected []float64 `yaml:"expected"`
	// MinSamples is the smallest usable sample set; below it the check
	// abstains.
	MinSamples int `yaml:"min_samples"`
	// ChiSquareCritical is the rejection threshold at 8 degrees of freedom.
	ChiSquareCritical float64 `yaml:"chi_square_critical"`
	// Bands hold multiples of the critical value, strictest first.
	Bands []Band `yaml:"bands"`
}

type FraudConfig struct {
	Benford BenfordConfig `yaml:"benford"`
	// QualityOfEarnings rungs match when CFO/NI falls below the cutoff.
	QualityOfEarnings []Band `yaml:"quality_of_earnings"`
	// ReceivableGrowth rungs match when the AR-to-sales growth ratio rises
	// above the cutoff.
	ReceivableGrowth []Band `yaml:"receivable_growth"`
	// AssetInflation rungs match when fixed-asset growth outruns revenue
	// growth by more than the cutoff.
	AssetInflation []Band `yaml:"asset_inflation"`
	// AccrualRatio rungs match when |NI-CFO|/assets rises above the cutoff.
	AccrualRatio []Band       `yaml:"accrual_ratio"`
	Levels       LevelCutoffs `yaml:"levels"`
}

// ===== RISK ASSESSOR =====

// RiskAssessorConfig is one category's ladder plus the score it reports when
// no rung matches.
type RiskAssessorConfig struct {
	Bands     []Band  `yaml:"bands"`
	BaseScore float64 `yaml:"base_score"`
}

// RiskWeights weight the categories in the overall risk score. The weighted
// mean renormalizes over the categories actually produced.
type RiskWeights struct {
	Financial   float64 `yaml:"financial"`
	Liquidity   float64 `yaml:"liquidity"`
	Operational float64 `yaml:"operational"`
	Market      float64 `yaml:"market"`
}

type RiskConfig struct {
	Financial   RiskAssessorConfig `yaml:"financial"`
	Liquidity   RiskAssessorConfig `yaml:"liquidity"`
	Operational RiskAssessorConfig `yaml:"operational"`
	Market      RiskAssessorConfig `yaml:"market"`
	// LossPenalty is added to the market score when the statement shows a
	// net loss.
	LossPenalty float64      `yaml:"loss_penalty"`
	Weights     RiskWeights  `yaml:"weights"`
	Levels      LevelCutoffs `yaml:"levels"`
}

// ===== FORECASTER =====

type ZScoreConfig struct {
	WorkingCapitalWeight   float64 `yaml:"working_capital_weight"`
	RetainedEarningsWeight float64 `yaml:"retained_earnings_weight"`
	EBITWeight             float64 `yaml:"ebit_weight"`
	EquityWeight           float64 `yaml:"equity_weight"`
	SalesWeight            float64 `yaml:"sales_weight"`
	// SafeAbove and GreyAbove split the index into Safe, Grey, and Distress
	// zones.
	SafeAbove float64 `yaml:"safe_above"`
	GreyAbove float64 `yaml:"grey_above"`
}

type ForecastConfig struct {
	// MinHistory is the smallest usable revenue series.
	MinHistory int `yaml:"min_history"`
	// IntervalWidth scales the growth-rate standard deviation into the
	// confidence interval.
	IntervalWidth float64 `yaml:"interval_width"`
	// Horizon is the default number of periods the full assessment projects.
	Horizon int `yaml:"horizon"`
	// TrendMinPeriods is the smallest series the trend vote accepts.
	TrendMinPeriods int `yaml:"trend_min_periods"`
	// TrendThreshold is the relative margin change that counts as movement.
	TrendThreshold float64 `yaml:"trend_threshold"`
}

// ===== SCORING AGGREGATOR =====

// ScoringWeights weight the composite final score.
type ScoringWeights struct {
	Liquidity     float64 `yaml:"liquidity"`
	Leverage      float64 `yaml:"leverage"`
	Profitability float64 `yaml:"profitability"`
	Efficiency    float64 `yaml:"efficiency"`
	FraudRisk     float64 `yaml:"fraud_risk"`
}

// RatingBand maps a minimum final score to a letter rating.
type RatingBand struct {
	Min    float64 `yaml:"min"`
	Rating string  `yaml:"rating"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
	// Ratings are checked top band first; a score at or above Min takes the
	// band's letter.
	Ratings []RatingBand `yaml:"ratings"`
}

// Rating resolves score against the rating scale.
func (c ScoringConfig) Rating(score float64) string {
	for _, b := range c.Ratings {
		if score >= b.Min {
			return b.Rating
		}
	}
	return "D"
}

// ===== DEFAULTS & LOADING =====

// Default returns the standard thresholds.
func Default() *Config {
	return &Config{
		Ratios: RatioConfig{
			CurrentRatio:        RatioBand{Good: 1.5, Warning: 1.0},
			QuickRatio:          RatioBand{Good: 1.0, Warning: 0.5},
			CashRatio:           RatioBand{Good: 0.2, Warning: 0.1},
			DebtToEquity:        RatioBand{Good: 2.0, Warning: 3.0},
			DebtRatio:           RatioBand{Good: 0.5, Warning: 0.7},
			TimesInterestEarned: RatioBand{Good: 2.0, Warning: 1.0},
			NetProfitMargin:     RatioBand{Good: 0.10, Warning: 0.05},
			ReturnOnAssets:      RatioBand{Good: 0.05, Warning: 0.02},
			ReturnOnEquity:      RatioBand{Good: 0.15, Warning: 0.08},
			GrossProfitMargin:   RatioBand{Good: 0.30, Warning: 0.20},
			AssetTurnover:       RatioBand{Good: 1.0, Warning: 0.5},
			InventoryTurnover:   RatioBand{Good: 5.0, Warning: 3.0},
			ReceivablesTurnover: RatioBand{Good: 8.0, Warning: 5.0},
			Points:              StatusPoints{Good: 100, Warning: 60, Critical: 20},
			CategoryWeights: CategoryWeights{
				Liquidity:     0.2,
				Leverage:      0.2,
				Profitability: 0.4,
				Efficiency:    0.2,
			},
		},
		Fraud: FraudConfig{
			Benford: BenfordConfig{
				Expected:          []float64{0.301, 0.176, 0.125, 0.097, 0.079, 0.067, 0.058, 0.051, 0.046},
				MinSamples:        5,
				ChiSquareCritical: 15.51,
				Bands: []Band{
					{Cutoff: 2.0, Score: 80, Severity: models.SeverityCritical},
					{Cutoff: 1.5, Score: 60, Severity: models.SeverityHigh},
					{Cutoff: 1.0, Score: 40, Severity: models.SeverityMedium},
				},
			},
			QualityOfEarnings: []Band{
				{Cutoff: 0.5, Score: 90, Severity: models.SeverityCritical},
				{Cutoff: 0.8, Score: 60, Severity: models.SeverityHigh},
				{Cutoff: 1.0, Score: 30, Severity: models.SeverityMedium},
			},
			ReceivableGrowth: []Band{
				{Cutoff: 2.0, Score: 85, Severity: models.SeverityCritical},
				{Cutoff: 1.5, Score: 65, Severity: models.SeverityHigh},
				{Cutoff: 1.2, Score: 40, Severity: models.SeverityMedium},
			},
			AssetInflation: []Band{
				{Cutoff: 0.30, Score: 75, Severity: models.SeverityCritical},
				{Cutoff: 0.20, Score: 55, Severity: models.SeverityHigh},
				{Cutoff: 0.15, Score: 35, Severity: models.SeverityMedium},
			},
			AccrualRatio: []Band{
				{Cutoff: 0.15, Score: 80, Severity: models.SeverityCritical},
				{Cutoff: 0.12, Score: 60, Severity: models.SeverityHigh},
				{Cutoff: 0.10, Score: 35, Severity: models.SeverityMedium},
			},
			Levels: LevelCutoffs{Critical: 70, High: 50, Medium: 30},
		},
		Risk: RiskConfig{
			Financial: RiskAssessorConfig{
				Bands: []Band{
					{Cutoff: 5.0, Score: 95, Severity: models.SeverityCritical},
					{Cutoff: 3.0, Score: 75, Severity: models.SeverityHigh},
					{Cutoff: 2.0, Score: 45, Severity: models.SeverityMedium},
				},
				BaseScore: 15,
			},
			Liquidity: RiskAssessorConfig{
				Bands: []Band{
					{Cutoff: 0.8, Score: 90, Severity: models.SeverityCritical},
					{Cutoff: 1.0, Score: 70, Severity: models.SeverityHigh},
					{Cutoff: 1.5, Score: 40, Severity: models.SeverityMedium},
				},
				BaseScore: 15,
			},
			Operational: RiskAssessorConfig{
				Bands: []Band{
					{Cutoff: 0.90, Score: 85, Severity: models.SeverityCritical},
					{Cutoff: 0.75, Score: 65, Severity: models.SeverityHigh},
					{Cutoff: 0.60, Score: 40, Severity: models.SeverityMedium},
				},
				BaseScore: 15,
			},
			Market: RiskAssessorConfig{
				Bands: []Band{
					{Cutoff: 0.3, Score: 70, Severity: models.SeverityHigh},
					{Cutoff: 0.5, Score: 45, Severity: models.SeverityMedium},
				},
				BaseScore: 20,
			},
			LossPenalty: 20,
			Weights: RiskWeights{
				Financial:   0.30,
				Liquidity:   0.30,
				Operational: 0.25,
				Market:      0.15,
			},
			Levels: LevelCutoffs{Critical: 70, High: 50, Medium: 30},
		},
		ZScore: ZScoreConfig{
			WorkingCapitalWeight:   1.2,
			RetainedEarningsWeight: 1.4,
			EBITWeight:             3.3,
			EquityWeight:           0.6,
			SalesWeight:            1.0,
			SafeAbove:              2.99,
			GreyAbove:              1.81,
		},
		Forecast: ForecastConfig{
			MinHistory:      2,
			IntervalWidth:   2.0,
			Horizon:         4,
			TrendMinPeriods: 3,
			TrendThreshold:  0.05,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Liquidity:     0.20,
				Leverage:      0.20,
				Profitability: 0.30,
				Efficiency:    0.20,
				FraudRisk:     0.10,
			},
			Ratings: []RatingBand{
				{Min: 95, Rating: "AAA"},
				{Min: 90, Rating: "AA"},
				{Min: 80, Rating: "A"},
				{Min: 70, Rating: "BBB"},
				{Min: 60, Rating: "BB"},
				{Min: 50, Rating: "B"},
				{Min: 40, Rating: "CCC"},
				{Min: 30, Rating: "CC"},
				{Min: 20, Rating: "C"},
				{Min: 0, Rating: "D"},
			},
		},
	}
}

// Load reads a YAML thresholds file over the defaults, so a partial file
// only overrides the keys it names. An empty path or a missing file returns
// the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}
	return cfg, nil
}
