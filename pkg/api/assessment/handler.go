// Package assessment exposes the scoring pipeline over HTTP. Statement
// payloads arrive as JSON (single object or array) and go through the
// tolerant ingest parser, so slightly malformed input still scores.
package assessment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"finrisk/pkg/core/analysis"
	"finrisk/pkg/core/forecast"
	"finrisk/pkg/core/fraud"
	"finrisk/pkg/core/ingest"
	"finrisk/pkg/core/llm"
	"finrisk/pkg/core/ratio"
	"finrisk/pkg/core/report"
	"finrisk/pkg/core/risk"
	"finrisk/pkg/core/scoring"
	"finrisk/pkg/core/store"
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/logger"
	"finrisk/pkg/metrics"
	"finrisk/pkg/models"
)

var cfg *thresholds.Config
var parser *ingest.Parser
var ratioEngine *ratio.Engine
var detector *fraud.Detector
var assessor *risk.Assessor
var forecaster *forecast.Forecaster
var aggregator *scoring.Aggregator
var engine *analysis.Engine
var builder *report.Builder
var stmtRepo *store.StatementRepo
var assessRepo *store.AssessmentRepo
var log *logger.Logger
var persist bool

// InitHandler wires the handler package. The provider may be nil (reports
// render without a narrative) and persistToDB controls whether /api/assess
// also writes statements and assessments to Postgres.
func InitHandler(c *thresholds.Config, provider llm.Provider, l *logger.Logger, persistToDB bool) {
	if c == nil {
		c = thresholds.Default()
	}
	if l == nil {
		l = logger.Nop()
	}
	cfg = c
	log = l
	parser = ingest.NewParser(l)
	ratioEngine = ratio.NewEngine(c)
	detector = fraud.NewDetector(c)
	assessor = risk.NewAssessor(c)
	forecaster = forecast.NewForecaster(c)
	aggregator = scoring.NewAggregator(c)
	engine = analysis.NewEngine(c)
	builder = report.NewBuilder(provider, l)
	stmtRepo = store.NewStatementRepo()
	assessRepo = store.NewAssessmentRepo()
	persist = persistToDB
}

// cors writes the CORS headers and answers preflight requests. It returns
// true when the request was fully handled.
func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// readHistory parses the request body into one or more statements.
func readHistory(r *http.Request) ([]*models.FinancialStatement, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return parser.ParseStatements(body)
}

// latest returns the newest statement and the rest of the history.
func latest(stmts []*models.FinancialStatement) (*models.FinancialStatement, []*models.FinancialStatement) {
	sorted := models.SortByPeriod(stmts)
	return sorted[len(sorted)-1], sorted[:len(sorted)-1]
}

// writeError maps the domain sentinels onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrMissingRequiredField):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientHistory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// RatioResponse bundles the ratio suite with its aggregate scores.
type RatioResponse struct {
	Ratios         []ratio.Ratio        `json:"ratios"`
	CategoryScores ratio.CategoryScores `json:"category_scores"`
	OverallScore   float64              `json:"overall_score"`
}

func HandleRatios(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stmt, _ := latest(stmts)
	rs, err := ratioEngine.ComputeRatios(stmt)
	if err != nil {
		writeError(w, err)
		return
	}
	cs := ratioEngine.CategoryScores(rs)
	writeJSON(w, RatioResponse{Ratios: rs, CategoryScores: cs, OverallScore: ratioEngine.OverallScore(cs)})
}

func HandleFraud(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stmt, previous := latest(stmts)
	rep, err := detector.Analyze(stmt, previous)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func HandleRisks(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stmt, _ := latest(stmts)
	rep, err := assessor.AssessRisks(stmt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func HandleZScore(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stmt, _ := latest(stmts)
	res, err := forecaster.CalculateZScore(stmt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

// ForecastResponse pairs the revenue projection with the margin trend.
type ForecastResponse struct {
	Forecasts []forecast.RevenueForecast `json:"forecasts"`
	Trend     forecast.Trend             `json:"trend"`
}

func HandleForecast(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	periods := cfg.Forecast.Horizon
	if v := r.URL.Query().Get("periods"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			periods = n
		}
	}
	fc, err := forecaster.ForecastRevenue(stmts, periods)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ForecastResponse{Forecasts: fc, Trend: forecaster.PredictProfitabilityTrend(stmts)})
}

func HandleScore(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stmt, previous := latest(stmts)
	ws, err := aggregator.CalculateWeightedScore(stmt, previous)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ws)
}

func HandleAssess(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	stmts, err := readHistory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ca, err := engine.Assess(stmts)
	if err != nil {
		metrics.RecordAssessment("error")
		writeError(w, err)
		return
	}
	metrics.RecordAssessment("ok")

	// Persistence failures degrade to a warning; the caller still gets the
	// assessment it asked for.
	if persist {
		ctx := r.Context()
		if err := stmtRepo.SaveStatements(ctx, stmts); err != nil {
			log.Warn("failed to persist statements", logger.String("company", ca.CompanyID), logger.Error(err))
		}
		if err := assessRepo.SaveAssessment(ctx, ca); err != nil {
			log.Warn("failed to persist assessment", logger.String("company", ca.CompanyID), logger.Error(err))
		}
	}

	writeJSON(w, ca)
}

// HandleGetAssessment serves a stored assessment, by run id when ?id= is
// given and otherwise the company's latest via ?company=.
func HandleGetAssessment(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if id := r.URL.Query().Get("id"); id != "" {
		ca, err := assessRepo.GetAssessment(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ca)
		return
	}
	company := r.URL.Query().Get("company")
	if company == "" {
		http.Error(w, "company or id query parameter is required", http.StatusBadRequest)
		return
	}
	ca, err := assessRepo.LatestByCompany(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ca)
}

func HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	company := r.URL.Query().Get("company")
	if company == "" {
		http.Error(w, "company query parameter is required", http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "md" && format != "html" {
		http.Error(w, "unsupported format: use markdown or html", http.StatusBadRequest)
		return
	}

	ca, err := assessRepo.LatestByCompany(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}

	if format == "html" {
		html, err := builder.HTML(ca)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html)
		return
	}

	var md string
	if r.URL.Query().Get("narrative") == "true" {
		// The builder hands back the plain report when the narrative
		// fails, so the response degrades instead of erroring.
		md, _ = builder.MarkdownWithNarrative(r.Context(), ca)
	} else {
		md = builder.Markdown(ca)
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, md)
}
