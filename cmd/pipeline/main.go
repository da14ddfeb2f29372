package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"finrisk/pkg/core/analysis"
	"finrisk/pkg/core/ingest"
	"finrisk/pkg/core/llm"
	"finrisk/pkg/core/report"
	"finrisk/pkg/core/store"
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/logger"
	"finrisk/pkg/metrics"
	"finrisk/pkg/models"
)

func main() {
	input := flag.String("input", "", "Path to a statement history JSON file (single object or array)")
	company := flag.String("company", "", "Score the statement history already stored for this company (needs DATABASE_URL)")
	cfgPath := flag.String("config", "config/thresholds.yaml", "Path to a thresholds override file")
	out := flag.String("out", "", "Write the Markdown report to this file")
	htmlOut := flag.String("html", "", "Write an HTML report to this file")
	persist := flag.Bool("persist", false, "Persist statements and the assessment to Postgres (needs DATABASE_URL)")
	narrative := flag.Bool("narrative", false, "Add an LLM executive summary to the report (needs GEMINI_API_KEY)")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	log, err := logger.New(&logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	if err != nil {
		fmt.Printf("Logger init failed: %v\n", err)
		os.Exit(1)
	}

	if (*input == "") == (*company == "") {
		fmt.Println("Error: exactly one of -input or -company is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := thresholds.Load(*cfgPath)
	if err != nil {
		log.Fatal("failed to load thresholds", logger.Error(err))
	}

	var stmts []*models.FinancialStatement
	if *input != "" {
		data, err := os.ReadFile(*input)
		if err != nil {
			log.Fatal("failed to read input", logger.Error(err))
		}
		stmts, err = ingest.NewParser(log).ParseStatements(data)
		if err != nil {
			log.Fatal("failed to parse statements", logger.Error(err))
		}
	} else {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatal("database init failed", logger.Error(err))
		}
		defer store.Close()
		stmts, err = store.NewStatementRepo().ListByCompany(ctx, *company)
		if err != nil {
			log.Fatal("failed to load stored statements", logger.Error(err))
		}
	}

	ca, err := analysis.NewEngine(cfg).Assess(stmts)
	if err != nil {
		metrics.RecordAssessment("error")
		log.Fatal("assessment failed", logger.Error(err))
	}
	metrics.RecordAssessment("ok")

	if *persist {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Warn("database init failed, skipping persistence", logger.Error(err))
		} else {
			defer store.Close()
			if err := store.NewStatementRepo().SaveStatements(ctx, stmts); err != nil {
				log.Warn("failed to persist statements", logger.Error(err))
			}
			if err := store.NewAssessmentRepo().SaveAssessment(ctx, ca); err != nil {
				log.Warn("failed to persist assessment", logger.Error(err))
			} else {
				log.Info("assessment persisted", logger.String("id", ca.AssessmentID))
			}
		}
	}

	printSummary(ca)

	var provider llm.Provider
	if *narrative {
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Warn("GEMINI_API_KEY not set, skipping the narrative")
		} else {
			provider = &llm.GeminiProvider{Model: os.Getenv("GEMINI_MODEL")}
		}
	}
	builder := report.NewBuilder(provider, log)

	if *out != "" {
		md := builder.Markdown(ca)
		if provider != nil {
			if md, err = builder.MarkdownWithNarrative(context.Background(), ca); err != nil {
				log.Warn("narrative failed, writing the plain report", logger.Error(err))
			}
		}
		if err := os.WriteFile(*out, []byte(md), 0o644); err != nil {
			log.Fatal("failed to write report", logger.Error(err))
		}
		fmt.Printf("\nMarkdown report written to %s\n", *out)
	}

	if *htmlOut != "" {
		html, err := builder.HTML(ca)
		if err != nil {
			log.Fatal("failed to render HTML report", logger.Error(err))
		}
		if err := os.WriteFile(*htmlOut, []byte(html), 0o644); err != nil {
			log.Fatal("failed to write HTML report", logger.Error(err))
		}
		fmt.Printf("HTML report written to %s\n", *htmlOut)
	}
}

func printSummary(ca *analysis.CompanyAssessment) {
	fmt.Println("\n################################################################################")
	fmt.Println("                 FINANCIAL RISK & FRAUD SCORING - ASSESSMENT")
	fmt.Printf("                 Target: %s (%s)\n", ca.CompanyID, ca.Period)
	fmt.Println("################################################################################")

	fmt.Println("\n[1] CREDIT SCORE")
	fmt.Printf("Final Score:        %8.2f / 100\n", ca.Score.FinalScore)
	fmt.Printf("Rating:             %8s\n", ca.Score.Rating)
	fmt.Printf("Liquidity:          %8.1f\n", ca.Score.Categories.Liquidity)
	fmt.Printf("Leverage:           %8.1f\n", ca.Score.Categories.Leverage)
	fmt.Printf("Profitability:      %8.1f\n", ca.Score.Categories.Profitability)
	fmt.Printf("Efficiency:         %8.1f\n", ca.Score.Categories.Efficiency)
	fmt.Printf("Fraud Risk Index:   %8.1f\n", ca.Score.FraudRiskIndex)

	fmt.Println("\n[2] FRAUD SCREENING")
	fmt.Printf("Overall Score:      %8.1f (%s)\n", ca.Fraud.OverallScore, ca.Fraud.RiskLevel)
	if len(ca.Fraud.Indicators) == 0 {
		fmt.Println("  No indicators raised.")
	}
	for _, ind := range ca.Fraud.Indicators {
		fmt.Printf("  - %-22s %5.0f (%s)\n", ind.Type, ind.Score, ind.Severity)
	}

	fmt.Println("\n[3] RISK CATEGORIES")
	fmt.Printf("Overall Risk:       %8.1f (%s)\n", ca.Risk.OverallScore, ca.Risk.RiskLevel)
	for _, as := range ca.Risk.Assessments {
		fmt.Printf("  - %-12s %5.0f (%s)\n", as.Type, as.Score, as.Level)
	}

	fmt.Println("\n[4] OUTLOOK")
	fmt.Printf("Altman Z-Score:     %8.2f (%s zone, %s risk)\n", ca.ZScore.ZScore, ca.ZScore.Zone, ca.ZScore.BankruptcyRisk)
	fmt.Printf("Margin Trend:       %8s\n", ca.Trend)
	if len(ca.Forecasts) == 0 {
		fmt.Println("Revenue Forecast:   insufficient history")
	} else {
		fmt.Println("Revenue Forecast:")
		for _, f := range ca.Forecasts {
			fmt.Printf("  %-8s $ %12.0f  [%12.0f, %12.0f]\n",
				f.Period, f.PredictedRevenue, f.ConfidenceLow, f.ConfidenceHigh)
		}
	}

	fmt.Println("\n[Done] Assessment complete.")
}
