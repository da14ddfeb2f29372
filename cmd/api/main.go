package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"finrisk/pkg/api/assessment"
	"finrisk/pkg/core/llm"
	"finrisk/pkg/core/store"
	"finrisk/pkg/core/thresholds"
	"finrisk/pkg/logger"
	"finrisk/pkg/metrics"
)

func main() {
	// Load environment variables
	godotenv.Load()

	log, err := logger.New(&logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		fmt.Printf("[FATAL] Logger init failed: %v\n", err)
		os.Exit(1)
	}

	// Threshold overrides are optional; defaults cover every knob.
	cfgPath := os.Getenv("FINRISK_THRESHOLDS")
	if cfgPath == "" {
		cfgPath = "config/thresholds.yaml"
	}
	cfg, err := thresholds.Load(cfgPath)
	if err != nil {
		log.Fatal("failed to load thresholds", logger.Error(err))
	}

	// Postgres is optional: without DATABASE_URL the API still scores, it
	// just cannot persist or serve stored assessments.
	persist := false
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			log.Warn("database init failed, running without persistence", logger.Error(err))
		} else {
			persist = true
			defer store.Close()
		}
	} else {
		log.Info("DATABASE_URL not set, persistence disabled")
	}

	var provider llm.Provider
	if os.Getenv("GEMINI_API_KEY") != "" {
		provider = &llm.GeminiProvider{Model: os.Getenv("GEMINI_MODEL")}
	} else {
		log.Info("GEMINI_API_KEY not set, report narratives disabled")
	}

	assessment.InitHandler(cfg, provider, log, persist)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ratios", assessment.HandleRatios)
	mux.HandleFunc("/api/fraud", assessment.HandleFraud)
	mux.HandleFunc("/api/risks", assessment.HandleRisks)
	mux.HandleFunc("/api/zscore", assessment.HandleZScore)
	mux.HandleFunc("/api/forecast", assessment.HandleForecast)
	mux.HandleFunc("/api/score", assessment.HandleScore)
	mux.HandleFunc("/api/assess", assessment.HandleAssess)
	mux.HandleFunc("/api/assessment", assessment.HandleGetAssessment)
	mux.HandleFunc("/api/report", assessment.HandleReport)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/ratios")
	fmt.Println("  - POST /api/fraud")
	fmt.Println("  - POST /api/risks")
	fmt.Println("  - POST /api/zscore")
	fmt.Println("  - POST /api/forecast")
	fmt.Println("  - POST /api/score")
	fmt.Println("  - POST /api/assess")
	fmt.Println("  - GET  /api/assessment?company=")
	fmt.Println("  - GET  /api/report?company=&format=")
	fmt.Println("  - GET  /metrics")

	log.Info("api server listening", logger.String("addr", addr), logger.Bool("persistence", persist))
	if err := http.ListenAndServe(addr, metrics.Middleware(log)(mux)); err != nil {
		log.Fatal("server failed to start", logger.Error(err))
	}
}
