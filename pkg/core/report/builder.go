// Package report renders a CompanyAssessment as Markdown or HTML. The
// figures come straight from the assessment; an optional LLM provider can
// prepend an executive summary, and the report stays usable when it fails.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"finrisk/pkg/core/analysis"
	"finrisk/pkg/core/llm"
	"finrisk/pkg/logger"
)

// Builder renders assessment reports. The provider may be nil, in which
// case MarkdownWithNarrative behaves exactly like Markdown.
type Builder struct {
	provider llm.Provider
	log      *logger.Logger
	md       goldmark.Markdown
}

func NewBuilder(provider llm.Provider, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		provider: provider,
		log:      log,
		// The report uses pipe tables, which need the GFM table extension.
		md: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

const narrativeSystemPrompt = "You are a credit analyst. Write concise, factual prose grounded only in the figures provided. Do not invent numbers."

// Markdown renders the full deterministic report.
func (b *Builder) Markdown(ca *analysis.CompanyAssessment) string {
	var sb strings.Builder
	b.writeHeader(&sb, ca)
	b.writeBody(&sb, ca)
	return sb.String()
}

// HTML renders the Markdown report through Goldmark.
func (b *Builder) HTML(ca *analysis.CompanyAssessment) (string, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(b.Markdown(ca)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report HTML: %w", err)
	}
	return buf.String(), nil
}

// MarkdownWithNarrative renders the report with an LLM-written executive
// summary after the header. On provider failure it returns the plain
// report together with the error, so callers can degrade instead of
// dropping the assessment.
func (b *Builder) MarkdownWithNarrative(ctx context.Context, ca *analysis.CompanyAssessment) (string, error) {
	if b.provider == nil {
		return b.Markdown(ca), nil
	}

	var body strings.Builder
	b.writeBody(&body, ca)

	prompt := fmt.Sprintf(
		"Write an executive summary (3-5 sentences) for the following assessment report. "+
			"Focus on the credit rating, the dominant risks, and any fraud signals.\n\n%s",
		body.String(),
	)
	narrative, err := b.provider.GenerateResponse(ctx, prompt, narrativeSystemPrompt, nil)
	if err != nil {
		b.log.Warn("narrative generation failed, returning plain report",
			logger.String("company", ca.CompanyID), logger.Error(err))
		return b.Markdown(ca), err
	}
	narrative = cleanNarrative(narrative)

	var sb strings.Builder
	b.writeHeader(&sb, ca)
	if narrative != "" {
		sb.WriteString("## Executive Summary\n\n")
		sb.WriteString(narrative)
		sb.WriteString("\n\n")
	}
	sb.WriteString(body.String())
	return sb.String(), nil
}

func (b *Builder) writeHeader(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	sb.WriteString(fmt.Sprintf("# Financial Risk Assessment: %s\n\n", ca.CompanyID))
	sb.WriteString(fmt.Sprintf("**Period:** %s  \n", ca.Period))
	sb.WriteString(fmt.Sprintf("**Generated:** %s  \n", ca.GeneratedAt.Format("2006-01-02 15:04 UTC")))
	sb.WriteString(fmt.Sprintf("**Assessment ID:** %s\n\n", ca.AssessmentID))
}

func (b *Builder) writeBody(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	b.writeScore(sb, ca)
	b.writeRatios(sb, ca)
	b.writeFraud(sb, ca)
	b.writeRisk(sb, ca)
	b.writeForecast(sb, ca)
}

func (b *Builder) writeScore(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	if ca.Score == nil {
		return
	}
	s := ca.Score
	sb.WriteString("## Credit Score\n\n")
	sb.WriteString(fmt.Sprintf("**Final Score:** %.2f / 100 (**%s**)\n\n", s.FinalScore, s.Rating))
	sb.WriteString(s.Recommendation)
	sb.WriteString("\n\n")

	sb.WriteString("| Component | Score |\n|---|---:|\n")
	sb.WriteString(fmt.Sprintf("| Liquidity | %.1f |\n", s.Categories.Liquidity))
	sb.WriteString(fmt.Sprintf("| Leverage | %.1f |\n", s.Categories.Leverage))
	sb.WriteString(fmt.Sprintf("| Profitability | %.1f |\n", s.Categories.Profitability))
	sb.WriteString(fmt.Sprintf("| Efficiency | %.1f |\n", s.Categories.Efficiency))
	sb.WriteString(fmt.Sprintf("| Fraud Risk Index | %.1f |\n\n", s.FraudRiskIndex))
}

func (b *Builder) writeRatios(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	if len(ca.Ratios) == 0 {
		return
	}
	sb.WriteString("## Financial Ratios\n\n")
	sb.WriteString("| Ratio | Category | Value | Benchmark | Status |\n|---|---|---:|---:|---|\n")
	for _, r := range ca.Ratios {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %s |\n",
			r.Name, r.Category, r.Value, r.Ideal, r.Status))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeFraud(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	if ca.Fraud == nil {
		return
	}
	sb.WriteString("## Fraud Indicators\n\n")
	sb.WriteString(fmt.Sprintf("**Overall fraud score:** %.1f (%s)\n\n", ca.Fraud.OverallScore, ca.Fraud.RiskLevel))
	if len(ca.Fraud.Indicators) == 0 {
		sb.WriteString("No fraud indicators were raised.\n\n")
		return
	}
	for _, ind := range ca.Fraud.Indicators {
		sb.WriteString(fmt.Sprintf("- **%s** (%s, %.0f): %s\n", ind.Type, ind.Severity, ind.Score, ind.Description))
		if ind.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("  - %s\n", ind.Recommendation))
		}
	}
	sb.WriteString("\n")
}

func (b *Builder) writeRisk(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	if ca.Risk == nil {
		return
	}
	sb.WriteString("## Risk Assessment\n\n")
	sb.WriteString(fmt.Sprintf("**Overall risk:** %.1f (%s)\n\n", ca.Risk.OverallScore, ca.Risk.RiskLevel))
	if ca.Risk.Summary != "" {
		sb.WriteString(ca.Risk.Summary)
		sb.WriteString("\n\n")
	}
	for _, as := range ca.Risk.Assessments {
		sb.WriteString(fmt.Sprintf("- **%s** (%s, %.0f): %s", as.Type, as.Level, as.Score, as.Explanation))
		if as.Recommendation != "" {
			sb.WriteString(" ")
			sb.WriteString(as.Recommendation)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (b *Builder) writeForecast(sb *strings.Builder, ca *analysis.CompanyAssessment) {
	if ca.ZScore != nil {
		sb.WriteString("## Bankruptcy Risk (Altman Z-Score)\n\n")
		sb.WriteString(fmt.Sprintf("**Z-Score:** %.2f, %s zone (%s bankruptcy risk)\n\n",
			ca.ZScore.ZScore, ca.ZScore.Zone, ca.ZScore.BankruptcyRisk))
	}

	sb.WriteString("## Revenue Forecast\n\n")
	if len(ca.Forecasts) == 0 {
		sb.WriteString("Not enough revenue history for a forecast.\n\n")
	} else {
		sb.WriteString("| Period | Predicted | Low | High |\n|---|---:|---:|---:|\n")
		for _, f := range ca.Forecasts {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f |\n",
				f.Period, f.PredictedRevenue, f.ConfidenceLow, f.ConfidenceHigh))
		}
		sb.WriteString(fmt.Sprintf("\nMean historical growth: %.1f%% per period (%s).\n\n",
			ca.Forecasts[0].GrowthRate*100, ca.Forecasts[0].Methodology))
	}

	sb.WriteString(fmt.Sprintf("**Profitability trend:** %s\n", ca.Trend))
}

// cleanNarrative strips conversational filler and outer code fences so the
// narrative drops cleanly into the report.
func cleanNarrative(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}
