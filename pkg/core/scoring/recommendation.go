package scoring

import (
	"strings"

	"finrisk/pkg/core/ratio"
)

// recommendation builds the advisory text: one overall tier line, then a
// warning per category scoring under 50, then strength notes when
// profitability or liquidity clear 80.
func (a *Aggregator) recommendation(final float64, cats ratio.CategoryScores, fraudRiskIndex float64) string {
	var parts []string

	switch {
	case final >= 80:
		parts = append(parts, "Strong financial position with a healthy credit profile.")
	case final >= 60:
		parts = append(parts, "Adequate financial position; monitor the weaker categories.")
	case final >= 40:
		parts = append(parts, "Strained financial position; corrective action is advisable.")
	default:
		parts = append(parts, "Weak financial position with elevated credit risk.")
	}

	if cats.Liquidity < 50 {
		parts = append(parts, "Liquidity is thin; build cash reserves or reduce short-term obligations.")
	}
	if cats.Leverage < 50 {
		parts = append(parts, "Leverage is high; pay down debt or strengthen the equity base.")
	}
	if cats.Profitability < 50 {
		parts = append(parts, "Profitability is weak; review pricing and cost structure.")
	}
	if cats.Efficiency < 50 {
		parts = append(parts, "Asset efficiency is low; improve turnover of inventory and receivables.")
	}
	if fraudRiskIndex < 50 {
		parts = append(parts, "Fraud indicators are elevated; audit the flagged areas before relying on reported figures.")
	}

	if cats.Profitability >= 80 {
		parts = append(parts, "Profitability is a clear strength.")
	}
	if cats.Liquidity >= 80 {
		parts = append(parts, "Liquidity position is solid.")
	}

	return strings.Join(parts, " ")
}
