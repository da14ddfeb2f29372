package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePeriod splits a period label into year and quarter. Quarter is 0 for
// annual labels ("1402"); ok is false for labels matching neither the annual
// nor the quarterly ("1402-Q1") form.
func ParsePeriod(label string) (year, quarter int, ok bool) {
	if before, after, found := strings.Cut(label, "-Q"); found {
		y, err := strconv.Atoi(before)
		if err != nil {
			return 0, 0, false
		}
		q, err := strconv.Atoi(after)
		if err != nil || q < 1 || q > 4 {
			return 0, 0, false
		}
		return y, q, true
	}
	y, err := strconv.Atoi(label)
	if err != nil {
		return 0, 0, false
	}
	return y, 0, true
}

// NextPeriod returns the label of the period immediately after label.
// Quarterly labels advance Q1→Q2→Q3→Q4 and wrap into the next year; annual
// labels increment the year. Unrecognized labels come back unchanged.
func NextPeriod(label string) string {
	year, quarter, ok := ParsePeriod(label)
	if !ok {
		return label
	}
	switch {
	case quarter == 0:
		return strconv.Itoa(year + 1)
	case quarter == 4:
		return fmt.Sprintf("%d-Q1", year+1)
	default:
		return fmt.Sprintf("%d-Q%d", year, quarter+1)
	}
}

// SortByPeriod returns a copy of stmts ordered ascending by period label.
// Labels are sortable as plain strings by construction, so string order is
// chronological order. The input slice is left untouched.
func SortByPeriod(stmts []*FinancialStatement) []*FinancialStatement {
	sorted := make([]*FinancialStatement, len(stmts))
	copy(sorted, stmts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period < sorted[j].Period
	})
	return sorted
}
