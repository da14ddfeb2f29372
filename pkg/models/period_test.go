package models

import "testing"

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		label   string
		year    int
		quarter int
		ok      bool
	}{
		{"1402", 1402, 0, true},
		{"1402-Q1", 1402, 1, true},
		{"1402-Q4", 1402, 4, true},
		{"1402-Q5", 0, 0, false},
		{"1402-Qx", 0, 0, false},
		{"abcd", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		y, q, ok := ParsePeriod(c.label)
		if y != c.year || q != c.quarter || ok != c.ok {
			t.Errorf("ParsePeriod(%q): expected (%d, %d, %v), got (%d, %d, %v)",
				c.label, c.year, c.quarter, c.ok, y, q, ok)
		}
	}
}

func TestNextPeriod(t *testing.T) {
	cases := []struct {
		label string
		next  string
	}{
		{"1400", "1401"},
		{"1400-Q1", "1400-Q2"},
		{"1400-Q3", "1400-Q4"},
		{"1400-Q4", "1401-Q1"},
		{"garbage", "garbage"},
	}
	for _, c := range cases {
		if got := NextPeriod(c.label); got != c.next {
			t.Errorf("NextPeriod(%q): expected %q, got %q", c.label, c.next, got)
		}
	}
}

func TestSortByPeriod(t *testing.T) {
	a := &FinancialStatement{Period: "1400-Q3"}
	b := &FinancialStatement{Period: "1400-Q1"}
	c := &FinancialStatement{Period: "1401-Q1"}

	input := []*FinancialStatement{a, b, c}
	sorted := SortByPeriod(input)

	want := []string{"1400-Q1", "1400-Q3", "1401-Q1"}
	for i, s := range sorted {
		if s.Period != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], s.Period)
		}
	}
	// Caller's slice keeps its order.
	if input[0] != a {
		t.Error("Expected input slice to be untouched")
	}
}
