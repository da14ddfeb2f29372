package fraud

import (
	"encoding/json"
	"reflect"
	"testing"

	"finrisk/pkg/models"
)

func TestIndicatorDetailsRoundTrip(t *testing.T) {
	in := Indicator{
		Type:        IndicatorQualityOfEarnings,
		Severity:    models.SeverityCritical,
		Score:       90,
		Description: "operating cash flow covers less than half of net income",
		Details:     &QualityOfEarningsDetails{OperatingCF: 200000, NetIncome: 450000, Ratio: 0.4444},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Indicator
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("Round trip changed the indicator:\n in: %+v\nout: %+v", in, out)
	}
	if _, ok := out.Details.(*QualityOfEarningsDetails); !ok {
		t.Errorf("Expected *QualityOfEarningsDetails, got %T", out.Details)
	}
}

func TestIndicatorDetailsAbsent(t *testing.T) {
	var out Indicator
	if err := json.Unmarshal([]byte(`{"type":"accrual_ratio","severity":"Low","score":0}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Details != nil {
		t.Errorf("Expected nil details, got %+v", out.Details)
	}
}

func TestIndicatorDetailsUnknownType(t *testing.T) {
	var out Indicator
	if err := json.Unmarshal([]byte(`{"type":"made_up","details":{"x":1}}`), &out); err == nil {
		t.Error("Expected an error for an unknown indicator type")
	}
}
