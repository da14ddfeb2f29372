package fraud

import (
	"encoding/json"
	"fmt"
)

// IndicatorDetails is the typed metrics payload behind an indicator. Each
// heuristic has exactly one concrete details type, so consumers switch on
// the concrete type instead of digging through an untyped bag.
type IndicatorDetails interface {
	indicatorDetails()
}

// BenfordDetails carries the chi-square test internals.
type BenfordDetails struct {
	SampleSize int     `json:"sample_size"`
	ChiSquare  float64 `json:"chi_square"`
	Critical   float64 `json:"critical"`
	// Observed and Expected are frequency shares per leading digit 1-9.
	Observed [9]float64 `json:"observed"`
	Expected [9]float64 `json:"expected"`
}

func (*BenfordDetails) indicatorDetails() {}

// QualityOfEarningsDetails carries the cash-backing ratio inputs.
type QualityOfEarningsDetails struct {
	OperatingCF float64 `json:"operating_cf"`
	NetIncome   float64 `json:"net_income"`
	Ratio       float64 `json:"ratio"`
}

func (*QualityOfEarningsDetails) indicatorDetails() {}

// ReceivableGrowthDetails carries the period-over-period growth comparison.
type ReceivableGrowthDetails struct {
	ReceivableGrowth float64 `json:"receivable_growth"`
	SalesGrowth      float64 `json:"sales_growth"`
	Ratio            float64 `json:"ratio"`
	Note             string  `json:"note,omitempty"`
}

func (*ReceivableGrowthDetails) indicatorDetails() {}

// AssetInflationDetails carries the fixed-asset versus revenue growth gap.
type AssetInflationDetails struct {
	FixedAssetGrowth float64 `json:"fixed_asset_growth"`
	RevenueGrowth    float64 `json:"revenue_growth"`
	Difference       float64 `json:"difference"`
}

func (*AssetInflationDetails) indicatorDetails() {}

// AccrualRatioDetails carries the accrual gap scaled by assets.
type AccrualRatioDetails struct {
	NetIncome    float64 `json:"net_income"`
	OperatingCF  float64 `json:"operating_cf"`
	TotalAssets  float64 `json:"total_assets"`
	AccrualRatio float64 `json:"accrual_ratio"`
}

func (*AccrualRatioDetails) indicatorDetails() {}

// UnmarshalJSON reverses the tagged union when reports come back from
// storage: the indicator type selects the concrete details struct the
// payload decodes into.
func (i *Indicator) UnmarshalJSON(data []byte) error {
	type alias Indicator
	aux := struct {
		*alias
		Details json.RawMessage `json:"details"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Details) == 0 || string(aux.Details) == "null" {
		return nil
	}

	var det IndicatorDetails
	switch i.Type {
	case IndicatorBenford:
		det = &BenfordDetails{}
	case IndicatorQualityOfEarnings:
		det = &QualityOfEarningsDetails{}
	case IndicatorReceivableGrowth:
		det = &ReceivableGrowthDetails{}
	case IndicatorAssetInflation:
		det = &AssetInflationDetails{}
	case IndicatorAccrualRatio:
		det = &AccrualRatioDetails{}
	default:
		return fmt.Errorf("unknown indicator type %q", i.Type)
	}
	if err := json.Unmarshal(aux.Details, det); err != nil {
		return err
	}
	i.Details = det
	return nil
}
