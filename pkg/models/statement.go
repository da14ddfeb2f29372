package models

import "fmt"

// FinancialStatement is one reporting period for one company.
//
// Assets and Liabilities are the only mandatory fields. Every other field is
// optional, and a nil pointer means "not reported", never zero. Analyzers
// must not fold an absent field into a calculation as 0; they skip the check
// instead.
type FinancialStatement struct {
	CompanyID string `json:"company_id,omitempty"`
	// Period is a sortable label: "1402" for annual, "1402-Q1" for quarterly.
	Period string `json:"period,omitempty"`

	// Balance sheet
	Assets             *float64 `json:"assets" validate:"required"`
	Liabilities        *float64 `json:"liabilities" validate:"required"`
	Equity             *float64 `json:"equity,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	FixedAssets        *float64 `json:"fixed_assets,omitempty"`
	Inventory          *float64 `json:"inventory,omitempty"`
	Cash               *float64 `json:"cash,omitempty"`
	AccountsReceivable *float64 `json:"accounts_receivable,omitempty"`
	RetainedEarnings   *float64 `json:"retained_earnings,omitempty"`

	// Income statement
	Revenue           *float64 `json:"revenue,omitempty"`
	COGS              *float64 `json:"cogs,omitempty"`
	GrossProfit       *float64 `json:"gross_profit,omitempty"`
	OperatingExpenses *float64 `json:"operating_expenses,omitempty"`
	EBIT              *float64 `json:"ebit,omitempty"`
	EBITDA            *float64 `json:"ebitda,omitempty"`
	InterestExpense   *float64 `json:"interest_expense,omitempty"`
	TaxExpense        *float64 `json:"tax_expense,omitempty"`
	NetIncome         *float64 `json:"net_income,omitempty"`

	// Cash flow
	OperatingCF *float64 `json:"operating_cf,omitempty"`
	InvestingCF *float64 `json:"investing_cf,omitempty"`
	FinancingCF *float64 `json:"financing_cf,omitempty"`
}

// Validate enforces the mandatory fields. It returns an error wrapping
// ErrMissingRequiredField when assets or liabilities is absent.
func (s *FinancialStatement) Validate() error {
	if s.Assets == nil {
		return fmt.Errorf("statement %s %s: assets: %w", s.CompanyID, s.Period, ErrMissingRequiredField)
	}
	if s.Liabilities == nil {
		return fmt.Errorf("statement %s %s: liabilities: %w", s.CompanyID, s.Period, ErrMissingRequiredField)
	}
	return nil
}

// Field names a statement field for presence checks via Has and Val.
type Field string

const (
	FieldAssets             Field = "assets"
	FieldLiabilities        Field = "liabilities"
	FieldEquity             Field = "equity"
	FieldCurrentAssets      Field = "current_assets"
	FieldCurrentLiabilities Field = "current_liabilities"
	FieldFixedAssets        Field = "fixed_assets"
	FieldInventory          Field = "inventory"
	FieldCash               Field = "cash"
	FieldAccountsReceivable Field = "accounts_receivable"
	FieldRetainedEarnings   Field = "retained_earnings"
	FieldRevenue            Field = "revenue"
	FieldCOGS               Field = "cogs"
	FieldGrossProfit        Field = "gross_profit"
	FieldOperatingExpenses  Field = "operating_expenses"
	FieldEBIT               Field = "ebit"
	FieldEBITDA             Field = "ebitda"
	FieldInterestExpense    Field = "interest_expense"
	FieldTaxExpense         Field = "tax_expense"
	FieldNetIncome          Field = "net_income"
	FieldOperatingCF        Field = "operating_cf"
	FieldInvestingCF        Field = "investing_cf"
	FieldFinancingCF        Field = "financing_cf"
)

func (s *FinancialStatement) fieldPtr(f Field) *float64 {
	switch f {
	case FieldAssets:
		return s.Assets
	case FieldLiabilities:
		return s.Liabilities
	case FieldEquity:
		return s.Equity
	case FieldCurrentAssets:
		return s.CurrentAssets
	case FieldCurrentLiabilities:
		return s.CurrentLiabilities
	case FieldFixedAssets:
		return s.FixedAssets
	case FieldInventory:
		return s.Inventory
	case FieldCash:
		return s.Cash
	case FieldAccountsReceivable:
		return s.AccountsReceivable
	case FieldRetainedEarnings:
		return s.RetainedEarnings
	case FieldRevenue:
		return s.Revenue
	case FieldCOGS:
		return s.COGS
	case FieldGrossProfit:
		return s.GrossProfit
	case FieldOperatingExpenses:
		return s.OperatingExpenses
	case FieldEBIT:
		return s.EBIT
	case FieldEBITDA:
		return s.EBITDA
	case FieldInterestExpense:
		return s.InterestExpense
	case FieldTaxExpense:
		return s.TaxExpense
	case FieldNetIncome:
		return s.NetIncome
	case FieldOperatingCF:
		return s.OperatingCF
	case FieldInvestingCF:
		return s.InvestingCF
	case FieldFinancingCF:
		return s.FinancingCF
	}
	return nil
}

// Has reports whether every listed field is present on the statement. This
// is the single gate analyzers use before touching optional data, so the
// abstention rule stays uniform across the pipeline.
func (s *FinancialStatement) Has(fields ...Field) bool {
	for _, f := range fields {
		if s.fieldPtr(f) == nil {
			return false
		}
	}
	return true
}

// Val returns the value of f, or 0 when the field is absent. Callers guard
// with Has first; the zero fallback only keeps Val total.
func (s *FinancialStatement) Val(f Field) float64 {
	if p := s.fieldPtr(f); p != nil {
		return *p
	}
	return 0
}

// EquityValue returns reported equity, falling back to assets minus
// liabilities when the field is absent. Only meaningful after Validate.
func (s *FinancialStatement) EquityValue() float64 {
	if s.Equity != nil {
		return *s.Equity
	}
	if s.Assets == nil || s.Liabilities == nil {
		return 0
	}
	return *s.Assets - *s.Liabilities
}

// F64 returns a pointer to v. Convenience for building statement literals.
func F64(v float64) *float64 { return &v }
