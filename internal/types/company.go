package types

import "fmt"

const (
	DefaultTaxRate      = 0.19
	DefaultValidityDays = 30
	DefaultQuotePrefix  = "COT"
	DefaultCurrency     = "CLP"
)

// CompanyProfile is the issuing company's configuration. It seeds the
// commercial conditions and banking details of every new quotation.
// QuotePrefix is the number prefix used for clients without a code.
type CompanyProfile struct {
	Name         string         `json:"name" yaml:"name"`
	Email        string         `json:"email" yaml:"email"`
	Phone        string         `json:"phone" yaml:"phone"`
	Address      string         `json:"address" yaml:"address"`
	TaxID        string         `json:"tax_id" yaml:"tax_id"`
	Banking      BankingDetails `json:"banking" yaml:"banking"`
	Currency     string         `json:"currency" yaml:"currency"`
	PaymentTerms string         `json:"payment_terms" yaml:"payment_terms"`
	TaxRate      float64        `json:"tax_rate" yaml:"tax_rate"`
	ValidityDays int            `json:"validity_days" yaml:"validity_days"`
	QuotePrefix  string         `json:"quote_prefix" yaml:"quote_prefix"`
}

func (p CompanyProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.TaxRate < 0 || p.TaxRate >= 1 {
		return fmt.Errorf("tax_rate must be in [0,1)")
	}
	if p.ValidityDays <= 0 {
		return fmt.Errorf("validity_days must be positive")
	}
	if p.QuotePrefix == "" {
		return fmt.Errorf("quote_prefix is required")
	}
	return nil
}

// Normalize fills zero-valued settings with the package defaults.
func (p *CompanyProfile) Normalize() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.TaxRate == 0 {
		p.TaxRate = DefaultTaxRate
	}
	if p.ValidityDays == 0 {
		p.ValidityDays = DefaultValidityDays
	}
	if p.QuotePrefix == "" {
		p.QuotePrefix = DefaultQuotePrefix
	}
}
