package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotiza/internal/types"
)

func TestLoadProfileDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTaxRate, p.TaxRate)
	assert.Equal(t, types.DefaultValidityDays, p.ValidityDays)
	assert.Equal(t, types.DefaultQuotePrefix, p.QuotePrefix)
	assert.NoError(t, p.Validate())
}

func TestLoadProfileFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	doc := `
name: Consultora Austral
email: hola@austral.cl
tax_rate: 0.19
validity_days: 45
quote_prefix: AUS
banking:
  bank_name: Banco de Chile
  account_number: "987654"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Consultora Austral", p.Name)
	assert.Equal(t, 45, p.ValidityDays)
	assert.Equal(t, "AUS", p.QuotePrefix)
	assert.Equal(t, "Banco de Chile", p.Banking.BankName)
	// Unset settings fall back to defaults.
	assert.Equal(t, types.DefaultCurrency, p.Currency)
}

func TestLoadProfileMissingExplicitPath(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadProfileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: \"\"\ntax_rate: 2.0\n"), 0o600))

	_, err := LoadProfile(path)
	assert.ErrorIs(t, err, types.ErrInvalidProfile)
}
