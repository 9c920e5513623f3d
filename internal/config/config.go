package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"cotiza/internal/types"
)

const (
	ProfilePathEnvKey  = "COTIZA_PROFILE"
	DefaultProfilePath = "cotiza.yaml"
)

// LoadProfile reads the company profile from the YAML file at path (the
// COTIZA_PROFILE env var, then ./cotiza.yaml, when path is empty). A
// missing file yields the built-in default profile; a present but invalid
// one is an error.
func LoadProfile(path string) (types.CompanyProfile, error) {
	if path == "" {
		path = os.Getenv(ProfilePathEnvKey)
	}
	explicit := path != ""
	if !explicit {
		path = DefaultProfilePath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return DefaultProfile(), nil
		}
		return types.CompanyProfile{}, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p types.CompanyProfile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return types.CompanyProfile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return types.CompanyProfile{}, types.Err(types.ErrInvalidProfile, err, "profile %s", path)
	}
	return p, nil
}

// DefaultProfile is the profile used when no configuration file exists.
func DefaultProfile() types.CompanyProfile {
	p := types.CompanyProfile{
		Name:         "Mi Empresa",
		Email:        "contacto@miempresa.cl",
		Phone:        "+56 9 1234 5678",
		Address:      "Santiago, Chile",
		TaxID:        "12.345.678-9",
		PaymentTerms: "50% al inicio, 50% contra entrega",
		Banking: types.BankingDetails{
			BankName:      "Banco Estado",
			AccountType:   "Cuenta Corriente",
			AccountNumber: "123456789",
			TaxID:         "12.345.678-9",
		},
	}
	p.Normalize()
	return p
}
