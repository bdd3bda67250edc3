package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type jurisdictionFile struct {
	Jurisdictions []struct {
		Country      string   `yaml:"country"`
		Currency     string   `yaml:"currency"`
		VATRate      *float64 `yaml:"vat_rate"`
		TaxAuthority string   `yaml:"tax_authority"`
	} `yaml:"jurisdictions"`
}

// LoadJurisdictions overlays the YAML table at path onto the built-in rates.
// Fields left out of an entry keep their built-in value. An empty path
// returns the built-in table.
func LoadJurisdictions(path string) (domain.JurisdictionTable, error) {
	table := domain.DefaultJurisdictions()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jurisdictions file: %w", err)
	}
	var file jurisdictionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse jurisdictions file: %w", err)
	}

	for i, entry := range file.Jurisdictions {
		country, ok := domain.ParseCountry(entry.Country)
		if !ok {
			return nil, fmt.Errorf("jurisdictions[%d]: unknown country %q", i, entry.Country)
		}
		j := table[country]
		if entry.Currency != "" {
			j.Currency = entry.Currency
		}
		if entry.TaxAuthority != "" {
			j.TaxAuthority = entry.TaxAuthority
		}
		if entry.VATRate != nil {
			if *entry.VATRate < 0 || *entry.VATRate >= 1 {
				return nil, fmt.Errorf("jurisdictions[%d]: vat_rate %v outside [0, 1)", i, *entry.VATRate)
			}
			j.VATRate = *entry.VATRate
		}
		table[country] = j
	}
	return table, nil
}
