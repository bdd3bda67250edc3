package domain

import "strings"

type Country string

const (
	Uganda     Country = "Uganda"
	Kenya      Country = "Kenya"
	Tanzania   Country = "Tanzania"
	Rwanda     Country = "Rwanda"
	Burundi    Country = "Burundi"
	SouthSudan Country = "SouthSudan"
	DRC        Country = "DRC"
	Somalia    Country = "Somalia"
)

// Countries lists the EAC jurisdictions in their canonical order.
var Countries = []Country{Uganda, Kenya, Tanzania, Rwanda, Burundi, SouthSudan, DRC, Somalia}

func (c Country) Valid() bool {
	for _, known := range Countries {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCountry matches a country name case-insensitively, ignoring spaces.
func ParseCountry(raw string) (Country, bool) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	for _, known := range Countries {
		if strings.ToLower(string(known)) == norm {
			return known, true
		}
	}
	return "", false
}

// Jurisdiction is the tax metadata for one country. Rates are illustrative.
type Jurisdiction struct {
	Country      Country `json:"country" yaml:"country"`
	Currency     string  `json:"currency" yaml:"currency"`
	VATRate      float64 `json:"vat_rate" yaml:"vat_rate"`
	TaxAuthority string  `json:"tax_authority" yaml:"tax_authority"`
}

type JurisdictionTable map[Country]Jurisdiction

func DefaultJurisdictions() JurisdictionTable {
	return JurisdictionTable{
		Uganda:     {Country: Uganda, Currency: "UGX", VATRate: 0.18, TaxAuthority: "URA"},
		Kenya:      {Country: Kenya, Currency: "KES", VATRate: 0.16, TaxAuthority: "KRA"},
		Tanzania:   {Country: Tanzania, Currency: "TZS", VATRate: 0.18, TaxAuthority: "TRA"},
		Rwanda:     {Country: Rwanda, Currency: "RWF", VATRate: 0.18, TaxAuthority: "RRA"},
		Burundi:    {Country: Burundi, Currency: "BIF", VATRate: 0.18, TaxAuthority: "OBR"},
		SouthSudan: {Country: SouthSudan, Currency: "SSP", VATRate: 0.18, TaxAuthority: "NRA"},
		DRC:        {Country: DRC, Currency: "CDF", VATRate: 0.16, TaxAuthority: "DGI"},
		Somalia:    {Country: Somalia, Currency: "SOS", VATRate: 0.10, TaxAuthority: "MoF"},
	}
}

// Lookup returns the jurisdiction for c, falling back to the default table.
func (t JurisdictionTable) Lookup(c Country) (Jurisdiction, bool) {
	if j, ok := t[c]; ok {
		return j, true
	}
	j, ok := DefaultJurisdictions()[c]
	return j, ok
}
