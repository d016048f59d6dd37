// Package normalize converts institution CSV exports into canonical
// transactions. Instead of one parser type per bank, a single parser is
// driven by a Profile: a column mapping plus date-format and
// amount-cleaning settings, loadable from YAML.
package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// Profile describes how to read one institution's CSV export. Columns are
// referenced by header name, or by zero-based index for headerless
// exports (HasHeader false).
//
// Exactly one amount layout applies: a single signed AmountColumn
// (positive = credit, negative = debit), or separate DebitColumn and
// CreditColumn.
type Profile struct {
	Name              string   `yaml:"name"`
	HasHeader         bool     `yaml:"has_header"`
	DateColumn        string   `yaml:"date_column"`
	DateFormats       []string `yaml:"date_formats"` // Go time layouts, tried in order
	DescriptionColumn string   `yaml:"description_column"`
	AmountColumn      string   `yaml:"amount_column,omitempty"`
	DebitColumn       string   `yaml:"debit_column,omitempty"`
	CreditColumn      string   `yaml:"credit_column,omitempty"`
	ReferenceColumn   string   `yaml:"reference_column,omitempty"`
	BalanceColumn     string   `yaml:"balance_column,omitempty"`
}

// Validate checks that the profile names the required columns and exactly
// one amount layout.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile missing name")
	}
	if p.DateColumn == "" {
		return fmt.Errorf("profile %s: missing date_column", p.Name)
	}
	if len(p.DateFormats) == 0 {
		return fmt.Errorf("profile %s: missing date_formats", p.Name)
	}
	if p.DescriptionColumn == "" {
		return fmt.Errorf("profile %s: missing description_column", p.Name)
	}
	single := p.AmountColumn != ""
	split := p.DebitColumn != "" || p.CreditColumn != ""
	if single == split {
		return fmt.Errorf("profile %s: need amount_column or debit_column/credit_column, not both", p.Name)
	}
	if split && (p.DebitColumn == "" || p.CreditColumn == "") {
		return fmt.Errorf("profile %s: debit_column and credit_column must both be set", p.Name)
	}
	return nil
}

// Registry holds named profiles.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// Register adds a profile. Panics on duplicate name.
func (r *Registry) Register(p Profile) {
	key := strings.ToLower(p.Name)
	if _, ok := r.profiles[key]; ok {
		panic("duplicate profile name: " + key)
	}
	r.profiles[key] = p
}

// Get returns the profile for name.
func (r *Registry) Get(name string) (Profile, bool) {
	p, ok := r.profiles[strings.ToLower(name)]
	return p, ok
}

// Names returns all registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
