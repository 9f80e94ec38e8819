// Package accountio reads and writes tabular account files around an
// explicit column mapping, keeping the resolver free of source-schema
// knowledge.
package accountio

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Mapping binds each logical account field to a source column name. Callers
// with differently-labelled exports remap via a YAML file; the defaults
// match the standard Salesforce account export.
type Mapping struct {
	AccountID      string `yaml:"account_id"`
	AccountName    string `yaml:"account_name"`
	Domain         string `yaml:"domain"`
	Website        string `yaml:"website"`
	BillingCountry string `yaml:"billing_country"`
	CreatedDate    string `yaml:"created_date"`
	TotalContacts  string `yaml:"total_contacts"`
	OpenOpps       string `yaml:"open_opportunities"`
	ClosedOpps     string `yaml:"closed_opportunities"`

	// DateLayouts lists Go time layouts tried in order when parsing the
	// created-date column. Empty means the built-in defaults.
	DateLayouts []string `yaml:"date_layouts,omitempty"`
}

// DefaultMapping returns the column names of the standard account export.
func DefaultMapping() Mapping {
	return Mapping{
		AccountID:      "Account ID",
		AccountName:    "Account Name",
		Domain:         "Domain",
		Website:        "Website",
		BillingCountry: "Billing Country",
		CreatedDate:    "Created Date",
		TotalContacts:  "Total Contacts",
		OpenOpps:       "# of Open Opportunities",
		ClosedOpps:     "# of Closed Opportunities",
	}
}

// LoadMapping reads a mapping file. Fields left empty fall back to the
// default column names.
func LoadMapping(path string) (Mapping, error) {
	m := DefaultMapping()

	data, err := os.ReadFile(path)
	if err != nil {
		return m, eris.Wrap(err, "accountio: read mapping file")
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, eris.Wrap(err, "accountio: parse mapping file")
	}

	d := DefaultMapping()
	if m.AccountID == "" {
		m.AccountID = d.AccountID
	}
	if m.AccountName == "" {
		m.AccountName = d.AccountName
	}

	return m, nil
}

// columns holds resolved header indexes; -1 marks an absent optional column.
type columns struct {
	id, name, domain, website, country, created, contacts, open, closed int
}

// resolve maps logical fields onto header positions. Account id and name are
// required; a header missing either aborts the run with every missing
// required column reported together. The remaining fields are optional and
// load as absent/zero when their column is not present.
func (m Mapping) resolve(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	find := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	c := columns{
		id:       find(m.AccountID),
		name:     find(m.AccountName),
		domain:   find(m.Domain),
		website:  find(m.Website),
		country:  find(m.BillingCountry),
		created:  find(m.CreatedDate),
		contacts: find(m.TotalContacts),
		open:     find(m.OpenOpps),
		closed:   find(m.ClosedOpps),
	}

	var missing []string
	if c.id < 0 {
		missing = append(missing, m.AccountID)
	}
	if c.name < 0 {
		missing = append(missing, m.AccountName)
	}
	if len(missing) > 0 {
		return c, eris.Errorf("accountio: required columns missing from header: %s",
			strings.Join(missing, ", "))
	}

	for col, idx := range map[string]int{
		m.Domain: c.domain, m.Website: c.website, m.BillingCountry: c.country,
		m.CreatedDate: c.created, m.TotalContacts: c.contacts,
		m.OpenOpps: c.open, m.ClosedOpps: c.closed,
	} {
		if idx < 0 {
			zap.L().Warn("accountio: optional column not found, loading as empty",
				zap.String("column", col))
		}
	}

	return c, nil
}
