// Package model defines the account records and resolution outcomes shared
// across the resolver and the I/O boundary.
package model

import "time"

// Outcome is the resolution assigned to a single account record.
type Outcome string

const (
	// OutcomeNoAction is the initial state; records keep it when no rule applies.
	OutcomeNoAction Outcome = "No Action"
	// OutcomeParent marks the canonical record of a domain-root group.
	OutcomeParent Outcome = "Parent"
	// OutcomeChild marks a record that should be reparented under the group parent.
	OutcomeChild Outcome = "Child"
	// OutcomeMerge marks a domain-less record that should be consolidated into
	// an existing domain-bearing record.
	OutcomeMerge Outcome = "Merge"
	// OutcomeDelete marks orphaned noise: no domain, no website, no activity,
	// and no plausible merge target by name.
	OutcomeDelete Outcome = "Delete"
)

// Account is one input row. Input fields are never mutated after load;
// DomainRoot and DomainSuffix are derived by the resolver.
type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Domain         string    `json:"domain,omitempty"`
	Website        string    `json:"website,omitempty"`
	BillingCountry string    `json:"billing_country,omitempty"`
	CreatedDate    time.Time `json:"created_date"`
	TotalContacts  int       `json:"total_contacts"`
	ClosedOpps     int       `json:"closed_opportunities"`
	OpenOpps       int       `json:"open_opportunities"`

	// Derived by the domain parser. Empty when the domain is absent or has
	// no dot separator.
	DomainRoot   string `json:"domain_root,omitempty"`
	DomainSuffix string `json:"domain_suffix,omitempty"`
}

// HasDomain reports whether the record carries a web domain.
func (a Account) HasDomain() bool { return a.Domain != "" }

// HasWebsite reports whether the record carries a website URL.
func (a Account) HasWebsite() bool { return a.Website != "" }

// Resolution is the engine's verdict for one account, keyed by Account.ID.
type Resolution struct {
	Outcome Outcome `json:"outcome"`
	// ProposedParentID is set only when Outcome is Child.
	ProposedParentID string `json:"proposed_parent_id,omitempty"`
	// MergeTargetID is set only when Outcome is Merge and always references
	// a domain-bearing record.
	MergeTargetID string `json:"merge_target_id,omitempty"`
}

// RunSummary aggregates outcome counts for one resolution run.
type RunSummary struct {
	Records  int `json:"records"`
	Groups   int `json:"groups"`
	Parents  int `json:"parents"`
	Children int `json:"children"`
	Merges   int `json:"merges"`
	Deletes  int `json:"deletes"`
	NoAction int `json:"no_action"`
}

// Summarize tallies outcomes for reporting and logging.
func Summarize(results map[string]Resolution) RunSummary {
	s := RunSummary{Records: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeParent:
			s.Parents++
		case OutcomeChild:
			s.Children++
		case OutcomeMerge:
			s.Merges++
		case OutcomeDelete:
			s.Deletes++
		default:
			s.NoAction++
		}
	}
	s.Groups = s.Parents
	return s
}
