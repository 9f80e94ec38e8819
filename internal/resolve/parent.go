package resolve

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dedupe-cli/internal/model"
)

// GroupResult is the outcome of parent resolution for one domain-root group.
type GroupResult struct {
	Root     string
	ParentID string
	ChildIDs []string
}

// ResolveGroup selects exactly one parent for a group of accounts sharing a
// domain root. The group must be in original input order; every tiebreak is
// "first in input order". Uses a rule cascade, stopping at the first rule
// that yields a candidate:
//  1. Domain ends with ".com"
//  2. Billing country is "United States"
//  3. Billing country is "United Kingdom" or "Europe"
//  4. Most contacts, oldest record breaking ties
//  5. Cleaned-domain similarity against the group's first member
//  6. Oldest record
//
// Rule 4 always yields a row for a non-empty group, so rules 5 and 6 are
// unreachable fallbacks kept for compatibility with the documented cascade.
// Groups of fewer than two records are left untouched.
func ResolveGroup(root string, group []model.Account) GroupResult {
	res := GroupResult{Root: root}
	if len(group) < 2 {
		return res
	}

	log := zap.L().With(zap.String("domain_root", root), zap.Int("size", len(group)))

	idx := -1
	rule := ""

	// Rule 1: prefer the .com entity.
	for i, a := range group {
		if strings.HasSuffix(a.Domain, ".com") {
			idx, rule = i, "com_domain"
			break
		}
	}

	// Rule 2: USA entity.
	if idx < 0 {
		for i, a := range group {
			if a.BillingCountry == "United States" {
				idx, rule = i, "us_entity"
				break
			}
		}
	}

	// Rule 3: UK/Europe entity.
	if idx < 0 {
		for i, a := range group {
			if a.BillingCountry == "United Kingdom" || a.BillingCountry == "Europe" {
				idx, rule = i, "uk_europe_entity"
				break
			}
		}
	}

	// Rule 4: most contacts, then oldest. Always yields a row.
	if idx < 0 {
		idx, rule = mostContactsOldest(group), "contacts_age"
	}

	// Rule 5: cleaned-domain similarity against the first member.
	if idx < 0 {
		idx, rule = mostSimilarDomain(group), "domain_similarity"
	}

	// Rule 6: oldest record.
	if idx < 0 {
		idx, rule = oldest(group), "oldest"
	}

	parent := group[idx]
	res.ParentID = parent.ID
	for _, a := range group {
		if a.ID != parent.ID {
			res.ChildIDs = append(res.ChildIDs, a.ID)
		}
	}

	log.Debug("parent assigned",
		zap.String("rule", rule),
		zap.String("parent_id", parent.ID),
		zap.String("parent_name", parent.Name),
		zap.Int("children", len(res.ChildIDs)),
	)

	return res
}

// mostContactsOldest returns the index of the record with the highest contact
// count, breaking ties by earliest created date, then by input order.
func mostContactsOldest(group []model.Account) int {
	order := indexes(group)
	sort.SliceStable(order, func(x, y int) bool {
		a, b := group[order[x]], group[order[y]]
		if a.TotalContacts != b.TotalContacts {
			return a.TotalContacts > b.TotalContacts
		}
		return a.CreatedDate.Before(b.CreatedDate)
	})
	return order[0]
}

// mostSimilarDomain returns the index whose cleaned domain scores highest
// against the group's first member, first occurrence breaking ties.
func mostSimilarDomain(group []model.Account) int {
	ref := CleanDomain(group[0].Domain)
	best, bestScore := 0, -1.0
	for i, a := range group {
		if score := Ratio(ref, CleanDomain(a.Domain)); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// oldest returns the index of the earliest created record, input order
// breaking ties.
func oldest(group []model.Account) int {
	order := indexes(group)
	sort.SliceStable(order, func(x, y int) bool {
		return group[order[x]].CreatedDate.Before(group[order[y]].CreatedDate)
	})
	return order[0]
}

func indexes(group []model.Account) []int {
	order := make([]int, len(group))
	for i := range order {
		order[i] = i
	}
	return order
}
