package resolve

import "github.com/sells-group/dedupe-cli/internal/model"

// Deletable reports whether an account is orphaned noise: no domain, no
// website, and no open or closed opportunities. Records with a domain or a
// website are never deletable, regardless of opportunity counts.
func Deletable(a model.Account) bool {
	return !a.HasDomain() &&
		!a.HasWebsite() &&
		a.ClosedOpps == 0 &&
		a.OpenOpps == 0
}

// ShouldDelete applies the deletion guard on top of Deletable: a candidate
// is only deleted when no domain-bearing record shares its name, i.e. there
// is no plausible merge target a looser matching pass could have found.
// namesWithDomain holds the names of all records whose domain is present.
func ShouldDelete(a model.Account, namesWithDomain map[string]bool) bool {
	if !Deletable(a) {
		return false
	}
	return !namesWithDomain[a.Name]
}
