// Package resolve implements the account resolution engine: domain grouping,
// the parent cascade, merge-target matching, and the deletion classifier.
package resolve

import (
	"regexp"
	"strings"
)

var domainJunk = regexp.MustCompile(`[-_]`)

// SplitDomain extracts the grouping root and the suffix from a raw domain.
// The root is the first dot-delimited label and the suffix is everything
// after it: "mail.acme.co.uk" -> ("mail", "acme.co.uk"). Absent domains and
// strings without a dot yield ("", "").
//
// Grouping on the first label (rather than the registrable domain) is the
// documented compatibility behavior; the merge and deletion rules depend on
// it staying exactly as is.
func SplitDomain(domain string) (root, suffix string) {
	if domain == "" {
		return "", ""
	}
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], ".")
}

// CleanDomain strips hyphens and underscores before similarity comparison.
func CleanDomain(domain string) string {
	if domain == "" {
		return domain
	}
	return domainJunk.ReplaceAllString(domain, "")
}
