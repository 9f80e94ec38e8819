package resolve

import (
	"go.uber.org/zap"

	"github.com/sells-group/dedupe-cli/internal/model"
)

// DefaultFuzzyThreshold gates fuzzy name matches. A score must strictly
// exceed it to qualify; exactly the threshold does not.
const DefaultFuzzyThreshold = 0.8

// MergeOptions configures merge-target resolution. Exactly one mode is
// active per run: exact name equality, or fuzzy matching when Fuzzy is set.
type MergeOptions struct {
	Fuzzy bool
	// Threshold overrides DefaultFuzzyThreshold when > 0. Ignored in exact mode.
	Threshold float64
}

// ResolveMerges proposes a merge target for each candidate. Candidates are
// records with no domain and a non-empty name; targets are records with a
// domain, scanned in input order. The returned map is candidate id -> target
// id; candidates without a qualifying target are simply absent.
//
// Exact mode takes the first target whose name equals the candidate's name
// verbatim. Fuzzy mode takes the highest-scoring target above the threshold,
// earliest target winning ties.
func ResolveMerges(candidates, targets []model.Account, opts MergeOptions) map[string]string {
	matches := make(map[string]string)
	if len(candidates) == 0 || len(targets) == 0 {
		return matches
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	for _, c := range candidates {
		if c.HasDomain() || c.Name == "" {
			continue
		}

		if opts.Fuzzy {
			if id, score, ok := bestFuzzyTarget(c.Name, targets, threshold); ok {
				matches[c.ID] = id
				zap.L().Debug("merge target matched",
					zap.String("mode", "fuzzy"),
					zap.String("account_id", c.ID),
					zap.String("target_id", id),
					zap.Float64("score", score),
				)
			}
			continue
		}

		for _, t := range targets {
			if t.Name == c.Name {
				matches[c.ID] = t.ID
				zap.L().Debug("merge target matched",
					zap.String("mode", "exact"),
					zap.String("account_id", c.ID),
					zap.String("target_id", t.ID),
				)
				break
			}
		}
	}

	return matches
}

// bestFuzzyTarget scans the target pool for the highest name similarity
// strictly above threshold. Equal scores resolve to the earliest target, so
// ambiguous matches are deterministic rather than errors.
func bestFuzzyTarget(name string, targets []model.Account, threshold float64) (string, float64, bool) {
	bestID, bestScore := "", threshold
	for _, t := range targets {
		if score := Ratio(name, t.Name); score > bestScore {
			bestID, bestScore = t.ID, score
		}
	}
	if bestID == "" {
		return "", 0, false
	}
	return bestID, bestScore, true
}
