package resolve

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dedupe-cli/internal/model"
)

// Options configures a resolution run.
type Options struct {
	// Fuzzy switches merge resolution from exact name equality to
	// similarity-based matching.
	Fuzzy bool
	// FuzzyThreshold overrides DefaultFuzzyThreshold when > 0.
	FuzzyThreshold float64
	// Concurrency bounds the per-group parent resolution fan-out.
	// Defaults to GOMAXPROCS.
	Concurrency int
}

// Engine runs the resolution pipeline over one account snapshot.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Run executes the pipeline in fixed order: derive domain roots, resolve a
// parent per domain-root group, resolve merge targets for domain-less
// records, then classify leftover NoAction records for deletion. Every input
// id gets exactly one result and no stage overwrites an earlier stage's
// outcome. The input slice is not mutated. Cancellation is honored between
// stages; a stage that has started runs to completion.
func (e *Engine) Run(ctx context.Context, accounts []model.Account) (map[string]model.Resolution, error) {
	if err := validateIDs(accounts); err != nil {
		return nil, err
	}

	// Stage 0: derive domain roots on a working copy.
	recs := make([]model.Account, len(accounts))
	copy(recs, accounts)
	for i := range recs {
		recs[i].DomainRoot, recs[i].DomainSuffix = SplitDomain(recs[i].Domain)
	}

	results := make(map[string]model.Resolution, len(recs))
	for _, a := range recs {
		results[a.ID] = model.Resolution{Outcome: model.OutcomeNoAction}
	}

	// Stage 1: parent resolution per domain-root group.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "resolve: cancelled before parent stage")
	}
	roots, groups := groupByRoot(recs)
	groupResults := make([]GroupResult, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			groupResults[i] = ResolveGroup(root, groups[root])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "resolve: parent stage")
	}

	for _, gr := range groupResults {
		if gr.ParentID == "" {
			continue
		}
		results[gr.ParentID] = model.Resolution{Outcome: model.OutcomeParent}
		for _, id := range gr.ChildIDs {
			results[id] = model.Resolution{
				Outcome:          model.OutcomeChild,
				ProposedParentID: gr.ParentID,
			}
		}
	}

	// Stage 2: merge targets for domain-less records. Parent/Child records
	// all carry domains, so the candidate set can never collide with them.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "resolve: cancelled before merge stage")
	}
	var candidates, targets []model.Account
	for _, a := range recs {
		switch {
		case a.HasDomain():
			targets = append(targets, a)
		case a.Name != "" && results[a.ID].Outcome == model.OutcomeNoAction:
			candidates = append(candidates, a)
		}
	}
	matches := ResolveMerges(candidates, targets, MergeOptions{
		Fuzzy:     e.opts.Fuzzy,
		Threshold: e.opts.FuzzyThreshold,
	})
	for id, targetID := range matches {
		results[id] = model.Resolution{
			Outcome:       model.OutcomeMerge,
			MergeTargetID: targetID,
		}
	}

	// Stage 3: deletion for whatever is still NoAction.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "resolve: cancelled before delete stage")
	}
	namesWithDomain := make(map[string]bool, len(targets))
	for _, t := range targets {
		namesWithDomain[t.Name] = true
	}
	for _, a := range recs {
		if results[a.ID].Outcome != model.OutcomeNoAction {
			continue
		}
		if ShouldDelete(a, namesWithDomain) {
			results[a.ID] = model.Resolution{Outcome: model.OutcomeDelete}
		}
	}

	summary := model.Summarize(results)
	zap.L().Info("resolution complete",
		zap.Int("records", summary.Records),
		zap.Int("parents", summary.Parents),
		zap.Int("children", summary.Children),
		zap.Int("merges", summary.Merges),
		zap.Int("deletes", summary.Deletes),
		zap.Int("no_action", summary.NoAction),
		zap.Bool("fuzzy", e.opts.Fuzzy),
	)

	return results, nil
}

func (e *Engine) concurrency() int {
	if e.opts.Concurrency > 0 {
		return e.opts.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// groupByRoot buckets records by non-empty domain root. Roots come back in
// first-appearance order and each bucket preserves input order, which the
// cascade's "first in input order" tiebreaks depend on.
func groupByRoot(recs []model.Account) ([]string, map[string][]model.Account) {
	var roots []string
	groups := make(map[string][]model.Account)
	for _, a := range recs {
		if a.DomainRoot == "" {
			continue
		}
		if _, seen := groups[a.DomainRoot]; !seen {
			roots = append(roots, a.DomainRoot)
		}
		groups[a.DomainRoot] = append(groups[a.DomainRoot], a)
	}
	return roots, groups
}

// validateIDs rejects snapshots with empty or duplicate account ids before
// any processing starts.
func validateIDs(accounts []model.Account) error {
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		if a.ID == "" {
			return eris.Errorf("resolve: record %d has an empty account id", i)
		}
		if seen[a.ID] {
			return eris.Errorf("resolve: duplicate account id %q", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
