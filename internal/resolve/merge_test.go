package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/dedupe-cli/internal/model"
)

func TestResolveMerges_ExactFirstMatchWins(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "Acme"}}
	targets := []model.Account{
		{ID: "t1", Name: "Acme", Domain: "acme.com"},
		{ID: "t2", Name: "Acme", Domain: "acme.de"},
	}
	matches := ResolveMerges(candidates, targets, MergeOptions{})
	assert.Equal(t, map[string]string{"c1": "t1"}, matches)
}

func TestResolveMerges_ExactIsCaseSensitive(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "acme"}}
	targets := []model.Account{{ID: "t1", Name: "Acme", Domain: "acme.com"}}
	matches := ResolveMerges(candidates, targets, MergeOptions{})
	assert.Empty(t, matches)
}

func TestResolveMerges_FuzzyArgmax(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "Gamma Corporation"}}
	targets := []model.Account{
		{ID: "t1", Name: "Gamma Corporatio", Domain: "gamma.io"},
		{ID: "t2", Name: "Gamma Corporation Ltd", Domain: "gamma.com"},
	}
	matches := ResolveMerges(candidates, targets, MergeOptions{Fuzzy: true})
	// t1 scores 2*16/33, t2 scores 2*17/38; the higher score wins even
	// though both clear the threshold.
	assert.Equal(t, map[string]string{"c1": "t1"}, matches)
}

func TestResolveMerges_FuzzyTieGoesToFirstTarget(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "Beta Inc"}}
	targets := []model.Account{
		{ID: "t1", Name: "Beta Inc.", Domain: "beta.io"},
		{ID: "t2", Name: "Beta Inc.", Domain: "beta.com"},
	}
	matches := ResolveMerges(candidates, targets, MergeOptions{Fuzzy: true})
	assert.Equal(t, map[string]string{"c1": "t1"}, matches)
}

func TestResolveMerges_FuzzyThresholdIsStrict(t *testing.T) {
	// Ratio("abcde", "abcdf") is exactly 0.8, which must not qualify.
	candidates := []model.Account{{ID: "c1", Name: "abcde"}}
	targets := []model.Account{{ID: "t1", Name: "abcdf", Domain: "abc.com"}}
	matches := ResolveMerges(candidates, targets, MergeOptions{Fuzzy: true})
	assert.Empty(t, matches)
}

func TestResolveMerges_FuzzyBelowThreshold(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "Acme"}}
	targets := []model.Account{{ID: "t1", Name: "Completely Different", Domain: "other.com"}}
	matches := ResolveMerges(candidates, targets, MergeOptions{Fuzzy: true})
	assert.Empty(t, matches)
}

func TestResolveMerges_CustomThreshold(t *testing.T) {
	candidates := []model.Account{{ID: "c1", Name: "abcde"}}
	targets := []model.Account{{ID: "t1", Name: "abcdf", Domain: "abc.com"}}
	matches := ResolveMerges(candidates, targets, MergeOptions{Fuzzy: true, Threshold: 0.7})
	assert.Equal(t, map[string]string{"c1": "t1"}, matches)
}

func TestResolveMerges_SkipsNamelessAndDomainBearing(t *testing.T) {
	candidates := []model.Account{
		{ID: "c1"},                             // no name
		{ID: "c2", Name: "X", Domain: "x.com"}, // has a domain
	}
	targets := []model.Account{{ID: "t1", Name: "X", Domain: "x.de"}}
	matches := ResolveMerges(candidates, targets, MergeOptions{})
	assert.Empty(t, matches)
}

func TestResolveMerges_EmptyPools(t *testing.T) {
	assert.Empty(t, ResolveMerges(nil, nil, MergeOptions{}))
	assert.Empty(t, ResolveMerges([]model.Account{{ID: "c", Name: "A"}}, nil, MergeOptions{Fuzzy: true}))
}
