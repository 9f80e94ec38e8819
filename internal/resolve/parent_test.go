package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/dedupe-cli/internal/model"
)

func day(d int) time.Time {
	return time.Date(2020, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveGroup_ComDomainWins(t *testing.T) {
	group := []model.Account{
		{ID: "2", Name: "Acme GmbH", Domain: "acme.de", BillingCountry: "Germany"},
		{ID: "1", Name: "Acme", Domain: "acme.com", BillingCountry: "Germany"},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "1", res.ParentID)
	assert.Equal(t, []string{"2"}, res.ChildIDs)
}

func TestResolveGroup_FirstComInInputOrder(t *testing.T) {
	group := []model.Account{
		{ID: "a", Domain: "acme.com"},
		{ID: "b", Domain: "acme.example.com"},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "a", res.ParentID)
}

func TestResolveGroup_USEntityWhenNoCom(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme.de", BillingCountry: "Germany"},
		{ID: "2", Domain: "acme.io", BillingCountry: "United States"},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "2", res.ParentID)
	assert.Equal(t, []string{"1"}, res.ChildIDs)
}

func TestResolveGroup_UKAndEuropeEntity(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme.de", BillingCountry: "Germany"},
		{ID: "2", Domain: "acme.co.uk", BillingCountry: "United Kingdom"},
		{ID: "3", Domain: "acme.eu", BillingCountry: "Europe"},
	}
	res := ResolveGroup("acme", group)
	// Both qualify under rule 3; the first in input order wins.
	assert.Equal(t, "2", res.ParentID)
	assert.ElementsMatch(t, []string{"1", "3"}, res.ChildIDs)
}

func TestResolveGroup_ContactsTiebreak(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme.de", BillingCountry: "Germany", TotalContacts: 3, CreatedDate: day(5)},
		{ID: "2", Domain: "acme.fr", BillingCountry: "France", TotalContacts: 9, CreatedDate: day(9)},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "2", res.ParentID)
}

func TestResolveGroup_EqualContactsOldestWins(t *testing.T) {
	// Group of 3: no .com, no US/UK/Europe, equal contacts. The smallest
	// created date decides.
	group := []model.Account{
		{ID: "1", Domain: "acme.de", BillingCountry: "Germany", TotalContacts: 2, CreatedDate: day(15)},
		{ID: "2", Domain: "acme.fr", BillingCountry: "France", TotalContacts: 2, CreatedDate: day(3)},
		{ID: "3", Domain: "acme.jp", BillingCountry: "Japan", TotalContacts: 2, CreatedDate: day(8)},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "2", res.ParentID)
	assert.ElementsMatch(t, []string{"1", "3"}, res.ChildIDs)
}

func TestResolveGroup_EqualContactsEqualDateInputOrderWins(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme.de", BillingCountry: "Germany", TotalContacts: 1, CreatedDate: day(1)},
		{ID: "2", Domain: "acme.fr", BillingCountry: "France", TotalContacts: 1, CreatedDate: day(1)},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "1", res.ParentID)
}

func TestResolveGroup_Singleton(t *testing.T) {
	res := ResolveGroup("acme", []model.Account{{ID: "1", Domain: "acme.com"}})
	assert.Empty(t, res.ParentID)
	assert.Empty(t, res.ChildIDs)
}

func TestResolveGroup_Empty(t *testing.T) {
	res := ResolveGroup("acme", nil)
	assert.Empty(t, res.ParentID)
	assert.Empty(t, res.ChildIDs)
}

func TestResolveGroup_ExactlyOneParent(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme.com"},
		{ID: "2", Domain: "acme.com"},
		{ID: "3", Domain: "acme.de"},
		{ID: "4", Domain: "acme.fr"},
	}
	res := ResolveGroup("acme", group)
	assert.Equal(t, "1", res.ParentID)
	assert.Len(t, res.ChildIDs, 3)
	assert.NotContains(t, res.ChildIDs, res.ParentID)
}

func TestMostSimilarDomain_ArgmaxAgainstFirstMember(t *testing.T) {
	group := []model.Account{
		{ID: "1", Domain: "acme-corp.de"},
		{ID: "2", Domain: "zzz.io"},
		{ID: "3", Domain: "acmecorp.dk"},
	}
	// Cleaned domains: "acmecorp.de" vs itself (index 0) always scores 1.0.
	assert.Equal(t, 0, mostSimilarDomain(group))
}

func TestOldest_InputOrderBreaksTies(t *testing.T) {
	group := []model.Account{
		{ID: "1", CreatedDate: day(2)},
		{ID: "2", CreatedDate: day(1)},
		{ID: "3", CreatedDate: day(1)},
	}
	assert.Equal(t, 1, oldest(group))
}
