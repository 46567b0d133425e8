package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medialib-admin/internal/domain"
)

func ent(id uint, cat domain.Category, name string) domain.CatalogEntity {
	return domain.CatalogEntity{ID: id, Category: cat, Name: name}
}

func TestBuildExactGroupCountsEachEntityOnce(t *testing.T) {
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryDirectors, "A"),
		ent(2, domain.CategoryDirectors, "a "),
		ent(1, domain.CategoryWriters, "A"),
	}
	res := Build(in, Options{})
	require.Len(t, res.Exact, 1)
	assert.Empty(t, res.Similar)

	g := res.Exact[0]
	assert.Equal(t, domain.MatchExact, g.Kind)
	assert.Equal(t, 1.0, g.Similarity)
	assert.Len(t, g.Members, 3)
	assert.Equal(t, "A", g.Name)
	assert.Equal(t, "a|directors,directors,writers", g.Signature)
}

func TestBuildIncludesPairAtThreshold(t *testing.T) {
	// Smyth/Smith: one edit over five runes scores exactly 0.80.
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryWriters, "Smyth"),
		ent(2, domain.CategoryWriters, "Smith"),
		ent(3, domain.CategoryWriters, "Tolstoy"),
	}
	res := Build(in, Options{})
	assert.Empty(t, res.Exact)
	require.Len(t, res.Similar, 1)
	g := res.Similar[0]
	assert.Equal(t, domain.MatchSimilar, g.Kind)
	assert.InDelta(t, 0.80, g.Similarity, 1e-9)
	assert.Equal(t, "Smith", g.Name)
	assert.Len(t, g.Members, 2)
}

func TestBuildFuzzySkipsExactMembers(t *testing.T) {
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryDirectors, "Smith"),
		ent(2, domain.CategoryDirectors, "Smith"),
		ent(3, domain.CategoryDirectors, "Smyth"),
	}
	res := Build(in, Options{})
	require.Len(t, res.Exact, 1)
	assert.Len(t, res.Exact[0].Members, 2)
	assert.Empty(t, res.Similar, "the lone leftover has nobody to pair with")
}

func TestBuildSimilarGroupsAreChainConnected(t *testing.T) {
	// abcde~abcdx and abcdx~abcxx score 0.8, abcde~abcxx only 0.6.
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryBooks, "abcde"),
		ent(2, domain.CategoryBooks, "abcdx"),
		ent(3, domain.CategoryFilms, "abcxx"),
	}
	res := Build(in, Options{})
	require.Len(t, res.Similar, 1)
	assert.Len(t, res.Similar[0].Members, 3)
	assert.InDelta(t, 0.80, res.Similar[0].Similarity, 1e-9)
	assert.Equal(t, uint(1), res.Similar[0].Members[0].ID)
}

func TestBuildSimilarityIsGroupMax(t *testing.T) {
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryPhilosophers, "Immanuel Kant"),
		ent(2, domain.CategoryPhilosophers, "Kant"),
		ent(3, domain.CategoryPhilosophers, "Imanuel Kant"),
	}
	res := Build(in, Options{})
	require.Len(t, res.Similar, 1)
	g := res.Similar[0]
	assert.Len(t, g.Members, 3)
	// Kant is contained in both longer names; the surname rule only yields 0.82.
	assert.InDelta(t, 0.85, g.Similarity, 1e-9)
	// "imanuel kant" sorts first among the normalized names.
	assert.Equal(t, "Imanuel Kant", g.Name)
}

func TestBuildRespectsPolicy(t *testing.T) {
	p := OpenPolicy()
	p.Set(domain.CategoryFilms, domain.CategoryBooks, false)

	in := []domain.CatalogEntity{
		ent(1, domain.CategoryFilms, "Solaris"),
		ent(2, domain.CategoryBooks, "Solaris"),
		ent(3, domain.CategoryDirectors, "Solaris"),
	}
	res := Build(in, Options{CanCompare: p.Func()})
	// films and books both connect through directors.
	require.Len(t, res.Exact, 1)
	assert.Len(t, res.Exact[0].Members, 3)

	p.Set(domain.CategoryDirectors, domain.CategoryBooks, false)
	res = Build(in, Options{CanCompare: p.Func()})
	require.Len(t, res.Exact, 1)
	assert.Equal(t, "solaris|directors,films", res.Exact[0].Signature)
	assert.Empty(t, res.Similar, "the isolated book has no fuzzy partner")
}

func TestBuildIgnoresBlankAndRepeatedEntities(t *testing.T) {
	in := []domain.CatalogEntity{
		ent(1, domain.CategoryFilms, " "),
		ent(2, domain.CategoryFilms, ""),
		ent(3, domain.CategoryFilms, "Stalker"),
		ent(3, domain.CategoryFilms, "Stalker"),
	}
	res := Build(in, Options{})
	assert.Equal(t, 0, res.Len())
}

func TestSignatureStability(t *testing.T) {
	a := []domain.CatalogEntity{ent(1, domain.CategoryWriters, "X"), ent(9, domain.CategoryDirectors, "X")}
	b := []domain.CatalogEntity{ent(40, domain.CategoryDirectors, "X"), ent(41, domain.CategoryWriters, "X")}
	assert.Equal(t, Signature("Borges", a), Signature(" borges", b))

	c := []domain.CatalogEntity{ent(1, domain.CategoryWriters, "X"), ent(9, domain.CategoryBooks, "X")}
	assert.NotEqual(t, Signature("Borges", a), Signature("Borges", c))
	assert.NotEqual(t, Signature("Borges", a), Signature("Cortazar", a))
}

func TestManualSignature(t *testing.T) {
	keep := domain.EntityRef{ID: 3, Category: domain.CategoryFilms}
	del := domain.EntityRef{ID: 7, Category: domain.CategoryBooks}
	assert.Equal(t, "manual:films:3|books:7", ManualSignature(keep, del))
}

func TestParsePolicy(t *testing.T) {
	doc := []byte(`
default: false
same_category: true
rules:
  - {a: films, b: books, allow: true}
  - {a: Painters, b: paintings, allow: false}
`)
	p, err := ParsePolicy(doc)
	require.NoError(t, err)
	assert.True(t, p.CanCompare(domain.CategoryBooks, domain.CategoryFilms))
	assert.True(t, p.CanCompare(domain.CategoryWriters, domain.CategoryWriters))
	assert.False(t, p.CanCompare(domain.CategoryWriters, domain.CategoryDirectors))
	assert.False(t, p.CanCompare(domain.CategoryPaintings, domain.CategoryPainters))

	_, err = ParsePolicy([]byte("rules:\n  - {a: themes, b: films, allow: true}\n"))
	assert.Error(t, err)
	_, err = ParsePolicy([]byte("rules: [\n"))
	assert.Error(t, err)
}

func TestLoadPolicyMissingFileIsOpen(t *testing.T) {
	p, err := LoadPolicy(t.TempDir() + "/absent.yaml")
	require.NoError(t, err)
	assert.True(t, p.CanCompare(domain.CategoryFilms, domain.CategoryPainters))

	p, err = LoadPolicy("")
	require.NoError(t, err)
	assert.True(t, p.CanCompare(domain.CategoryBooks, domain.CategoryBooks))
}

func TestSelectionTransitions(t *testing.T) {
	s := NewSelection(3)
	assert.Equal(t, SelectionUnselected, s.State())
	assert.Error(t, s.ChooseDelete(1))

	require.NoError(t, s.ChooseKeep(0))
	assert.Equal(t, SelectionKeepChosen, s.State())
	assert.Error(t, s.ChooseDelete(0))
	require.NoError(t, s.ChooseDelete(2))
	assert.Equal(t, SelectionReady, s.State())

	// A different keep resets.
	require.NoError(t, s.ChooseKeep(1))
	assert.Equal(t, SelectionUnselected, s.State())
	assert.Equal(t, -1, s.Keep())

	require.NoError(t, s.ChooseKeep(1))
	require.NoError(t, s.ChooseDelete(0))
	keep, del, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, 1, keep)
	assert.Equal(t, 0, del)
	assert.Error(t, s.ChooseKeep(2), "locked while merging")

	s.Complete(assert.AnError)
	assert.Equal(t, SelectionFailed, s.State())
	assert.ErrorIs(t, s.LastErr(), assert.AnError)

	_, _, err = s.Begin()
	require.NoError(t, err)
	s.Complete(nil)
	assert.Equal(t, SelectionResolved, s.State())
	_, _, err = s.Begin()
	assert.Error(t, err)
	assert.Error(t, NewSelection(2).ChooseKeep(5))
}
