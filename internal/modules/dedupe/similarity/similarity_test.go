package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 0, LevenshteinDistance("", ""))
	assert.Equal(t, 4, LevenshteinDistance("", "kant"))
	assert.Equal(t, 1, LevenshteinDistance("שפינוזה", "שפינוזא"))

	pairs := [][2]string{{"flaw", "lawn"}, {"Tarkovsky", "Tarkovski"}, {"a", "abc"}}
	for _, p := range pairs {
		assert.Equal(t, LevenshteinDistance(p[0], p[1]), LevenshteinDistance(p[1], p[0]), "symmetry %v", p)
		assert.Equal(t, 0, LevenshteinDistance(p[0], p[0]))
	}
}

func TestNameSimilarityRules(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical after normalization", "  Ingmar Bergman ", "ingmar bergman", ExactScore},
		{"containment", "Immanuel Kant", "Kant", ContainmentScore},
		{"short containment ignored", "Olivia", "Li", 1 - 4.0/6.0},
		{"shared surname", "John Smith", "Jane Smith", SurnameScore},
		{"short surname ignored", "Sun Li", "Mei Li", 1 - 3.0/6.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NameSimilarity(tc.a, tc.b), 1e-12)
		})
	}
}

func TestNameSimilarityEditDistanceFallback(t *testing.T) {
	got := NameSimilarity("Smyth", "Smith")
	require.InDelta(t, 0.80, got, 1e-12)
	require.True(t, IsSimilar(got, FuzzyThreshold), "exactly 0.80 must be similar")
}

func TestNameSimilarityProperties(t *testing.T) {
	names := []string{"Kant", "Immanuel Kant", "Hegel", "G. W. F. Hegel", "Andrei Tarkovsky", "Tarkovski", "ברגמן", "Bergman"}
	for _, a := range names {
		assert.Equal(t, 1.0, NameSimilarity(a, a), "reflexive %q", a)
		for _, b := range names {
			s := NameSimilarity(a, b)
			assert.Equal(t, s, NameSimilarity(b, a), "symmetric %q %q", a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestIsSimilarBand(t *testing.T) {
	assert.False(t, IsSimilar(1.0, FuzzyThreshold))
	assert.True(t, IsSimilar(0.85, FuzzyThreshold))
	assert.False(t, IsSimilar(0.79, FuzzyThreshold))
}
