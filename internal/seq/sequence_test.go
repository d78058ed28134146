package seq

import (
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniseq/internal/alphabet"
)

func TestConstructorsValidate(t *testing.T) {
	s, err := NewDNA("d1", "acgtn-")
	require.NoError(t, err)
	assert.Equal(t, "ACGTN-", s.Residues())
	assert.Equal(t, alphabet.DNA, s.Variant())
	assert.Equal(t, 6, s.Len())

	_, err = NewDNA("d2", "ACGU")
	var ire *alphabet.InvalidResidueError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, 'U', ire.Char)

	_, err = NewRNA("r1", "ACGU")
	require.NoError(t, err)

	_, err = NewProtein("p1", "MKV9")
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, alphabet.Protein, ire.Variant)

	raw := NewRaw("x", "12#ab")
	assert.Equal(t, "12#AB", raw.Residues())
	assert.Equal(t, alphabet.Sequence, raw.Variant())
}

func TestConcat(t *testing.T) {
	a, _ := NewDNA("a", "AC")
	b, _ := NewDNA("b", "GT")
	c, err := a.Concat(b)
	require.NoError(t, err)
	assert.Equal(t, "ab", c.ID())
	assert.Equal(t, "ACGT", c.Residues())
	assert.Equal(t, alphabet.DNA, c.Variant())

	r, _ := NewRNA("r", "ACGU")
	_, err = a.Concat(r)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// both unchanged
	assert.Equal(t, "AC", a.Residues())
	assert.Equal(t, "GT", b.Residues())
}

func TestEqualityAndOrdering(t *testing.T) {
	a, _ := NewDNA("a", "ACGT")
	b := NewRaw("b", "ACGT")
	c, _ := NewProtein("c", "MK")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, c.Less(a))
	assert.False(t, a.Less(b))
	assert.False(t, b.Less(a))

	seqs := []Sequence{a, c}
	sort.SliceStable(seqs, func(i, j int) bool { return seqs[i].Less(seqs[j]) })
	assert.Equal(t, "c", seqs[0].ID())
}

func TestSearch(t *testing.T) {
	s, _ := NewDNA("s", "AAATGCCC")
	assert.True(t, s.HasSubsequence("atg"))
	assert.False(t, s.HasSubsequence("TTT"))

	ok, err := s.MatchesPattern("ATG[CT]C")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.MatchesPattern("^C")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.MatchesPattern("(")
	assert.Error(t, err)

	assert.True(t, s.MustMatchPattern(regexp.MustCompile("C{3}$")))
}

func TestSliceAndAt(t *testing.T) {
	s, _ := NewRNA("s", "AUGC")
	assert.Equal(t, byte('U'), s.At(1))
	sub := s.Slice(1, 3)
	assert.Equal(t, "UG", sub.Residues())
	assert.Equal(t, alphabet.RNA, sub.Variant())
}

func TestString(t *testing.T) {
	s, _ := NewDNA("long", strings.Repeat("A", 45))
	lines := strings.Split(s.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ">long", lines[0])
	assert.Len(t, lines[1], 40)
	assert.Len(t, lines[2], 5)
}

func TestLenCountsCharacters(t *testing.T) {
	s := NewRaw("x", "ÅÅ")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "ÅÅ", s.Residues())

	short := NewRaw("s", "ACG")
	assert.True(t, s.Less(short))
}

func TestUppercaseKeepsNonASCII(t *testing.T) {
	s := NewRaw("y", "ac\xffgt")
	assert.Equal(t, "AC\xffGT", s.Residues())
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, ">y\nAC\xffGT", s.String())

	_, err := NewDNA("z", "acgté")
	var ire *alphabet.InvalidResidueError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, 'é', ire.Char)
	assert.Equal(t, 4, ire.Pos)
	assert.EqualError(t, err, "residue 'é' at position 4 is not in the DNA Sequence alphabet")
}
