package collection

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniseq/internal/alphabet"
	"miniseq/internal/parser"
	"miniseq/internal/seq"
)

const sample = `>dna1
ACGTACGTAC
>rna1
ACGU
>prot1
MKVLAAGG
>dna2
GGG
`

func load(t *testing.T) *Collection {
	t.Helper()
	c, err := Read(strings.NewReader(sample), parser.WithLogger(log.New(&bytes.Buffer{})))
	require.NoError(t, err)
	return c
}

func TestTypesAndLengths(t *testing.T) {
	c := load(t)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, map[string]int{"DNA Sequence": 2, "RNA Sequence": 1, "Protein Sequence": 1}, c.Types())
	assert.Equal(t, []int{10, 4, 8, 3}, c.Lengths())
	assert.InDelta(t, 6.25, c.AverageLength(), 1e-9)
	assert.Zero(t, New().AverageLength())
}

func TestFilters(t *testing.T) {
	c := load(t)
	byID := c.FilterByID("rna1", "dna2", "missing")
	require.Equal(t, 2, byID.Len())
	assert.Equal(t, "rna1", byID.At(0).ID())

	above, err := c.FilterByLength(8, Above)
	require.NoError(t, err)
	assert.Equal(t, 2, above.Len())
	below, err := c.FilterByLength(4, Below)
	require.NoError(t, err)
	assert.Equal(t, 2, below.Len())
	_, err = c.FilterByLength(4, LengthMode("between"))
	assert.ErrorIs(t, err, ErrFilterMode)

	dnaOnly := c.FilterBy(func(s seq.Sequence) bool { return s.Variant() == alphabet.DNA })
	assert.Equal(t, 2, dnaOnly.Len())
	// source collection untouched
	assert.Equal(t, 4, c.Len())
}

func TestSortByLength(t *testing.T) {
	c := load(t)
	c.SortByLength(false)
	assert.Equal(t, []int{3, 4, 8, 10}, c.Lengths())
	c.SortByLength(true)
	assert.Equal(t, []int{10, 8, 4, 3}, c.Lengths())
}

func TestLookupSplitAdd(t *testing.T) {
	c := load(t)
	s, err := c.Lookup("prot1")
	require.NoError(t, err)
	assert.Equal(t, alphabet.Protein, s.Variant())
	_, err = c.Lookup("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	parts := c.Split()
	require.Len(t, parts, 4)
	assert.Equal(t, 1, parts[2].Len())

	parts[0].Add(s)
	assert.Equal(t, 2, parts[0].Len())
	assert.Equal(t, 4, c.Len())
}

func TestSaveAndLoad(t *testing.T) {
	c := load(t)
	path := filepath.Join(t.TempDir(), "out.fasta")
	require.NoError(t, c.Save(path, 4))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ">dna1\nACGT\nACGT\nAC\n>rna1\nACGU\n"))

	back, err := Load(path, parser.WithLogger(log.New(&bytes.Buffer{})))
	require.NoError(t, err)
	assert.Equal(t, c.Lengths(), back.Lengths())
	assert.Equal(t, c.Types(), back.Types())
	assert.Equal(t, path, back.Name)
}

func TestString(t *testing.T) {
	out := load(t).String()
	assert.Contains(t, out, "Num of sequences: 4")
	assert.Contains(t, out, "DNA Sequence : 2")
}

func TestAllIterates(t *testing.T) {
	c := load(t)
	var ids []string
	for _, s := range c.All() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{"dna1", "rna1", "prot1", "dna2"}, ids)
}
