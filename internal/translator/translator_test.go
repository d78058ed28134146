package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniseq/internal/alphabet"
	"miniseq/internal/seq"
)

func mustDNA(t *testing.T, id, residues string) seq.Sequence {
	t.Helper()
	s, err := seq.NewDNA(id, residues)
	require.NoError(t, err)
	return s
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		residues string
		want     string
	}{
		{"start codon then stop", "ATGAAATAG", "MK"},
		{"trailing partial codon dropped", "ATGAA", "M"},
		{"leading bases skipped", "CCATGGGT", "MG"},
		{"start found off frame", "AATGTTTTGA", "MF"},
		{"alternative start TTG", "TTGAAA", "LK"},
		{"stop right after start", "ATGTAA", "M"},
		{"ambiguous codon", "ATGNNNAAA", "MXK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Translate(mustDNA(t, "id1", tt.residues))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Residues())
			assert.Equal(t, alphabet.Protein, p.Variant())
			assert.Equal(t, "id1", p.ID())
		})
	}
}

func TestTranslateRNA(t *testing.T) {
	r, err := seq.NewRNA("r", "GAUGGCUUAAGC")
	require.NoError(t, err)
	p, err := Translate(r)
	require.NoError(t, err)
	assert.Equal(t, "MA", p.Residues())
}

func TestTranslateNoStartCodon(t *testing.T) {
	_, err := Translate(mustDNA(t, "nostart", "AAACCCGGG"))
	var nsc *NoStartCodonError
	require.ErrorAs(t, err, &nsc)
	assert.Equal(t, "nostart", nsc.ID)

	_, err = Translate(mustDNA(t, "empty", ""))
	require.ErrorAs(t, err, &nsc)
}

func TestTranslateRejectsNonNucleotide(t *testing.T) {
	p, _ := seq.NewProtein("p", "MK")
	_, err := Translate(p)
	assert.ErrorIs(t, err, ErrNotNucleotide)
	_, err = Transcribe(seq.NewRaw("x", "ACGT"))
	assert.ErrorIs(t, err, ErrNotNucleotide)
}

func TestTranscribeRoundTrip(t *testing.T) {
	for _, residues := range []string{"", "ACGT", "TTTT", "GATTACA-N", "NNNN"} {
		d := mustDNA(t, "d", residues)
		r, err := Transcribe(d)
		require.NoError(t, err)
		assert.Equal(t, alphabet.RNA, r.Variant())
		assert.NotContains(t, r.Residues(), "T")

		back, err := Transcribe(r)
		require.NoError(t, err)
		assert.Equal(t, alphabet.DNA, back.Variant())
		assert.Equal(t, d.Residues(), back.Residues())
		assert.Equal(t, d.ID(), back.ID())
	}
}

func TestReverseComplement(t *testing.T) {
	rc, err := ReverseComplement(mustDNA(t, "d", "AACGTN-"))
	require.NoError(t, err)
	assert.Equal(t, "-NACGTT", rc.Residues())
	assert.Equal(t, alphabet.DNA, rc.Variant())

	r, _ := seq.NewRNA("r", "AUGC")
	rc, err = ReverseComplement(r)
	require.NoError(t, err)
	assert.Equal(t, "GCAU", rc.Residues())
}

func TestTranslateAllContinuesAfterFailure(t *testing.T) {
	seqs := []seq.Sequence{
		mustDNA(t, "a", "ATGAAATAG"),
		mustDNA(t, "b", "CCCCCC"),
		mustDNA(t, "c", "ATGGGG"),
	}
	res := TranslateAll(seqs)
	require.Len(t, res, 3)
	assert.NoError(t, res[0].Err)
	assert.Equal(t, "MK", res[0].Protein.Residues())
	var nsc *NoStartCodonError
	assert.ErrorAs(t, res[1].Err, &nsc)
	assert.Equal(t, 1, res[1].Index)
	assert.NoError(t, res[2].Err)
	assert.Equal(t, "MG", res[2].Protein.Residues())
}
