// Package codon holds the standard genetic code for DNA and RNA along with
// the start and stop codon sets used by translation.
package codon

import (
	"strings"

	"miniseq/internal/alphabet"
)

// Table maps codons to one-letter amino acid codes.
type Table struct {
	aminoAcids map[string]byte
	start      map[string]bool
	stop       map[string]bool
}

// AminoAcid looks up the amino acid for codon.
func (t *Table) AminoAcid(codon string) (byte, bool) {
	aa, ok := t.aminoAcids[codon]
	return aa, ok
}

// IsStart reports whether codon begins translation.
func (t *Table) IsStart(codon string) bool { return t.start[codon] }

// IsStop reports whether codon ends translation.
func (t *Table) IsStop(codon string) bool { return t.stop[codon] }

// Len is the number of sense codons in the table.
func (t *Table) Len() int { return len(t.aminoAcids) }

var dnaCodons = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y',
	"TGT": 'C', "TGC": 'C', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

var (
	dnaStart = []string{"TTG", "CTG", "ATG"}
	dnaStop  = []string{"TAA", "TAG", "TGA"}
)

// DNATable and RNATable are the process-wide codon tables. The RNA table is
// the DNA table with T replaced by U.
var (
	DNATable = newTable(dnaCodons, dnaStart, dnaStop, identity)
	RNATable = newTable(dnaCodons, dnaStart, dnaStop, toRNA)
)

func identity(s string) string { return s }

func toRNA(s string) string { return strings.ReplaceAll(s, "T", "U") }

func newTable(codons map[string]byte, start, stop []string, conv func(string) string) *Table {
	t := &Table{
		aminoAcids: make(map[string]byte, len(codons)),
		start:      make(map[string]bool, len(start)),
		stop:       make(map[string]bool, len(stop)),
	}
	for c, aa := range codons {
		t.aminoAcids[conv(c)] = aa
	}
	for _, c := range start {
		t.start[conv(c)] = true
	}
	for _, c := range stop {
		t.stop[conv(c)] = true
	}
	return t
}

// ForVariant returns the codon table of a nucleotide variant.
func ForVariant(v alphabet.Variant) (*Table, bool) {
	switch v {
	case alphabet.DNA:
		return DNATable, true
	case alphabet.RNA:
		return RNATable, true
	case alphabet.Protein, alphabet.Sequence:
		return nil, false
	}
	return nil, false
}
