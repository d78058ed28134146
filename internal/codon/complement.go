package codon

import "miniseq/internal/alphabet"

var (
	dnaComplement = [256]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N', '-': '-'}
	rnaComplement = [256]byte{'A': 'U', 'U': 'A', 'C': 'G', 'G': 'C', 'N': 'N', '-': '-'}
)

// Complement returns the Watson-Crick complement of base for the given
// nucleotide variant. Bases outside the variant's alphabet map to N.
func Complement(v alphabet.Variant, base byte) byte {
	var c byte
	switch v {
	case alphabet.DNA:
		c = dnaComplement[base]
	case alphabet.RNA:
		c = rnaComplement[base]
	case alphabet.Protein, alphabet.Sequence:
		return 'N'
	}
	if c == 0 {
		return 'N'
	}
	return c
}
