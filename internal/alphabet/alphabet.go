// Package alphabet defines the sequence variants known to miniseq and the
// fixed residue alphabet attached to each of them.
package alphabet

import (
	"errors"
	"fmt"
	"strings"
)

// Variant is the classified kind of a sequence. The set is closed: every
// switch over a Variant in this module handles all four values.
type Variant int

const (
	// Sequence is the untyped fallback. It accepts any residue content.
	Sequence Variant = iota
	Protein
	DNA
	RNA
)

// Residue letters per variant.
const (
	ProteinLetters = "ACDEFGHIKLMNPQRSTVNWY-X"
	DNALetters     = "GATCN-"
	RNALetters     = "GAUCN-"
)

// ErrUnknownVariant is returned by ParseVariant for names outside
// {protein, dna, rna, sequence}.
var ErrUnknownVariant = errors.New("can only force 'protein', 'dna', 'rna' or 'sequence'")

// Alphabet is an immutable byte membership table.
type Alphabet struct {
	letters string
	member  [256]bool
}

func newAlphabet(letters string) *Alphabet {
	a := &Alphabet{letters: letters}
	for i := 0; i < len(letters); i++ {
		a.member[letters[i]] = true
	}
	return a
}

// Contains reports whether c belongs to the alphabet.
func (a *Alphabet) Contains(c byte) bool { return a.member[c] }

// Letters returns the alphabet as a string, in declaration order.
func (a *Alphabet) Letters() string { return a.letters }

var (
	proteinAlphabet = newAlphabet(ProteinLetters)
	dnaAlphabet     = newAlphabet(DNALetters)
	rnaAlphabet     = newAlphabet(RNALetters)
)

// Variants lists every variant in declaration order.
var Variants = []Variant{Sequence, Protein, DNA, RNA}

// ParseVariant maps a force name (case-insensitive) to its Variant.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequence":
		return Sequence, nil
	case "protein":
		return Protein, nil
	case "dna":
		return DNA, nil
	case "rna":
		return RNA, nil
	}
	return Sequence, fmt.Errorf("%w: got %q", ErrUnknownVariant, name)
}

// String returns the force name of the variant.
func (v Variant) String() string {
	switch v {
	case Sequence:
		return "sequence"
	case Protein:
		return "protein"
	case DNA:
		return "dna"
	case RNA:
		return "rna"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Label is the human readable type name used in summaries.
func (v Variant) Label() string {
	switch v {
	case Sequence:
		return "Sequence"
	case Protein:
		return "Protein Sequence"
	case DNA:
		return "DNA Sequence"
	case RNA:
		return "RNA Sequence"
	}
	return v.String()
}

// IsNucleotide reports whether v is DNA or RNA.
func (v Variant) IsNucleotide() bool {
	switch v {
	case DNA, RNA:
		return true
	case Sequence, Protein:
		return false
	}
	return false
}

// Alphabet returns the residue alphabet of v, or nil for the untyped
// Sequence variant.
func (v Variant) Alphabet() *Alphabet {
	switch v {
	case Protein:
		return proteinAlphabet
	case DNA:
		return dnaAlphabet
	case RNA:
		return rnaAlphabet
	case Sequence:
		return nil
	}
	return nil
}

// MarshalText encodes the variant by its force name.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
