// Package translator converts classified nucleotide sequences: transcription
// between DNA and RNA, reverse complement, and translation to protein using
// the codon tables of the codon package.
package translator

import (
	"errors"
	"fmt"
	"strings"

	"miniseq/internal/alphabet"
	"miniseq/internal/codon"
	"miniseq/internal/seq"
)

// ErrNotNucleotide is returned when a protein or untyped sequence is passed
// to an operation that needs DNA or RNA.
var ErrNotNucleotide = errors.New("sequence is not a nucleotide sequence")

// NoStartCodonError is returned by Translate when no start codon exists.
type NoStartCodonError struct {
	ID string
}

func (e *NoStartCodonError) Error() string {
	return fmt.Sprintf("nucleotide sequence %s doesn't have a start codon", e.ID)
}

func notNucleotide(s seq.Sequence) error {
	return fmt.Errorf("%w: %s is a %s", ErrNotNucleotide, s.ID(), s.Variant().Label())
}

// Transcribe maps DNA to RNA (T to U) and RNA back to DNA (U to T).
func Transcribe(s seq.Sequence) (seq.Sequence, error) {
	switch s.Variant() {
	case alphabet.DNA:
		return seq.NewRNA(s.ID(), strings.ReplaceAll(s.Residues(), "T", "U"))
	case alphabet.RNA:
		return seq.NewDNA(s.ID(), strings.ReplaceAll(s.Residues(), "U", "T"))
	case alphabet.Protein, alphabet.Sequence:
		return seq.Sequence{}, notNucleotide(s)
	}
	return seq.Sequence{}, notNucleotide(s)
}

// ReverseComplement returns the reverse complement of a DNA or RNA sequence,
// keeping its variant.
func ReverseComplement(s seq.Sequence) (seq.Sequence, error) {
	if !s.Variant().IsNucleotide() {
		return seq.Sequence{}, notNucleotide(s)
	}
	residues := s.Residues()
	n := len(residues)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = codon.Complement(s.Variant(), residues[n-1-i])
	}
	return seq.New(s.ID(), string(out), s.Variant())
}

// startIndex finds the first position whose following three residues form a
// start codon. The search advances one residue at a time.
func startIndex(residues string, tbl *codon.Table) int {
	for i := 0; i+3 <= len(residues); i++ {
		if tbl.IsStart(residues[i : i+3]) {
			return i
		}
	}
	return -1
}

// Translate reads codons from the first start codon up to the first stop
// codon or the end of the sequence. A trailing partial codon is dropped.
// The protein keeps the identifier of s.
func Translate(s seq.Sequence) (seq.Sequence, error) {
	tbl, ok := codon.ForVariant(s.Variant())
	if !ok {
		return seq.Sequence{}, notNucleotide(s)
	}
	residues := s.Residues()
	start := startIndex(residues, tbl)
	if start < 0 {
		return seq.Sequence{}, &NoStartCodonError{ID: s.ID()}
	}

	var prot strings.Builder
	prot.Grow((len(residues) - start) / 3)
	for j := start; j+3 <= len(residues); j += 3 {
		c := residues[j : j+3]
		if tbl.IsStop(c) {
			break
		}
		aa, ok := tbl.AminoAcid(c)
		if !ok {
			// codons with N or gaps have no amino acid
			aa = 'X'
		}
		prot.WriteByte(aa)
	}
	return seq.NewProtein(s.ID(), prot.String())
}

// Result is the outcome of translating one sequence of a batch. Index is the
// position of the input so callers can map results back.
type Result struct {
	Index   int
	Protein seq.Sequence
	Err     error
}

// TranslateAll translates every sequence independently. A failure on one
// sequence is recorded in its Result and does not stop the batch.
func TranslateAll(seqs []seq.Sequence) []Result {
	res := make([]Result, 0, len(seqs))
	for i, s := range seqs {
		p, err := Translate(s)
		res = append(res, Result{Index: i, Protein: p, Err: err})
	}
	return res
}
