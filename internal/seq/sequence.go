// Package seq models typed biological sequences. A Sequence is an immutable
// value: an identifier, an uppercased residue string and the variant whose
// alphabet the residues were validated against.
package seq

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"miniseq/internal/alphabet"
)

// ErrTypeMismatch is returned when concatenating sequences of different
// variants.
var ErrTypeMismatch = errors.New("can't concatenate sequences of different variants")

// displayWidth is the wrap width of String.
const displayWidth = 40

// Sequence is a classified record.
type Sequence struct {
	id       string
	residues string
	variant  alphabet.Variant
}

// New uppercases residues and validates them against v's alphabet.
func New(id, residues string, v alphabet.Variant) (Sequence, error) {
	residues = alphabet.Upper(residues)
	if err := alphabet.Validate(residues, v); err != nil {
		return Sequence{}, err
	}
	return Sequence{id: id, residues: residues, variant: v}, nil
}

// NewProtein builds a validated Protein sequence.
func NewProtein(id, residues string) (Sequence, error) { return New(id, residues, alphabet.Protein) }

// NewDNA builds a validated DNA sequence.
func NewDNA(id, residues string) (Sequence, error) { return New(id, residues, alphabet.DNA) }

// NewRNA builds a validated RNA sequence.
func NewRNA(id, residues string) (Sequence, error) { return New(id, residues, alphabet.RNA) }

// NewRaw builds an untyped sequence. No alphabet check is performed.
func NewRaw(id, residues string) Sequence {
	return Sequence{id: id, residues: alphabet.Upper(residues), variant: alphabet.Sequence}
}

func (s Sequence) ID() string                { return s.id }
func (s Sequence) Residues() string          { return s.residues }
func (s Sequence) Variant() alphabet.Variant { return s.variant }

// Len is the number of characters in the residues.
func (s Sequence) Len() int { return utf8.RuneCountInString(s.residues) }

// At returns the byte at offset i. Typed variants are ASCII, so offsets and
// character positions coincide for them.
func (s Sequence) At(i int) byte { return s.residues[i] }

// Slice returns the residue bytes [i, j) as a sequence of the same variant.
// Every residue already passed validation, so no check is repeated.
func (s Sequence) Slice(i, j int) Sequence {
	return Sequence{id: s.id, residues: s.residues[i:j], variant: s.variant}
}

// HasSubsequence reports whether needle occurs in the residues. The needle is
// compared case-insensitively since residues are stored uppercase.
func (s Sequence) HasSubsequence(needle string) bool {
	return strings.Contains(s.residues, alphabet.Upper(needle))
}

// MatchesPattern compiles pattern and searches the residues with it.
func (s Sequence) MatchesPattern(pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re.MatchString(s.residues), nil
}

// MustMatchPattern searches the residues with an already compiled pattern.
func (s Sequence) MustMatchPattern(re *regexp.Regexp) bool {
	return re.MatchString(s.residues)
}

// Concat joins two sequences of the same variant, concatenating both the
// identifiers and the residues.
func (s Sequence) Concat(other Sequence) (Sequence, error) {
	if s.variant != other.variant {
		return Sequence{}, fmt.Errorf("%w: %s + %s", ErrTypeMismatch, s.variant.Label(), other.variant.Label())
	}
	return Sequence{
		id:       s.id + other.id,
		residues: s.residues + other.residues,
		variant:  s.variant,
	}, nil
}

// Equal compares residue content only.
func (s Sequence) Equal(other Sequence) bool { return s.residues == other.residues }

// Less orders by length only; equal lengths are not further ordered.
func (s Sequence) Less(other Sequence) bool { return s.Len() < other.Len() }

// String renders the sequence as a FASTA entry wrapped at 40 columns,
// without a trailing newline.
func (s Sequence) String() string {
	var b strings.Builder
	b.WriteString(">")
	b.WriteString(s.id)
	col := 0
	for i := 0; i < len(s.residues); col++ {
		if col%displayWidth == 0 {
			b.WriteByte('\n')
		}
		// copy raw bytes so invalid UTF-8 survives unchanged
		_, size := utf8.DecodeRuneInString(s.residues[i:])
		b.WriteString(s.residues[i : i+size])
		i += size
	}
	if len(s.residues) == 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
