package alphabet

import (
	"fmt"
	"unicode/utf8"
)

// InvalidResidueError reports the first residue that is not part of the
// attempted variant's alphabet. Pos counts characters, not bytes.
type InvalidResidueError struct {
	Char    rune
	Pos     int
	Variant Variant
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("residue %q at position %d is not in the %s alphabet", e.Char, e.Pos, e.Variant.Label())
}

// Contains reports whether c is a legal residue for v.
func Contains(v Variant, c byte) bool {
	a := v.Alphabet()
	if a == nil {
		return true
	}
	return a.Contains(c)
}

// Validate checks every residue against v's alphabet. The empty string is
// valid for every variant, and the untyped Sequence variant accepts anything.
func Validate(residues string, v Variant) error {
	a := v.Alphabet()
	if a == nil {
		return nil
	}
	pos := 0
	for i := 0; i < len(residues); pos++ {
		r, size := utf8.DecodeRuneInString(residues[i:])
		if r >= utf8.RuneSelf || !a.Contains(byte(r)) {
			return &InvalidResidueError{Char: r, Pos: pos, Variant: v}
		}
		i += size
	}
	return nil
}

// Upper uppercases the ASCII letters of s. Every other byte, including
// invalid UTF-8, is kept as is.
func Upper(s string) string {
	i := 0
	for i < len(s) && !('a' <= s[i] && s[i] <= 'z') {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if 'a' <= b[i] && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
