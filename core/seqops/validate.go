// core/seqops/validate.go
package seqops

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidAlphabet reports a character outside A, C, G, T, N.
	ErrInvalidAlphabet = errors.New("invalid nucleotide")
	// ErrLengthMismatch reports a Hamming distance over unequal lengths.
	ErrLengthMismatch = errors.New("sequences must have the same length")
)

// Normalize removes whitespace/quotes and uppercases bases.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// Validate returns the normalized sequence, or an error if it is empty or
// contains anything but A, C, G, T, N.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return s, fmt.Errorf("empty sequence")
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return "", fmt.Errorf("%w: %q at %d; allowed: A C G T N", ErrInvalidAlphabet, s[i], i+1)
		}
	}
	return s, nil
}

// ToUpper uppercases ASCII letters of seq in place and returns it.
func ToUpper(seq []byte) []byte {
	for i, c := range seq {
		if c >= 'a' && c <= 'z' {
			seq[i] = c - ('a' - 'A')
		}
	}
	return seq
}

// HammingDistance counts positions where a and b differ. Comparison is
// ordinal; callers normalize case.
func HammingDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}
