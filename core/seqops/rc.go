// core/seqops/rc.go
package seqops

import (
	"fmt"
	"strings"
)

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['N'] = 'N'
	complement['a'] = 'T'
	complement['c'] = 'G'
	complement['g'] = 'C'
	complement['t'] = 'A'
	complement['n'] = 'N'
}

// ReverseComplement returns the uppercase reverse complement of seq.
// Input is accepted in either case; any other character fails with
// ErrInvalidAlphabet.
func ReverseComplement(seq string) (string, error) {
	var b strings.Builder
	b.Grow(len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		c := complement[seq[i]]
		if c == 0 {
			return "", fmt.Errorf("%w: %q at %d", ErrInvalidAlphabet, seq[i], i+1)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
