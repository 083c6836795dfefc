// core/barcode/barcode.go
package barcode

import (
	"bcseq-core/seqops"
)

// Barcode is one configured barcode. It is immutable after New.
type Barcode struct {
	Sequence    string
	Location    Location
	Name        string
	Description string

	rc   string
	fwdB []byte
	rcB  []byte
}

// New validates seq (uppercased, ACGTN only) and derives the reverse
// complement once. An empty name defaults to the sequence.
func New(seq string, loc Location, name, desc string) (Barcode, error) {
	s, err := seqops.Validate(seq)
	if err != nil {
		return Barcode{}, err
	}
	rc, err := seqops.ReverseComplement(s)
	if err != nil {
		return Barcode{}, err
	}
	if name == "" {
		name = s
	}
	return Barcode{
		Sequence:    s,
		Location:    loc,
		Name:        name,
		Description: desc,
		rc:          rc,
		fwdB:        []byte(s),
		rcB:         []byte(rc),
	}, nil
}

// RevComp returns the cached reverse complement of the sequence.
func (b *Barcode) RevComp() string { return b.rc }

// Pattern returns the byte pattern searched for orientation o.
func (b *Barcode) Pattern(o Orientation) []byte {
	if o == ReverseComplement {
		return b.rcB
	}
	return b.fwdB
}
