// core/barcode/types.go
package barcode

import (
	"fmt"
	"strings"
)

// Location is where a barcode is expected on the read.
type Location int

const (
	Unknown Location = iota
	FivePrime
	ThreePrime
)

// Code is the short form used in categories and configuration files.
func (l Location) Code() string {
	switch l {
	case FivePrime:
		return "5"
	case ThreePrime:
		return "3"
	default:
		return "UNK"
	}
}

func (l Location) String() string { return l.Code() }

// Located reports whether l contributes a location code to categories.
func (l Location) Located() bool { return l == FivePrime || l == ThreePrime }

// ParseLocation accepts "5", "3", "UNK" (and a few spelled-out aliases).
func ParseLocation(s string) (Location, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNK", "UNKNOWN":
		return Unknown, nil
	case "5", "5'", "FIVE_PRIME":
		return FivePrime, nil
	case "3", "3'", "THREE_PRIME":
		return ThreePrime, nil
	}
	return Unknown, fmt.Errorf("invalid barcode location %q (want 5, 3 or UNK)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) { return []byte(l.Code()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(b []byte) error {
	v, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Orientation is the strand a barcode was found on.
type Orientation int

const (
	Forward Orientation = iota
	ReverseComplement
)

// Code returns "FR" or "RC".
func (o Orientation) Code() string {
	if o == ReverseComplement {
		return "RC"
	}
	return "FR"
}

func (o Orientation) String() string { return o.Code() }

// Orientations lists both orientations in search order.
var Orientations = [2]Orientation{Forward, ReverseComplement}
