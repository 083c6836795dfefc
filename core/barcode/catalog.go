// core/barcode/catalog.go
package barcode

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when no barcodes are configured.
var ErrEmptyCatalog = errors.New("at least one barcode must be provided")

// Catalog is the ordered, immutable list of barcodes for a run.
// Order is significant: first-match classification tries barcodes in it.
type Catalog struct {
	barcodes []Barcode
	single   bool
}

// NewCatalog checks the list and returns it as a catalog. Repeated
// sequences are reported as warnings, not errors.
func NewCatalog(list []Barcode) (*Catalog, []string, error) {
	if len(list) == 0 {
		return nil, nil, ErrEmptyCatalog
	}
	var warns []string
	seen := make(map[string]string, len(list))
	allUnknown := true
	bs := make([]Barcode, len(list))
	for i, b := range list {
		if b.Sequence == "" || b.rc == "" {
			// built by hand rather than through New
			nb, err := New(b.Sequence, b.Location, b.Name, b.Description)
			if err != nil {
				return nil, nil, fmt.Errorf("barcode %d: %w", i+1, err)
			}
			b = nb
		}
		if prev, dup := seen[b.Sequence]; dup {
			warns = append(warns, fmt.Sprintf("duplicate barcode sequence %s (%s, %s)", b.Sequence, prev, b.Name))
		} else {
			seen[b.Sequence] = b.Name
		}
		if b.Location != Unknown {
			allUnknown = false
		}
		bs[i] = b
	}
	return &Catalog{barcodes: bs, single: len(bs) == 1 || allUnknown}, warns, nil
}

// Len returns the number of barcodes.
func (c *Catalog) Len() int { return len(c.barcodes) }

// At returns the i-th barcode in configuration order.
func (c *Catalog) At(i int) *Barcode { return &c.barcodes[i] }

// Barcodes returns a copy of the configured barcodes.
func (c *Catalog) Barcodes() []Barcode {
	out := make([]Barcode, len(c.barcodes))
	copy(out, c.barcodes)
	return out
}

// SingleBarcodeMode is true when the catalog has one entry or no entry
// carries a location. Categories then omit the location code.
func (c *Catalog) SingleBarcodeMode() bool { return c.single }

// Categories lists every category a read can be assigned to, in catalog
// order, ending with "noBarcode".
func (c *Catalog) Categories() []string {
	var out []string
	add := func(s string) {
		for _, x := range out {
			if x == s {
				return
			}
		}
		out = append(out, s)
	}
	for i := range c.barcodes {
		loc := ""
		if !c.single {
			loc = c.barcodes[i].Location.locationCode()
		}
		for _, o := range Orientations {
			add("barcode" + loc + "_orient" + o.Code())
		}
	}
	add(NoBarcode)
	return out
}

// NoBarcode is the category of reads without a qualifying match.
const NoBarcode = "noBarcode"

// locationCode is the location part of a category: "5", "3" or "".
func (l Location) locationCode() string {
	if l.Located() {
		return l.Code()
	}
	return ""
}
