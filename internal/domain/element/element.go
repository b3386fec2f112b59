// Package element is the static table of chemical elements molscene knows how
// to draw: symbol, display colour and van der Waals radius.
package element

import (
	"fmt"
	"strings"

	"github.com/turtacn/molscene/pkg/errors"
)

// Element identifies a chemical element supported by the viewer.
type Element int

const (
	H Element = iota
	C
	N
	O
	F
	P
	S
	Ca
)

// RGBA is a linear colour with components in [0, 1].
type RGBA struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Hex returns the colour as "#rrggbb", alpha dropped.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

type properties struct {
	symbol string
	color  RGBA
	radius float64
}

// table is indexed by Element.
var table = [...]properties{
	H:  {symbol: "H", color: RGBA{1, 1, 1, 1}, radius: 1.20},
	C:  {symbol: "C", color: RGBA{0, 0, 0, 1}, radius: 1.70},
	N:  {symbol: "N", color: RGBA{0, 1, 0, 1}, radius: 1.55},
	O:  {symbol: "O", color: RGBA{1, 0, 0, 1}, radius: 1.52},
	F:  {symbol: "F", color: RGBA{1, 0, 1, 1}, radius: 1.47},
	P:  {symbol: "P", color: RGBA{1, 0.65, 0, 1}, radius: 1.80},
	S:  {symbol: "S", color: RGBA{1, 1, 0, 1}, radius: 1.80},
	Ca: {symbol: "Ca", color: RGBA{0.88, 1, 1, 1}, radius: 2.31},
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(table))
	for i, p := range table {
		m[p.symbol] = Element(i)
	}
	return m
}()

// Parse maps an element symbol to an Element.  Canonical casing ("Ca") is
// tried first, then the all-caps form some SYBYL writers emit ("CA").
func Parse(symbol string) (Element, error) {
	if e, ok := bySymbol[symbol]; ok {
		return e, nil
	}
	for e, p := range table {
		if strings.ToUpper(p.symbol) == symbol {
			return Element(e), nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownElementSymbol, "unknown element symbol").
		WithDetail(fmt.Sprintf("symbol=%q", symbol))
}

// All returns every supported element in table order.
func All() []Element {
	out := make([]Element, len(table))
	for i := range table {
		out[i] = Element(i)
	}
	return out
}

// Valid reports whether e is in the table.
func (e Element) Valid() bool {
	return e >= 0 && int(e) < len(table)
}

// Symbol returns the canonical element symbol, or "?" for an invalid value.
func (e Element) Symbol() string {
	if !e.Valid() {
		return "?"
	}
	return table[e].symbol
}

func (e Element) String() string { return e.Symbol() }

// Color returns the display colour.
func (e Element) Color() RGBA {
	if !e.Valid() {
		return RGBA{0.5, 0.5, 0.5, 1}
	}
	return table[e].color
}

// VdWRadius returns the van der Waals radius in ångström.
func (e Element) VdWRadius() float64 {
	if !e.Valid() {
		return 0
	}
	return table[e].radius
}

// MarshalText encodes the element as its symbol.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, errors.Newf(errors.ErrCodeUnknownElementSymbol, "element %d out of range", int(e))
	}
	return []byte(e.Symbol()), nil
}

// UnmarshalText decodes a symbol produced by MarshalText.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
