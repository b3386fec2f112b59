// Package molecule holds the atom/bond graph produced by the MOL2 parser and
// by the alkane builder.  A Molecule is immutable once constructed: New copies
// its inputs and every accessor returns copies, so callers own what they get.
package molecule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/element"
	"github.com/turtacn/molscene/pkg/errors"
)

// Atom is a single atom record.  ID is 1-based and unique within a Molecule.
type Atom struct {
	ID        int
	Name      string
	Position  mgl64.Vec3
	Element   element.Element
	Type      string // SYBYL type, e.g. "C.3"
	BondCount int
	Residue   string
}

// Bond connects two atoms by id.  Kind is the raw MOL2 bond type token
// ("1", "2", "3", "ar", "am", ...).
type Bond struct {
	ID    int
	Atom1 int
	Atom2 int
	Kind  string
}

// IsDouble reports whether the bond is drawn as two parallel sticks.
func (b Bond) IsDouble() bool {
	return b.Kind == "2" || b.Kind == "ar"
}

// Molecule is a named atom/bond graph.
type Molecule struct {
	name  string
	atoms []Atom
	bonds []Bond
	index map[int]int // atom id -> position in atoms
}

// New builds a Molecule from copies of atoms and bonds.  No topology checks
// are made here; see Validate.
func New(name string, atoms []Atom, bonds []Bond) *Molecule {
	m := &Molecule{
		name:  name,
		atoms: append([]Atom(nil), atoms...),
		bonds: append([]Bond(nil), bonds...),
		index: make(map[int]int, len(atoms)),
	}
	for i, a := range m.atoms {
		if _, dup := m.index[a.ID]; !dup {
			m.index[a.ID] = i
		}
	}
	return m
}

// Name returns the molecule name.
func (m *Molecule) Name() string { return m.name }

// Atoms returns a copy of the atoms in declaration order.
func (m *Molecule) Atoms() []Atom { return append([]Atom(nil), m.atoms...) }

// Bonds returns a copy of the bonds in declaration order.
func (m *Molecule) Bonds() []Bond { return append([]Bond(nil), m.bonds...) }

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int { return len(m.bonds) }

// Atom looks an atom up by id.
func (m *Molecule) Atom(id int) (Atom, bool) {
	i, ok := m.index[id]
	if !ok {
		return Atom{}, false
	}
	return m.atoms[i], true
}

// Positions returns the atom positions in declaration order.
func (m *Molecule) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.atoms))
	for i, a := range m.atoms {
		out[i] = a.Position
	}
	return out
}

// Endpoints resolves a bond's atom positions by id.
func (m *Molecule) Endpoints(b Bond) (mgl64.Vec3, mgl64.Vec3, error) {
	a1, ok1 := m.Atom(b.Atom1)
	a2, ok2 := m.Atom(b.Atom2)
	if !ok1 || !ok2 {
		return mgl64.Vec3{}, mgl64.Vec3{}, errors.New(errors.ErrCodeInvalidTopology, "bond references unknown atom").
			WithDetail(fmt.Sprintf("bond=%d atom1=%d atom2=%d", b.ID, b.Atom1, b.Atom2))
	}
	return a1.Position, a2.Position, nil
}

// Formula returns a Hill-order formula such as "C2H6": carbon, then
// hydrogen, then the rest alphabetically.  Without carbon everything is
// alphabetical.
func (m *Molecule) Formula() string {
	counts := make(map[element.Element]int)
	for _, a := range m.atoms {
		counts[a.Element]++
	}

	var order []element.Element
	if counts[element.C] > 0 {
		order = append(order, element.C, element.H)
	}
	var rest []element.Element
	for e := range counts {
		if counts[element.C] > 0 && (e == element.C || e == element.H) {
			continue
		}
		rest = append(rest, e)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Symbol() < rest[j].Symbol() })
	order = append(order, rest...)

	var sb strings.Builder
	for _, e := range order {
		switch n := counts[e]; {
		case n == 1:
			sb.WriteString(e.Symbol())
		case n > 1:
			fmt.Fprintf(&sb, "%s%d", e.Symbol(), n)
		}
	}
	return sb.String()
}

// Validate checks the graph invariants the parser does not enforce: atom ids
// are unique, every bond endpoint exists and no bond is a self-loop.
func (m *Molecule) Validate() error {
	seen := make(map[int]struct{}, len(m.atoms))
	for _, a := range m.atoms {
		if _, dup := seen[a.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTopology, "duplicate atom id").
				WithDetail(fmt.Sprintf("atom=%d", a.ID))
		}
		seen[a.ID] = struct{}{}
	}
	for _, b := range m.bonds {
		if b.Atom1 == b.Atom2 {
			return errors.New(errors.ErrCodeInvalidTopology, "bond connects an atom to itself").
				WithDetail(fmt.Sprintf("bond=%d atom=%d", b.ID, b.Atom1))
		}
		if _, _, err := m.Endpoints(b); err != nil {
			return err
		}
	}
	return nil
}
