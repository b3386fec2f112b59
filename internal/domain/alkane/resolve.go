package alkane

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/element"
	"github.com/turtacn/molscene/internal/domain/molecule"
)

// ResolvedAtom is an atom in world coordinates.
type ResolvedAtom struct {
	Element  element.Element
	Position mgl64.Vec3
	Role     Role
	Ref      AtomRef
}

// ResolvedBond joins two resolved atoms by index into Resolved.Atoms.
type ResolvedBond struct {
	Atom1    int
	Atom2    int
	From     mgl64.Vec3
	To       mgl64.Vec3
	Backbone bool
}

// Length returns the world-space bond length.
func (b ResolvedBond) Length() float64 {
	return b.To.Sub(b.From).Len()
}

// Resolved is the flattened world-space geometry of a Tree.
type Resolved struct {
	Atoms []ResolvedAtom
	Bonds []ResolvedBond
}

// WorldTransforms returns the world transform of every frame, indexed like
// t.Frames.
func (t *Tree) WorldTransforms() []Transform {
	world := make([]Transform, len(t.Frames))
	for i, f := range t.Frames {
		if f.Parent < 0 {
			world[i] = f.Local
			continue
		}
		world[i] = Compose(world[f.Parent], f.Local)
	}
	return world
}

// Resolve flattens the tree into world-space atoms and bonds.  Atoms keep
// frame order; backbone bonds come last.
func (t *Tree) Resolve() Resolved {
	if len(t.Frames) == 0 {
		return Resolved{}
	}
	world := t.WorldTransforms()
	index := make(map[AtomRef]int)

	var out Resolved
	for i, f := range t.Frames {
		for j, a := range f.Atoms {
			ref := AtomRef{Frame: i, Index: j}
			index[ref] = len(out.Atoms)
			out.Atoms = append(out.Atoms, ResolvedAtom{
				Element:  a.Element,
				Position: world[i].Apply(a.Local),
				Role:     a.Role,
				Ref:      ref,
			})
		}
	}
	order := make([]int, 0, len(t.Frames))
	for i := 1; i < len(t.Frames); i++ {
		order = append(order, i)
	}
	order = append(order, 0)
	for _, i := range order {
		f := t.Frames[i]
		for _, b := range f.Bonds {
			out.Bonds = append(out.Bonds, ResolvedBond{
				Atom1:    index[b.FromRef],
				Atom2:    index[b.ToRef],
				From:     world[i].Apply(b.From),
				To:       world[i].Apply(b.To),
				Backbone: f.Parent < 0,
			})
		}
	}
	return out
}

// Positions returns every resolved atom position.
func (r Resolved) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(r.Atoms))
	for i, a := range r.Atoms {
		out[i] = a.Position
	}
	return out
}

// CarbonCount counts atoms with RoleCenter.
func (r Resolved) CarbonCount() int {
	n := 0
	for _, a := range r.Atoms {
		if a.Role == RoleCenter {
			n++
		}
	}
	return n
}

// ToMolecule converts the tree into a Molecule with 1-based atom ids in frame
// order, SYBYL types C.3 and H and single bonds.
func (t *Tree) ToMolecule(name string) *molecule.Molecule {
	r := t.Resolve()

	degree := make([]int, len(r.Atoms))
	for _, b := range r.Bonds {
		degree[b.Atom1]++
		degree[b.Atom2]++
	}

	atoms := make([]molecule.Atom, len(r.Atoms))
	var carbons, hydrogens int
	for i, a := range r.Atoms {
		var label, sybyl string
		if a.Element == element.C {
			carbons++
			label, sybyl = fmt.Sprintf("C%d", carbons), "C.3"
		} else {
			hydrogens++
			label, sybyl = fmt.Sprintf("H%d", hydrogens), "H"
		}
		atoms[i] = molecule.Atom{
			ID:        i + 1,
			Name:      label,
			Position:  a.Position,
			Element:   a.Element,
			Type:      sybyl,
			BondCount: degree[i],
			Residue:   "ALK",
		}
	}

	bonds := make([]molecule.Bond, len(r.Bonds))
	for i, b := range r.Bonds {
		bonds[i] = molecule.Bond{ID: i + 1, Atom1: b.Atom1 + 1, Atom2: b.Atom2 + 1, Kind: "1"}
	}
	return molecule.New(name, atoms, bonds)
}
