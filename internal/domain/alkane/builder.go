// Package alkane synthesises 3D geometry for straight-chain alkanes.
//
// The chain is an all-trans zig-zag.  Each carbon lives in its own frame
// with its hydrogens placed from a shared tetrahedral template, and the
// frames are positioned and rotated so the template lines up in world space.
// Backbone C–C bonds are recorded on the root frame because their length is
// only known once both carbon frames are placed.
package alkane

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/element"
)

// DefaultBondLength is the C–H and backbone spacing used by the viewer.
const DefaultBondLength = 0.6

// TetrahedralAngle is the H–C–H angle in degrees.
const TetrahedralAngle = 109.5

// Options tunes Build.
type Options struct {
	// BondLength scales every placement.  Zero or negative means
	// DefaultBondLength.
	BondLength float64
}

func (o Options) bondLength() float64 {
	if o.BondLength <= 0 {
		return DefaultBondLength
	}
	return o.BondLength
}

// Role distinguishes the carbon at a frame's origin from its hydrogens.
type Role int

const (
	RoleCenter Role = iota
	RoleHydrogen
)

func (r Role) String() string {
	if r == RoleCenter {
		return "center"
	}
	return "hydrogen"
}

// AtomPlacement is an atom in its frame's local coordinates.
type AtomPlacement struct {
	Element element.Element
	Local   mgl64.Vec3
	Role    Role
}

// AtomRef addresses an atom placement by frame and index within the frame.
type AtomRef struct {
	Frame int
	Index int
}

// BondPlacement is a bond in its owning frame's local coordinates.
type BondPlacement struct {
	From    mgl64.Vec3
	To      mgl64.Vec3
	FromRef AtomRef
	ToRef   AtomRef
}

// Length returns the local-space bond length.
func (b BondPlacement) Length() float64 {
	return b.To.Sub(b.From).Len()
}

// Frame is one node of the geometry tree.
type Frame struct {
	ID       int
	Parent   int // -1 for the root
	Name     string
	Local    Transform
	Atoms    []AtomPlacement
	Bonds    []BondPlacement
	Children []int
}

// Tree is an arena of frames; index 0 is the root and parents always precede
// their children.
type Tree struct {
	Frames     []Frame
	Carbons    uint
	BondLength float64
}

// Root returns the root frame.
func (t *Tree) Root() *Frame { return &t.Frames[0] }

// hydrogenTemplate holds the four tetrahedral directions scaled by the bond
// length, in a carbon's local frame.
type hydrogenTemplate struct {
	backRight mgl64.Vec3
	backLeft  mgl64.Vec3
	front     mgl64.Vec3
	up        mgl64.Vec3
}

func newHydrogenTemplate(l float64) hydrogenTemplate {
	y := mgl64.Vec3{0, 1, 0}
	tilt := rotX(mgl64.DegToRad(TetrahedralAngle))
	spin := mgl64.DegToRad(120)
	return hydrogenTemplate{
		backRight: rotY(spin).Mul(tilt).Rotate(y).Mul(l),
		backLeft:  rotY(-spin).Mul(tilt).Rotate(y).Mul(l),
		front:     tilt.Rotate(y).Mul(l),
		up:        y.Mul(l),
	}
}

// Build generates the frame tree for a linear alkane with the given number of
// carbons.  Zero carbons yields a bare root.
func Build(carbons uint, opts Options) *Tree {
	l := opts.bondLength()
	b := &builder{
		tree: &Tree{Carbons: carbons, BondLength: l},
		tmpl: newHydrogenTemplate(l),
	}
	b.tree.Frames = append(b.tree.Frames, Frame{ID: 0, Parent: -1, Name: "molecule", Local: Identity()})

	switch {
	case carbons == 0:
		return b.tree
	case carbons == 1:
		b.outerCarbon("first_carbon", Transform{Rotation: rotZ(0)}, true)
		return b.tree
	}

	inner := int(carbons - 2)
	chain := make([]int, 0, carbons)

	chain = append(chain, b.outerCarbon("first_carbon",
		Transform{Rotation: rotZ(mgl64.DegToRad(-45))}, false))

	for i := 0; i < inner; i++ {
		even := i%2 == 0
		t := Transform{Translation: mgl64.Vec3{l * float64(i+1), 0, 0}}
		if even {
			t.Translation[1] = l
			t.Rotation = eulerXYZ(math.Pi, -math.Pi/4, 0)
		} else {
			t.Rotation = eulerXYZ(0, mgl64.DegToRad(135), 0)
		}
		chain = append(chain, b.innerCarbon(fmt.Sprintf("inner_carbon_%d", i), t))
	}

	last := Transform{Translation: mgl64.Vec3{float64(inner+1) * l, 0, 0}}
	if inner%2 == 0 {
		last.Translation[1] = l
		last.Rotation = rotZ(mgl64.DegToRad(135))
	} else {
		last.Rotation = rotZ(mgl64.DegToRad(45))
	}
	chain = append(chain, b.outerCarbon("last_carbon", last, false))

	root := b.tree.Root()
	for i := 1; i < len(chain); i++ {
		from, to := b.tree.Frames[chain[i-1]], b.tree.Frames[chain[i]]
		root.Bonds = append(root.Bonds, BondPlacement{
			From:    from.Local.Translation,
			To:      to.Local.Translation,
			FromRef: AtomRef{Frame: from.ID, Index: 0},
			ToRef:   AtomRef{Frame: to.ID, Index: 0},
		})
	}
	return b.tree
}

type builder struct {
	tree *Tree
	tmpl hydrogenTemplate
}

// carbonFrame appends a child of the root with a carbon at its origin.
func (b *builder) carbonFrame(name string, local Transform) *Frame {
	id := len(b.tree.Frames)
	b.tree.Frames = append(b.tree.Frames, Frame{
		ID:     id,
		Parent: 0,
		Name:   name,
		Local:  local,
		Atoms:  []AtomPlacement{{Element: element.C, Role: RoleCenter}},
	})
	root := b.tree.Root()
	root.Children = append(root.Children, id)
	return &b.tree.Frames[id]
}

func (b *builder) outerCarbon(name string, local Transform, single bool) int {
	f := b.carbonFrame(name, local)
	hs := []mgl64.Vec3{b.tmpl.backRight, b.tmpl.backLeft, b.tmpl.front}
	if single {
		hs = append(hs, b.tmpl.up)
	}
	addHydrogens(f, hs)
	return f.ID
}

func (b *builder) innerCarbon(name string, local Transform) int {
	f := b.carbonFrame(name, local)
	addHydrogens(f, []mgl64.Vec3{b.tmpl.backRight, b.tmpl.backLeft})
	return f.ID
}

func addHydrogens(f *Frame, positions []mgl64.Vec3) {
	for _, p := range positions {
		f.Atoms = append(f.Atoms, AtomPlacement{Element: element.H, Local: p, Role: RoleHydrogen})
		f.Bonds = append(f.Bonds, BondPlacement{
			To:      p,
			FromRef: AtomRef{Frame: f.ID, Index: 0},
			ToRef:   AtomRef{Frame: f.ID, Index: len(f.Atoms) - 1},
		})
	}
}

// HydrogenCount is the number of hydrogens in a linear alkane of n carbons.
func HydrogenCount(n uint) uint {
	switch n {
	case 0:
		return 0
	case 1:
		return 4
	default:
		return 2*n + 2
	}
}

// AtomCount is carbons plus hydrogens.
func AtomCount(n uint) uint { return n + HydrogenCount(n) }

// BondCount is the backbone bonds plus one bond per hydrogen.
func BondCount(n uint) uint {
	if n == 0 {
		return 0
	}
	return (n - 1) + HydrogenCount(n)
}

var alkaneNames = [...]string{
	1: "methane", 2: "ethane", 3: "propane", 4: "butane", 5: "pentane",
	6: "hexane", 7: "heptane", 8: "octane", 9: "nonane", 10: "decane",
	11: "undecane", 12: "dodecane",
}

// Name returns the IUPAC name for n <= 12 and the molecular formula beyond.
func Name(n uint) string {
	if n > 0 && int(n) < len(alkaneNames) {
		return alkaneNames[n]
	}
	if n == 0 {
		return "empty"
	}
	return fmt.Sprintf("C%dH%d", n, HydrogenCount(n))
}
