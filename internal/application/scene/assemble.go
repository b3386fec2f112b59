package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/geometry"
	"github.com/turtacn/molscene/internal/domain/molecule"
	"github.com/turtacn/molscene/pkg/types/common"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

// assembler turns a validated Molecule into a render-ready Scene.
type assembler struct {
	opts Options
	fov  float64 // radians
}

func newAssembler(opts Options) (*assembler, error) {
	fov, err := fovRadians(opts.FOVDegrees)
	if err != nil {
		return nil, err
	}
	return &assembler{opts: opts, fov: fov}, nil
}

func (a *assembler) assemble(m *molecule.Molecule, source scenetypes.Source) (*scenetypes.Scene, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	s := &scenetypes.Scene{
		ID:           common.NewID(),
		Name:         m.Name(),
		Formula:      m.Formula(),
		Source:       source,
		Atoms:        make([]scenetypes.Atom, 0, m.AtomCount()),
		Bonds:        make([]scenetypes.Bond, 0, m.BondCount()),
		Framing:      a.opts.Framing.String(),
		Render:       string(a.opts.Render),
		BondDiameter: a.opts.BondDiameter,
		CreatedAt:    common.NewTimestamp(),
	}
	if a.opts.Framing == geometry.FramingFOV {
		s.FOVDegrees = a.opts.FOVDegrees
	}

	radius := a.opts.Render.atomScale()
	for _, atom := range m.Atoms() {
		s.Atoms = append(s.Atoms, scenetypes.Atom{
			ID:       atom.ID,
			Element:  atom.Element.Symbol(),
			Position: vec(atom.Position),
			Color:    atom.Element.Color().Hex(),
			Radius:   radius,
			VdW:      atom.Element.VdWRadius(),
			Label:    atom.Name,
			Tooltip:  tooltip(atom, m.Name()),
		})
	}

	for _, b := range m.Bonds() {
		p1, p2, err := m.Endpoints(b)
		if err != nil {
			return nil, err
		}
		s.Bonds = append(s.Bonds, scenetypes.Bond{
			ID:       b.ID,
			Atom1:    b.Atom1,
			Atom2:    b.Atom2,
			Kind:     b.Kind,
			Segments: a.segments(b, p1, p2),
		})
	}

	bb := geometry.ForMolecule(m)
	if bb.Empty() {
		return s, nil
	}
	distance := geometry.Distance(bb, a.fov, a.opts.Framing)
	s.BoundingBox = &scenetypes.BoundingBox{
		Min:      vec(bb.Min()),
		Max:      vec(bb.Max()),
		Diagonal: bb.Diagonal(),
	}
	s.Center = vec(bb.Center())
	s.CameraDistance = distance
	s.CameraPosition = vec(geometry.CameraPosition(bb, distance))
	return s, nil
}

func (a *assembler) segments(b molecule.Bond, p1, p2 mgl64.Vec3) []scenetypes.Segment {
	if !b.IsDouble() {
		return []scenetypes.Segment{{Start: vec(p1), End: vec(p2)}}
	}
	s1, s2 := geometry.DoubleBondOffset(p1, p2, a.opts.DoubleBondSeparation)
	return []scenetypes.Segment{
		{Start: vec(s1.Start), End: vec(s1.End)},
		{Start: vec(s2.Start), End: vec(s2.End)},
	}
}

func tooltip(a molecule.Atom, molName string) string {
	return fmt.Sprintf("Id: %d,\nname: %s,\npos: [%g, %g, %g],\ntype: %s,\nmol name: %s",
		a.ID, a.Name, a.Position.X(), a.Position.Y(), a.Position.Z(), a.Type, molName)
}

func vec(v mgl64.Vec3) scenetypes.Vec3 {
	return scenetypes.Vec3{v[0], v[1], v[2]}
}
