// Package scene defines the render-ready scene descriptor molscene hands to
// renderers, plus the small request/response types around it.
package scene

import (
	"fmt"

	"github.com/turtacn/molscene/pkg/types/common"
)

// Vec3 is a point or direction serialised as [x, y, z].
type Vec3 [3]float64

// Source names where a scene came from.
type Source string

const (
	SourceMol2   Source = "mol2"
	SourceAlkane Source = "alkane"
	SourceSMILES Source = "smiles"
	SourceFile   Source = "file"
)

// Atom is one sphere in the scene.
type Atom struct {
	ID       int     `json:"id" yaml:"id"`
	Element  string  `json:"element" yaml:"element"`
	Position Vec3    `json:"position" yaml:"position"`
	Color    string  `json:"color" yaml:"color"`
	Radius   float64 `json:"radius" yaml:"radius"` // drawn sphere radius, 0 in stick mode
	VdW      float64 `json:"vdw_radius" yaml:"vdw_radius"`
	Label    string  `json:"label" yaml:"label"`
	Tooltip  string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Segment is one stick of a bond.
type Segment struct {
	Start Vec3 `json:"start" yaml:"start"`
	End   Vec3 `json:"end" yaml:"end"`
}

// Bond joins two atoms.  Single bonds carry one segment, double and aromatic
// bonds carry two parallel ones.
type Bond struct {
	ID       int       `json:"id" yaml:"id"`
	Atom1    int       `json:"atom1" yaml:"atom1"`
	Atom2    int       `json:"atom2" yaml:"atom2"`
	Kind     string    `json:"kind" yaml:"kind"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// BoundingBox is the axis-aligned extent of all atoms.
type BoundingBox struct {
	Min      Vec3    `json:"min" yaml:"min"`
	Max      Vec3    `json:"max" yaml:"max"`
	Diagonal float64 `json:"diagonal" yaml:"diagonal"`
}

// Scene is the full descriptor of one molecule ready to draw.
type Scene struct {
	ID             common.ID        `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Formula        string           `json:"formula" yaml:"formula"`
	Source         Source           `json:"source" yaml:"source"`
	Atoms          []Atom           `json:"atoms" yaml:"atoms"`
	Bonds          []Bond           `json:"bonds" yaml:"bonds"`
	BoundingBox    *BoundingBox     `json:"bounding_box,omitempty" yaml:"bounding_box,omitempty"`
	Center         Vec3             `json:"center" yaml:"center"`
	CameraDistance float64          `json:"camera_distance" yaml:"camera_distance"`
	CameraPosition Vec3             `json:"camera_position" yaml:"camera_position"`
	Framing        string           `json:"framing" yaml:"framing"`
	FOVDegrees     float64          `json:"fov_degrees,omitempty" yaml:"fov_degrees,omitempty"`
	Render         string           `json:"render" yaml:"render"`
	BondDiameter   float64          `json:"bond_diameter" yaml:"bond_diameter"`
	CreatedAt      common.Timestamp `json:"created_at" yaml:"-"`
}

// Clone returns a deep copy of s that shares no slices or pointers with it.
func (s *Scene) Clone() *Scene {
	out := *s
	if s.Atoms != nil {
		out.Atoms = make([]Atom, len(s.Atoms))
		copy(out.Atoms, s.Atoms)
	}
	if s.Bonds != nil {
		out.Bonds = make([]Bond, len(s.Bonds))
		for i, b := range s.Bonds {
			if b.Segments != nil {
				b.Segments = append(make([]Segment, 0, len(b.Segments)), b.Segments...)
			}
			out.Bonds[i] = b
		}
	}
	if s.BoundingBox != nil {
		bb := *s.BoundingBox
		out.BoundingBox = &bb
	}
	return &out
}

// Summary condenses a Scene for listings and table output.
type Summary struct {
	Name           string  `json:"name" yaml:"name"`
	Formula        string  `json:"formula" yaml:"formula"`
	Source         Source  `json:"source" yaml:"source"`
	Atoms          int     `json:"atoms" yaml:"atoms"`
	Bonds          int     `json:"bonds" yaml:"bonds"`
	Diagonal       float64 `json:"diagonal" yaml:"diagonal"`
	CameraDistance float64 `json:"camera_distance" yaml:"camera_distance"`
}

// Summarize returns the headline numbers of s.
func (s *Scene) Summarize() Summary {
	sum := Summary{
		Name:           s.Name,
		Formula:        s.Formula,
		Source:         s.Source,
		Atoms:          len(s.Atoms),
		Bonds:          len(s.Bonds),
		CameraDistance: s.CameraDistance,
	}
	if s.BoundingBox != nil {
		sum.Diagonal = s.BoundingBox.Diagonal
	}
	return sum
}

func (s Summary) String() string {
	return fmt.Sprintf("%s (%s) from %s: %d atoms, %d bonds, diagonal %.4f, camera distance %.4f",
		s.Name, s.Formula, s.Source, s.Atoms, s.Bonds, s.Diagonal, s.CameraDistance)
}

// FramingResult answers a framing query.
type FramingResult struct {
	Diagonal   float64 `json:"diagonal" yaml:"diagonal"`
	FOVDegrees float64 `json:"fov_degrees" yaml:"fov_degrees"`
	Direct     float64 `json:"direct" yaml:"direct"`
	FOV        float64 `json:"fov" yaml:"fov"`
}

// FileInfo describes a stored MOL2 file.
type FileInfo struct {
	Name         string           `json:"name" yaml:"name"`
	Size         int64            `json:"size" yaml:"size"`
	LastModified common.Timestamp `json:"last_modified" yaml:"-"`
}
