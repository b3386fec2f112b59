package mol2

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/turtacn/molscene/internal/domain/molecule"
	"github.com/turtacn/molscene/pkg/errors"
)

// Write serialises m as MOL2 with the same field order Parse expects.
// Coordinates use the shortest representation that round-trips exactly.
func Write(w io.Writer, m *molecule.Molecule) error {
	bw := bufio.NewWriter(w)

	name := m.Name()
	if name == "" {
		name = "*****"
	}
	fmt.Fprintln(bw, HeaderMolecule)
	fmt.Fprintln(bw, name)
	fmt.Fprintf(bw, "%d %d 0 0 0\n", m.AtomCount(), m.BondCount())
	fmt.Fprintln(bw, "SMALL")
	fmt.Fprintln(bw, "NO_CHARGES")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, HeaderAtom)
	for _, a := range m.Atoms() {
		fmt.Fprintf(bw, "%7d %-6s %s %s %s %-6s %d %s\n",
			a.ID, orPlaceholder(a.Name, "X"),
			formatCoord(a.Position[0]), formatCoord(a.Position[1]), formatCoord(a.Position[2]),
			orPlaceholder(a.Type, "Du"), a.BondCount, orPlaceholder(a.Residue, "UNL"))
	}

	fmt.Fprintln(bw, HeaderBond)
	for _, b := range m.Bonds() {
		fmt.Fprintf(bw, "%6d %5d %5d %s\n", b.ID, b.Atom1, b.Atom2, orPlaceholder(b.Kind, "un"))
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeIOFailure, "failed to write mol2")
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// orPlaceholder keeps empty string fields from collapsing the record.
func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
