// Package mol2 reads and writes the TRIPOS MOL2 subset molscene uses: the
// MOLECULE name, ATOM records and BOND records.  Everything from the
// SUBSTRUCTURE section on is ignored.
package mol2

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/element"
	"github.com/turtacn/molscene/internal/domain/molecule"
	"github.com/turtacn/molscene/pkg/errors"
)

// Section headers.
const (
	HeaderMolecule     = "@<TRIPOS>MOLECULE"
	HeaderAtom         = "@<TRIPOS>ATOM"
	HeaderBond         = "@<TRIPOS>BOND"
	HeaderSubstructure = "@<TRIPOS>SUBSTRUCTURE"
)

const (
	atomFields = 8
	bondFields = 4
)

type state int

const (
	stateNone state = iota
	stateMolecule
	stateAtom
	stateBond
	stateOther
)

// parser carries the state of one Parse call.
type parser struct {
	state  state
	lineNo int
	name   string
	named  bool
	atoms  []molecule.Atom
	bonds  []molecule.Bond
}

// Parse consumes src until end of input or a SUBSTRUCTURE header and builds a
// Molecule.  Any error aborts the whole parse and no Molecule is returned.
// Bond endpoints are not checked; call Validate on the result for that.
func Parse(src LineSource) (*molecule.Molecule, error) {
	p := &parser{}
	for {
		line, ok, err := src.Next()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIOFailure, "failed to read mol2 line").
				WithDetail(fmt.Sprintf("line=%d", p.lineNo+1))
		}
		if !ok {
			break
		}
		p.lineNo++

		done, err := p.feed(line)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if !p.named {
		return nil, errors.New(errors.ErrCodeMissingMoleculeName, "no molecule name found").
			WithDetail("expected a data line after " + HeaderMolecule)
	}
	return molecule.New(p.name, p.atoms, p.bonds), nil
}

// ParseReader parses MOL2 text streamed from r.
func ParseReader(r io.Reader) (*molecule.Molecule, error) {
	return Parse(NewScannerSource(r))
}

// ParseString parses MOL2 text held in memory.
func ParseString(s string) (*molecule.Molecule, error) {
	return ParseReader(strings.NewReader(s))
}

// feed handles one line.  done is true when parsing must stop.
func (p *parser) feed(line string) (done bool, err error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false, nil
	}

	if strings.HasPrefix(tokens[0], "@<") {
		switch tokens[0] {
		case HeaderMolecule:
			p.state = stateMolecule
		case HeaderAtom:
			p.state = stateAtom
		case HeaderBond:
			p.state = stateBond
		case HeaderSubstructure:
			return true, nil
		default:
			p.state = stateOther
		}
		return false, nil
	}

	switch p.state {
	case stateMolecule:
		if !p.named {
			p.name = tokens[0]
			p.named = true
		}
		p.state = stateNone
	case stateAtom:
		atom, err := p.parseAtom(tokens)
		if err != nil {
			return false, err
		}
		p.atoms = append(p.atoms, atom)
	case stateBond:
		bond, err := p.parseBond(tokens)
		if err != nil {
			return false, err
		}
		p.bonds = append(p.bonds, bond)
	}
	return false, nil
}

func (p *parser) parseAtom(tokens []string) (molecule.Atom, error) {
	if len(tokens) < atomFields {
		return molecule.Atom{}, p.malformed("atom", atomFields, len(tokens))
	}
	id, err := p.parseInt(tokens[0], "atom_id")
	if err != nil {
		return molecule.Atom{}, err
	}
	var pos mgl64.Vec3
	for i, field := range []string{"x", "y", "z"} {
		if pos[i], err = p.parseFloat(tokens[2+i], field); err != nil {
			return molecule.Atom{}, err
		}
	}
	bondCount, err := p.parseInt(tokens[6], "bond_count")
	if err != nil {
		return molecule.Atom{}, err
	}
	el, err := elementOf(tokens[5])
	if err != nil {
		return molecule.Atom{}, errors.Wrap(err, errors.ErrCodeUnknownElementSymbol, "unknown element in atom type").
			WithDetail(fmt.Sprintf("line=%d sybyl_type=%q", p.lineNo, tokens[5]))
	}
	return molecule.Atom{
		ID:        id,
		Name:      tokens[1],
		Position:  pos,
		Element:   el,
		Type:      tokens[5],
		BondCount: bondCount,
		Residue:   tokens[7],
	}, nil
}

func (p *parser) parseBond(tokens []string) (molecule.Bond, error) {
	if len(tokens) < bondFields {
		return molecule.Bond{}, p.malformed("bond", bondFields, len(tokens))
	}
	var ids [3]int
	for i, field := range []string{"bond_id", "atom1", "atom2"} {
		v, err := p.parseInt(tokens[i], field)
		if err != nil {
			return molecule.Bond{}, err
		}
		ids[i] = v
	}
	return molecule.Bond{ID: ids[0], Atom1: ids[1], Atom2: ids[2], Kind: tokens[3]}, nil
}

// elementOf maps a SYBYL type to its element using the text before the
// first dot: "C.3" -> C, "Ca" -> Ca.
func elementOf(sybylType string) (element.Element, error) {
	symbol, _, _ := strings.Cut(sybylType, ".")
	return element.Parse(symbol)
}

func (p *parser) parseInt(tok, field string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.numeric(err, field, tok)
	}
	return v, nil
}

func (p *parser) parseFloat(tok, field string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, p.numeric(err, field, tok)
	}
	return v, nil
}

func (p *parser) numeric(cause error, field, tok string) error {
	return errors.Wrap(cause, errors.ErrCodeMalformedNumericField, "malformed numeric field").
		WithDetail(fmt.Sprintf("line=%d field=%s value=%q", p.lineNo, field, tok))
}

func (p *parser) malformed(kind string, want, got int) error {
	return errors.Newf(errors.ErrCodeMalformedRecord, "%s record has too few fields", kind).
		WithDetail(fmt.Sprintf("line=%d want>=%d got=%d", p.lineNo, want, got))
}
