package scene

import (
	"strings"

	"github.com/turtacn/molscene/pkg/errors"
)

// CarbonCounter reduces a SMILES string to the carbon count of the linear
// alkane it names.  Full SMILES support lives outside this module; any
// implementation can be plugged in through Config.
type CarbonCounter interface {
	CountCarbons(smiles string) (uint, error)
}

// LinearAlkaneCounter understands the unbranched alkane subset of SMILES: a
// run of aliphatic carbons ("C", "CC", "CCCCC") where each atom may also be
// written as a bracket atom with explicit hydrogens ("[CH4]", "[CH3][CH3]").
type LinearAlkaneCounter struct{}

// CountCarbons implements CarbonCounter.
func (LinearAlkaneCounter) CountCarbons(smiles string) (uint, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidSMILES, "empty SMILES string")
	}

	var n uint
	for len(s) > 0 {
		switch {
		case s[0] == 'C':
			s = s[1:]
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 || !bracketCarbon(s[1:end]) {
				return 0, unsupported(smiles)
			}
			s = s[end+1:]
		default:
			return 0, unsupported(smiles)
		}
		n++
	}
	return n, nil
}

func bracketCarbon(atom string) bool {
	switch atom {
	case "C", "CH", "CH1", "CH2", "CH3", "CH4":
		return true
	}
	return false
}

func unsupported(smiles string) error {
	return errors.New(errors.ErrCodeInvalidSMILES, "only unbranched alkanes are supported").WithDetail(smiles)
}
