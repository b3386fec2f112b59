package mol2

import (
	"path"
	"strings"

	"github.com/turtacn/molscene/pkg/errors"
)

// Extension is the suffix every stored MOL2 object carries.
const Extension = ".mol2"

const maxFileNameLength = 255

// CheckFileName validates the name under which a MOL2 file is stored.  Names
// are flat: no directories, no traversal, and they must end in ".mol2".
func CheckFileName(name string) error {
	switch {
	case name == "":
		return errors.New(errors.ErrCodeInvalidFileName, "file name is empty")
	case len(name) > maxFileNameLength:
		return errors.New(errors.ErrCodeInvalidFileName, "file name too long").WithDetail(name[:32] + "...")
	case strings.ContainsAny(name, `/\`) || path.Clean(name) != name || strings.HasPrefix(name, "."):
		return errors.New(errors.ErrCodeInvalidFileName, "file name must be a plain base name").WithDetail(name)
	case !strings.EqualFold(path.Ext(name), Extension) || len(name) == len(Extension):
		return errors.New(errors.ErrCodeInvalidFileName, "file name must end in .mol2").WithDetail(name)
	}
	return nil
}
