package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const ethaneMol2 = `@<TRIPOS>MOLECULE
ethane
 8 7 0 0 0
SMALL
NO_CHARGES

@<TRIPOS>ATOM
      1 C1          0.0000    0.0000    0.0000 C.3       1 ETH1        0.0000
      2 C2          1.5400    0.0000    0.0000 C.3       1 ETH1        0.0000
      3 H1         -0.3600    1.0300    0.0000 H         1 ETH1        0.0000
      4 H2         -0.3600   -0.5100    0.8900 H         1 ETH1        0.0000
      5 H3         -0.3600   -0.5100   -0.8900 H         1 ETH1        0.0000
      6 H4          1.9000   -1.0300    0.0000 H         1 ETH1        0.0000
      7 H5          1.9000    0.5100    0.8900 H         1 ETH1        0.0000
      8 H6          1.9000    0.5100   -0.8900 H         1 ETH1        0.0000
@<TRIPOS>BOND
     1     1     2    1
     2     1     3    1
     3     1     4    1
     4     1     5    1
     5     2     6    1
     6     2     7    1
     7     2     8    1
`

// writeFile creates name under a temp dir with content and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testConfigFile returns a minimal config so tests never pick up a config
// from the working or home directory.
func testConfigFile(t *testing.T) string {
	return writeFile(t, "molscene.yaml", "log:\n  level: warn\nscene:\n  fov_degrees: 60\n")
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with args and the given stdin.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", testConfigFile(t), "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}
