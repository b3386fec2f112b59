package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	"github.com/turtacn/molscene/pkg/types/scene"
)

// openInput opens path for reading; "-" means stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIOFailure, "cannot open input").WithDetail(path)
	}
	return f, nil
}

// printScene prints the whole scene or only its summary.
func printScene(cmd *cobra.Command, sc *scene.Scene, full bool) error {
	if full {
		return PrintResult(cmd, sc)
	}
	return PrintResult(cmd, sc.Summarize())
}

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "parse <file.mol2|->",
		Short: "Parse a MOL2 file and print its scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			sc, err := cliCtx.Backend.FromMol2(ctx, bufio.NewReader(in))
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("parsed molecule",
				logging.String("name", sc.Name),
				logging.Int("atoms", len(sc.Atoms)),
				logging.Int("bonds", len(sc.Bonds)))
			return printScene(cmd, sc, full)
		},
	}
	cmd.Flags().BoolVar(&full, "scene", false, "print the full scene instead of a summary")
	return cmd
}

func parseCarbons(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCarbonCount, "carbon count must be a non-negative integer").WithDetail(s)
	}
	return uint(n), nil
}

// NewAlkaneCmd creates the alkane command.
func NewAlkaneCmd() *cobra.Command {
	var (
		full    bool
		asMol2  bool
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "alkane <carbons>",
		Short: "Build the straight-chain alkane with the given number of carbons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			n, err := parseCarbons(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			if asMol2 {
				w := cmd.OutOrStdout()
				if outFile != "" {
					f, err := os.Create(outFile)
					if err != nil {
						return errors.Wrap(err, errors.ErrCodeIOFailure, "cannot create output").WithDetail(outFile)
					}
					defer f.Close()
					w = f
				}
				if err := cliCtx.Backend.AlkaneMol2(ctx, n, w); err != nil {
					return err
				}
				if outFile != "" {
					PrintSuccess(cmd, "wrote "+outFile)
				}
				return nil
			}

			sc, err := cliCtx.Backend.Alkane(ctx, n)
			if err != nil {
				return err
			}
			return printScene(cmd, sc, full)
		},
	}
	cmd.Flags().BoolVar(&full, "scene", false, "print the full scene instead of a summary")
	cmd.Flags().BoolVar(&asMol2, "mol2", false, "emit the molecule as a MOL2 document")
	cmd.Flags().StringVar(&outFile, "out", "", "write MOL2 output to this file (with --mol2)")
	return cmd
}

// NewSmilesCmd creates the smiles command.
func NewSmilesCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "smiles <smiles>",
		Short: "Build a scene from a linear alkane SMILES string such as CCCC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			sc, err := cliCtx.Backend.FromSMILES(ctx, args[0])
			if err != nil {
				return err
			}
			return printScene(cmd, sc, full)
		},
	}
	cmd.Flags().BoolVar(&full, "scene", false, "print the full scene instead of a summary")
	return cmd
}

// NewFrameCmd creates the frame command.
func NewFrameCmd() *cobra.Command {
	var diagonal, fov float64
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Compute camera distances for a bounding box diagonal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			res, err := cliCtx.Backend.Framing(ctx, diagonal, fov)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res)
		},
	}
	cmd.Flags().Float64Var(&diagonal, "diagonal", 0, "bounding box diagonal (required)")
	cmd.Flags().Float64Var(&fov, "fov", 0, "vertical field of view in degrees (default: configured)")
	_ = cmd.MarkFlagRequired("diagonal")
	return cmd
}

// NewFilesCmd creates the files command group.
func NewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage MOL2 files in the object store",
	}

	ls := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List stored MOL2 files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			files, err := cliCtx.Backend.ListFiles(ctx, prefix)
			if err != nil {
				return err
			}
			return PrintResult(cmd, files)
		},
	}

	var name string
	put := &cobra.Command{
		Use:   "put <file.mol2>",
		Short: "Upload a MOL2 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			target := name
			if target == "" {
				target = filepath.Base(args[0])
			}
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			info, err := cliCtx.Backend.StoreFile(ctx, target, in)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, "stored "+info.Name+" ("+strconv.FormatInt(info.Size, 10)+" bytes)")
			return nil
		},
	}
	put.Flags().StringVar(&name, "name", "", "object name (default: the file's base name)")

	var full bool
	show := &cobra.Command{
		Use:   "scene <name>",
		Short: "Build the scene of a stored MOL2 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			sc, err := cliCtx.Backend.FileScene(ctx, args[0])
			if err != nil {
				return err
			}
			return printScene(cmd, sc, full)
		},
	}
	show.Flags().BoolVar(&full, "scene", false, "print the full scene instead of a summary")

	cmd.AddCommand(ls, put, show)
	return cmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, CurrentBuildInfo())
		},
	}
}
