package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/molscene/pkg/types/scene"
)

// PrintResult outputs data in the format chosen with --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	out := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return printJSON(out, data)
	case OutputYAML:
		return printYAML(out, data)
	case OutputTable:
		return printTable(out, data)
	default:
		return printText(out, data)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	case *scene.FramingResult:
		fmt.Fprintf(w, "diagonal %.4f: direct %.4f, fov(%.1f°) %.4f\n", v.Diagonal, v.Direct, v.FOVDegrees, v.FOV)
	case []scene.FileInfo:
		for _, f := range v {
			fmt.Fprintf(w, "%s\t%d\n", f.Name, f.Size)
		}
	case *scene.Scene:
		fmt.Fprintln(w, v.Summarize().String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

// printTable renders the known result types as tables and falls back to
// text for anything else.
func printTable(w io.Writer, data interface{}) error {
	headers, rows, ok := tableFor(data)
	if !ok {
		return printText(w, data)
	}
	fmt.Fprint(w, FormatTable(headers, rows))
	return nil
}

func tableFor(data interface{}) ([]string, [][]string, bool) {
	switch v := data.(type) {
	case scene.Summary:
		return []string{"Name", "Formula", "Source", "Atoms", "Bonds", "Diagonal", "Camera"},
			[][]string{{v.Name, v.Formula, string(v.Source), strconv.Itoa(v.Atoms), strconv.Itoa(v.Bonds),
				formatFloat(v.Diagonal), formatFloat(v.CameraDistance)}}, true
	case *scene.Scene:
		rows := make([][]string, 0, len(v.Atoms))
		for _, a := range v.Atoms {
			rows = append(rows, []string{strconv.Itoa(a.ID), a.Label, a.Element,
				formatFloat(a.Position[0]), formatFloat(a.Position[1]), formatFloat(a.Position[2]), a.Color})
		}
		return []string{"ID", "Label", "Element", "X", "Y", "Z", "Color"}, rows, true
	case *scene.FramingResult:
		return []string{"Diagonal", "FOV (deg)", "Direct", "FOV distance"},
			[][]string{{formatFloat(v.Diagonal), formatFloat(v.FOVDegrees), formatFloat(v.Direct), formatFloat(v.FOV)}}, true
	case []scene.FileInfo:
		rows := make([][]string, 0, len(v))
		for _, f := range v {
			rows = append(rows, []string{f.Name, strconv.FormatInt(f.Size, 10), time.Time(f.LastModified).UTC().Format(time.RFC3339)})
		}
		return []string{"Name", "Size", "Last Modified"}, rows, true
	}
	return nil, nil, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// FormatTable renders headers and rows as a bordered table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		table.Append(cells)
	}
	table.Render()
	return sb.String()
}
