package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sambabib/depcheck/pkg/analyzer"
)

// PrintTextReport prints the unused dependencies in a tabular text format,
// followed by the files that could not be analyzed
func PrintTextReport(w io.Writer, report *analyzer.Report) error {
	const reasonLimit = 80 // Max characters for the reason column

	unused := report.Unused()
	if len(unused) == 0 {
		fmt.Fprintln(w, "No unused dependencies")
	} else {
		// minwidth, tabwidth, padding, padchar, flags
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "NAME\tTYPE\tDECLARED\tINSTALLED")
		fmt.Fprintln(tw, "----\t----\t--------\t---------")

		for _, r := range unused {
			installed := r.InstalledVersion
			if installed == "" {
				installed = "-"
			} else if !r.Satisfied {
				installed += " (out of range)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Type, r.DeclaredVersion, installed)
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(report.InvalidFiles) == 0 {
		return nil
	}

	paths := make([]string, 0, len(report.InvalidFiles))
	for p := range report.InvalidFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Invalid files:")
	for _, p := range paths {
		reason := strings.ReplaceAll(report.InvalidFiles[p], "\n", " ")
		if len(reason) > reasonLimit {
			reason = reason[:reasonLimit-3] + "..."
		}
		fmt.Fprintf(w, "  %s: %s\n", p, reason)
	}
	return nil
}
