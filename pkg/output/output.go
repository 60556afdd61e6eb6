package output

import (
	"fmt"
	"io"

	"github.com/sambabib/depcheck/pkg/analyzer"
	"github.com/sambabib/depcheck/pkg/config"
)

// Write renders report in the requested format.
func Write(w io.Writer, format string, report *analyzer.Report, projectPath, toolVersion string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case config.FormatText, "":
		return PrintTextReport(w, report)
	case config.FormatJSON:
		data, err = GenerateJSONReport(report)
	case config.FormatSarif:
		data, err = GenerateSarifReport(report, projectPath, toolVersion)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report to %s: %w", format, err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
