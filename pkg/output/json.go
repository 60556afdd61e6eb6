package output

import (
	"encoding/json"

	"github.com/sambabib/depcheck/pkg/analyzer"
)

// GenerateJSONReport converts an analyzer report to JSON format
func GenerateJSONReport(report *analyzer.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
