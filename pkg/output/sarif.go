package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/sambabib/depcheck/pkg/analyzer"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion          `json:"region,omitempty"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifRegion represents a region in the code
type SarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUtc        string `json:"startTimeUtc"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

// Rule IDs used in SARIF results
const (
	RuleUnusedDependency    = "unused-dependency"
	RuleUnusedDevDependency = "unused-dev-dependency"
	RuleInvalidFile         = "invalid-file"
)

// GenerateSarifReport converts an analyzer report to SARIF format
func GenerateSarifReport(report *analyzer.Report, projectPath, toolVersion string) ([]byte, error) {
	// Define rules
	rules := []SarifRule{
		{
			ID:               RuleUnusedDependency,
			ShortDescription: SarifMessage{Text: "Unused dependency"},
			FullDescription:  SarifMessage{Text: "This dependency is declared in package.json but no source file requires or imports it."},
			Help:             SarifMessage{Text: "Remove the dependency from package.json, or add it to ignoreMatches if it is loaded indirectly."},
		},
		{
			ID:               RuleUnusedDevDependency,
			ShortDescription: SarifMessage{Text: "Unused devDependency"},
			FullDescription:  SarifMessage{Text: "This devDependency is declared in package.json but no source file requires or imports it."},
			Help:             SarifMessage{Text: "Remove the devDependency, or add it to ignoreMatches if a tool loads it by name."},
		},
		{
			ID:               RuleInvalidFile,
			ShortDescription: SarifMessage{Text: "File could not be analyzed"},
			FullDescription:  SarifMessage{Text: "The file could not be read or parsed, so its module references were not considered."},
			Help:             SarifMessage{Text: "Fix the syntax error, or enable the matching dialect (for example jsx)."},
		},
	}

	manifest := filepath.ToSlash(filepath.Join(projectPath, "package.json"))

	results := make([]SarifResult, 0, len(report.Dependencies)+len(report.DevDependencies)+len(report.InvalidFiles))
	for _, item := range report.Unused() {
		ruleID := RuleUnusedDependency
		if item.Type == analyzer.TypeDevDependency {
			ruleID = RuleUnusedDevDependency
		}

		messageText := fmt.Sprintf("%s (%s) is declared but never used", item.Name, item.DeclaredVersion)
		results = append(results, newSarifResult(ruleID, "warning", messageText, manifest))
	}

	paths := make([]string, 0, len(report.InvalidFiles))
	for p := range report.InvalidFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		results = append(results, newSarifResult(RuleInvalidFile, "note", report.InvalidFiles[p], filepath.ToSlash(p)))
	}

	// Create SARIF report
	now := time.Now().UTC()
	sarifReport := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "depcheck",
						Version:        toolVersion,
						InformationURI: "https://github.com/sambabib/depcheck",
						Rules:          rules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: true,
						StartTimeUtc:        now.Add(-time.Second).Format(time.RFC3339),
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	// Marshal to JSON
	return json.MarshalIndent(sarifReport, "", "  ")
}

func newSarifResult(ruleID, level, text, uri string) SarifResult {
	return SarifResult{
		RuleID:  ruleID,
		Level:   level,
		Message: SarifMessage{Text: text},
		Locations: []SarifLocation{
			{
				PhysicalLocation: SarifPhysicalLocation{
					ArtifactLocation: SarifArtifactLocation{URI: uri},
				},
			},
		},
	}
}
