package analyzer

import "context"

// Dependency types reported in ReportItem.Type.
const (
	TypeDependency    = "dependency"
	TypeDevDependency = "devDependency"
)

// ReportItem represents a single declared dependency that no source file references
type ReportItem struct {
	Name             string `json:"name"`                        // package name
	Type             string `json:"type"`                        // "dependency" or "devDependency"
	DeclaredVersion  string `json:"declared_version"`            // version range from package.json
	InstalledVersion string `json:"installed_version,omitempty"` // version found in node_modules, if any
	Satisfied        bool   `json:"satisfied"`                   // whether the installed version matches the declared range
}

// Report is the outcome of analyzing one project
type Report struct {
	Dependencies    []ReportItem      `json:"dependencies"`
	DevDependencies []ReportItem      `json:"devDependencies"`
	InvalidFiles    map[string]string `json:"invalidFiles"` // file path -> reason it could not be analyzed
}

// Unused returns every unused item, dependencies first.
func (r *Report) Unused() []ReportItem {
	items := make([]ReportItem, 0, len(r.Dependencies)+len(r.DevDependencies))
	items = append(items, r.Dependencies...)
	return append(items, r.DevDependencies...)
}

// Analyzer defines the interface for unused dependency analyzers
type Analyzer interface {
	// Analyze scans the project at path and reports the declared dependencies it never uses
	Analyze(ctx context.Context, path string) (*Report, error)
}
