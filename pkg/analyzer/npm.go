package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar"
	"github.com/sambabib/depcheck/pkg/logger"
	"github.com/sambabib/depcheck/pkg/scanner"
)

// NpmOptions controls which dependencies and files an NpmAnalyzer considers
type NpmOptions struct {
	Extensions    []string // file suffixes to scan; defaults to .js
	JSX           bool     // parse JSX syntax
	IgnoreDirs    []string // directory names to skip in addition to the built-in ones
	IgnoreMatches []string // glob patterns of dependency names to leave out of the report
	WithoutDev    bool     // do not check devDependencies
}

// NpmAnalyzer finds npm dependencies that no source file references
type NpmAnalyzer struct {
	Options NpmOptions
	Package *PackageJSON // Use this manifest instead of reading package.json
}

// NewNpmAnalyzer creates a new NpmAnalyzer
func NewNpmAnalyzer(opts NpmOptions) *NpmAnalyzer {
	return &NpmAnalyzer{Options: opts}
}

// PackageJSON holds the parts of package.json the analyzer reads
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Bin             json.RawMessage   `json:"bin"`
}

// HasBin reports whether the package declares command-line executables
func (p *PackageJSON) HasBin() bool {
	return len(p.Bin) > 0
}

// ReadPackageJSON reads and parses a package.json file
func ReadPackageJSON(filePath string) (*PackageJSON, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("invalid package.json %s: %w", filePath, err)
	}
	return &pkg, nil
}

// Analyze reads package.json, scans the project's source files and reports
// the dependencies none of them reference
func (a *NpmAnalyzer) Analyze(ctx context.Context, path string) (*Report, error) {
	pkg := a.Package
	if pkg == nil {
		filePath := filepath.Join(path, "package.json")
		logger.Debugf("NPM: Reading package.json from %s", filePath)
		var err error
		pkg, err = ReadPackageJSON(filePath)
		if err != nil {
			return nil, err
		}
	}

	installed := a.installedPackages(path, pkg)

	deps := a.candidates(pkg.Dependencies, installed)
	var devDeps []string
	if !a.Options.WithoutDev {
		devDeps = a.candidates(pkg.DevDependencies, installed)
	}
	logger.Debugf("NPM: Checking %d dependencies and %d devDependencies", len(deps), len(devDeps))

	s := scanner.New(os.DirFS(path), scanner.Options{
		Extensions: a.Options.Extensions,
		JSX:        a.Options.JSX,
		IgnoreDirs: a.Options.IgnoreDirs,
	})
	result, err := s.Scan(ctx, scanner.NewCandidates(deps, devDeps))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	report := &Report{
		Dependencies:    reportItems(result.Candidates.Dependencies, pkg.Dependencies, installed, TypeDependency),
		DevDependencies: reportItems(result.Candidates.DevDependencies, pkg.DevDependencies, installed, TypeDevDependency),
		InvalidFiles:    make(map[string]string, len(result.InvalidFiles)),
	}
	for p, reason := range result.InvalidFiles {
		report.InvalidFiles[filepath.Join(path, filepath.FromSlash(p))] = reason.Error()
	}

	return report, nil
}

// installedPackages reads node_modules/<name>/package.json for every declared
// dependency. Missing or unreadable manifests are left out.
func (a *NpmAnalyzer) installedPackages(path string, pkg *PackageJSON) map[string]*PackageJSON {
	installed := make(map[string]*PackageJSON)
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies} {
		for name := range deps {
			if _, seen := installed[name]; seen {
				continue
			}
			depPkg, err := ReadPackageJSON(filepath.Join(path, "node_modules", filepath.FromSlash(name), "package.json"))
			if err != nil {
				logger.Debugf("NPM: %s is not installed: %v", name, err)
				continue
			}
			installed[name] = depPkg
		}
	}
	return installed
}

// candidates drops dependencies that ship a binary or match an ignore pattern
func (a *NpmAnalyzer) candidates(deps map[string]string, installed map[string]*PackageJSON) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		if depPkg, ok := installed[name]; ok && depPkg.HasBin() {
			logger.Debugf("NPM: Skipping %s, it provides a binary", name)
			continue
		}
		if a.isIgnored(name) {
			logger.Debugf("NPM: Skipping %s, it matches an ignore pattern", name)
			continue
		}
		names = append(names, name)
	}
	return names
}

func (a *NpmAnalyzer) isIgnored(name string) bool {
	for _, pattern := range a.Options.IgnoreMatches {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			logger.Warnf("Invalid ignore pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func reportItems(unused scanner.NameSet, declared map[string]string, installed map[string]*PackageJSON, depType string) []ReportItem {
	items := make([]ReportItem, 0, len(unused))
	for _, name := range unused.Sorted() {
		item := ReportItem{
			Name:            name,
			Type:            depType,
			DeclaredVersion: declared[name],
		}
		if depPkg, ok := installed[name]; ok {
			item.InstalledVersion = depPkg.Version
			item.Satisfied = satisfies(item.DeclaredVersion, depPkg.Version)
		}
		items = append(items, item)
	}
	return items
}

// satisfies reports whether the installed version falls inside the declared
// range. Non-semver ranges (git URLs, file paths, tags) never match.
func satisfies(declared, installed string) bool {
	constraint, err := semver.NewConstraint(declared)
	if err != nil {
		return false
	}
	version, err := semver.NewVersion(installed)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}
