package extractor

import "strings"

// NormalizeSpecifier reduces a module specifier to the package name it
// belongs to: "lodash/fp" becomes "lodash" and "@scope/pkg/sub" becomes
// "@scope/pkg". Relative specifiers collapse to "." or "..", which never
// match a declared dependency.
func NormalizeSpecifier(spec string) string {
	parts := strings.SplitN(spec, "/", 3)
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// NormalizeAll applies NormalizeSpecifier to every specifier.
func NormalizeAll(specs []string) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = NormalizeSpecifier(s)
	}
	return names
}
