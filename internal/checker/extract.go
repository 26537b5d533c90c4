package checker

import "regexp"

// importPattern matches `from '<specifier>'` and `from "<specifier>"`.
// It is a text heuristic: matches inside comments or string literals count too.
var importPattern = regexp.MustCompile(`from\s+['"]([^'"\r\n]+)['"]`)

// ExtractImports returns every specifier found in content, in order of
// appearance. Duplicates are kept.
func ExtractImports(content string) []string {
	matches := importPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	specifiers := make([]string, 0, len(matches))
	for _, m := range matches {
		specifiers = append(specifiers, m[1])
	}

	return specifiers
}
