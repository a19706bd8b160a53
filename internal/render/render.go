// Package render extracts {{name}} placeholders from prompt templates and
// substitutes variable values into them.
package render

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_-]+)\}\}`)

// ExtractVariables returns the unique placeholder names found in text,
// sorted. Malformed placeholders (unmatched braces, disallowed characters)
// are simply not matched.
func ExtractVariables(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	sort.Strings(names)
	return names
}

// Render replaces every literal occurrence of {{key}} with the mapped value,
// one pass per key in sorted key order. Placeholders with no matching key are
// left verbatim. Substitution is plain string replacement; it is not applied
// recursively, so a value that itself contains {{other}} syntax is only
// expanded if a later key happens to match it.
func Render(template string, variables map[string]string) string {
	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := template
	for _, k := range keys {
		result = strings.ReplaceAll(result, "{{"+k+"}}", variables[k])
	}
	return result
}
