// Package symbol provides helpers for simplifying and grouping raw
// symbol names as they appear in flame graph labels.
package symbol

import (
	"regexp"
	"strings"
)

// Separator is the namespace delimiter used by the symbol encoding
// (Rust and C++ both use "::").
const Separator = "::"

var (
	// Innermost generic/template parameter group. Applied repeatedly so
	// arbitrarily nested groups reduce from the inside out.
	genericGroupRegex = regexp.MustCompile(`<[^<>]*>`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Simplify strips generic/template parameter groups from a symbol name
// and normalizes whitespace. It is idempotent: applying it twice equals
// applying it once.
func Simplify(name string) string {
	result := name
	for {
		stripped := genericGroupRegex.ReplaceAllString(result, "")
		if stripped == result {
			break
		}
		result = stripped
	}

	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Scope returns the enclosing scope of a symbol: the name minus its
// last path component. A name with no separator is its own scope.
func Scope(name string) string {
	idx := strings.LastIndex(name, Separator)
	if idx == -1 {
		return name
	}
	return name[:idx]
}

// Namespace returns the top-level namespace of a symbol: its first
// path component. A name with no separator is its own namespace.
func Namespace(name string) string {
	idx := strings.Index(name, Separator)
	if idx == -1 {
		return name
	}
	return name[:idx]
}
