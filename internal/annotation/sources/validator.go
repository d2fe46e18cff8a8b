package sources

import (
	"regexp"
	"strings"
)

// Gene symbols are uppercase alphanumerics with optional hyphens and an
// optional dotted version suffix, 2 to 20 characters.
var geneSymbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9-]*(\.[0-9]+)?$`)

// invalidGeneSymbols are placeholder values that pass the pattern but are
// never real genes.
var invalidGeneSymbols = map[string]bool{
	"INVALID":          true,
	"UNKNOWN":          true,
	"NULL":             true,
	"NONE":             true,
	"TEST":             true,
	"INVALID_GENE_XYZ": true,
}

// IsValidGeneSymbol reports whether symbol looks like a real HGNC gene
// symbol. It rejects empty, malformed, out-of-length and known placeholder
// values so bad input never reaches the registries.
func IsValidGeneSymbol(symbol string) bool {
	s := strings.TrimSpace(symbol)
	if len(s) < 2 || len(s) > 20 {
		return false
	}
	if invalidGeneSymbols[strings.ToUpper(s)] {
		return false
	}
	return geneSymbolPattern.MatchString(s)
}

// SanitizeGeneSymbol normalizes a symbol to the uppercase trimmed form the
// registries expect. Returns the empty string when the input is invalid.
func SanitizeGeneSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !IsValidGeneSymbol(s) {
		return ""
	}
	return s
}
