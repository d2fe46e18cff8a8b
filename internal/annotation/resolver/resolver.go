// Package resolver extracts a gene symbol and protein change from raw
// variant annotation blobs, the loosely typed documents produced by variant
// knowledge bases. Field names and shapes vary by upstream predictor, so
// extraction walks several known locations in priority order.
package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

// shortFormPattern matches the compact protein change notation, e.g. V600E.
var shortFormPattern = regexp.MustCompile(`[A-Z]\d+[A-Z]`)

// GeneAAResolver extracts "GENE" and "V600E" style values from a variant
// data document.
type GeneAAResolver struct{}

// New creates a resolver.
func New() *GeneAAResolver {
	return &GeneAAResolver{}
}

// Resolve returns the gene symbol and amino acid change found in the
// document. ok is false when either half is missing; partial extraction is
// not useful to callers.
func (r *GeneAAResolver) Resolve(variantData map[string]any) (gene, aaChange string, ok bool) {
	if variantData == nil {
		return "", "", false
	}
	gene = extractGene(variantData)
	if gene == "" {
		return "", "", false
	}
	aaChange = extractAAChange(variantData)
	if aaChange == "" {
		return "", "", false
	}
	return gene, aaChange, true
}

// extractGene tries the CADD annotation first, then docm, then dbNSFP.
func extractGene(data map[string]any) string {
	if cadd, ok := asMap(data["cadd"]); ok {
		if gene, ok := asMap(cadd["gene"]); ok {
			if name := firstString(gene["genename"]); name != "" {
				return name
			}
		}
	}
	if docm, ok := asMap(data["docm"]); ok {
		if name := firstString(docm["gene"]); name != "" {
			return name
		}
		if name := firstString(docm["genename"]); name != "" {
			return name
		}
	}
	if dbnsfp, ok := asMap(data["dbnsfp"]); ok {
		if name := firstString(dbnsfp["genename"]); name != "" {
			return name
		}
	}
	return ""
}

// extractAAChange tries docm's clean p.V600E form first, then the hgvsp
// list, then reassembles the change from CADD's old/new amino acid fields.
func extractAAChange(data map[string]any) string {
	if docm, ok := asMap(data["docm"]); ok {
		if aa := firstString(docm["aa_change"]); aa != "" {
			return strings.TrimPrefix(aa, "p.")
		}
	}

	if hgvsp := firstString(data["hgvsp"]); hgvsp != "" {
		aa := strings.TrimPrefix(hgvsp, "p.")
		// Long-form entries like Val600Glu carry three-letter codes;
		// reduce to the short form when one is embedded.
		if strings.Contains(aa, "Val") || strings.Contains(aa, "Ala") {
			if m := shortFormPattern.FindString(aa); m != "" {
				return m
			}
		}
		return aa
	}

	if cadd, ok := asMap(data["cadd"]); ok {
		oaa := firstString(cadd["oaa"])
		naa := firstString(cadd["naa"])
		if gene, ok := asMap(cadd["gene"]); ok {
			if prot, ok := asMap(gene["prot"]); ok {
				if pos := positionString(prot["protpos"]); pos != "" && oaa != "" && naa != "" {
					return oaa + pos + naa
				}
			}
		}
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// firstString accepts a string or the first element of a string list; the
// upstream documents use both shapes for the same field.
func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

// positionString renders a protein position that may arrive as a JSON
// number or string.
func positionString(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(t))
	case int:
		return fmt.Sprintf("%d", t)
	case string:
		return t
	}
	return ""
}
