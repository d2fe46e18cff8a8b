package models

// populationNames maps population codes to the display names used in the
// rendered response.
var populationNames = map[PopulationCode]string{
	PopulationAfrican:    "african",
	PopulationAmerican:   "american",
	PopulationEastAsian:  "east_asian",
	PopulationEuropean:   "european",
	PopulationSouthAsian: "south_asian",
}

// Render produces the display map returned by the annotations endpoint.
// Sections for sources that produced no data are omitted entirely, and
// optional fields inside a section are dropped when unset.
func (a *EnhancedAnnotation) Render() map[string]any {
	external := map[string]any{}

	if t := a.TumorRegistry; t != nil {
		section := map[string]any{}
		if t.CrossReferenceID != nil {
			section["cross_reference_id"] = *t.CrossReferenceID
		}
		if len(t.TumorTypes) > 0 {
			section["tumor_types"] = t.TumorTypes
		}
		if t.AffectedCaseCount != nil {
			section["affected_cases"] = *t.AffectedCaseCount
		}
		if t.Consequence != nil {
			section["consequence"] = *t.Consequence
		}
		external["tumor_registry"] = section
	}

	if p := a.PopulationFrequency; p != nil {
		section := map[string]any{}
		if p.GlobalFrequency != nil {
			section["global_frequency"] = *p.GlobalFrequency
		}
		if len(p.PerPopulationFrequency) > 0 {
			freqs := map[string]any{}
			for code, f := range p.PerPopulationFrequency {
				name, ok := populationNames[code]
				if !ok {
					name = string(code)
				}
				freqs[name] = f
			}
			section["population_frequencies"] = freqs
		}
		if p.AncestralAllele != nil {
			section["ancestral_allele"] = *p.AncestralAllele
		}
		if p.MostSevereConsequence != nil {
			section["consequence"] = *p.MostSevereConsequence
		}
		external["population_frequency"] = section
	}

	if c := a.CrossStudy; c != nil {
		section := map[string]any{
			"total_cases": c.TotalCases,
		}
		if len(c.Studies) > 0 {
			section["studies"] = c.Studies
		}
		if len(c.CancerTypeCounts) > 0 {
			section["cancer_types"] = c.CancerTypeCounts
		}
		if len(c.MutationTypeCounts) > 0 {
			section["mutation_types"] = c.MutationTypeCounts
		}
		if c.HotspotCaseCount > 0 {
			section["hotspot_samples"] = c.HotspotCaseCount
		}
		if c.MeanVariantAlleleFraction != nil {
			section["mean_vaf"] = *c.MeanVariantAlleleFraction
		}
		if len(c.SampleTypeCounts) > 0 {
			section["sample_types"] = c.SampleTypeCounts
		}
		external["cross_study"] = section
	}

	if len(a.FailedSources) > 0 {
		external["errors"] = a.FailedSources
	}

	return map[string]any{
		"variant_id":           a.VariantID,
		"external_annotations": external,
	}
}
