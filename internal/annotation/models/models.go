// Package models defines the typed per-registry records and the merged
// annotation returned by the aggregation service.
//
// Optional fields are modeled as pointers so "registry reported zero" and
// "registry did not report this field" stay distinguishable.
package models

// PopulationCode identifies a 1000 Genomes phase 3 population.
type PopulationCode string

const (
	PopulationAfrican    PopulationCode = "AFR"
	PopulationAmerican   PopulationCode = "AMR"
	PopulationEastAsian  PopulationCode = "EAS"
	PopulationEuropean   PopulationCode = "EUR"
	PopulationSouthAsian PopulationCode = "SAS"
)

// TumorRegistryRecord holds occurrence data from the tumor-mutation
// registry (GDC/TCGA).
type TumorRegistryRecord struct {
	// CrossReferenceID is the COSMIC identifier when the registry knows one.
	CrossReferenceID  *string  `json:"cross_reference_id,omitempty"`
	TumorTypes        []string `json:"tumor_types,omitempty"`
	AffectedCaseCount *int     `json:"affected_case_count,omitempty"`
	Consequence       *string  `json:"consequence,omitempty"`
}

// PopulationFrequencyRecord holds allele frequencies from the
// population-frequency registry (1000 Genomes via Ensembl).
// Every frequency is in [0,1].
type PopulationFrequencyRecord struct {
	GlobalFrequency        *float64                   `json:"global_frequency,omitempty"`
	PerPopulationFrequency map[PopulationCode]float64 `json:"per_population_frequency,omitempty"`
	AncestralAllele        *string                    `json:"ancestral_allele,omitempty"`
	MostSevereConsequence  *string                    `json:"most_severe_consequence,omitempty"`
}

// CrossStudyRecord holds aggregated mutation data from the cross-study
// registry (cBioPortal).
type CrossStudyRecord struct {
	TotalCases                int            `json:"total_cases"`
	Studies                   []string       `json:"studies,omitempty"`
	CancerTypeCounts          map[string]int `json:"cancer_type_counts,omitempty"`
	MutationTypeCounts        map[string]int `json:"mutation_type_counts,omitempty"`
	HotspotCaseCount          int            `json:"hotspot_case_count"`
	MeanVariantAlleleFraction *float64       `json:"mean_variant_allele_fraction,omitempty"`
	SampleTypeCounts          map[string]int `json:"sample_type_counts,omitempty"`
}

// EnhancedAnnotation is the merged result of one aggregation call. A nil
// record means the source affirmatively had no data; an entry in
// FailedSources means the source errored or timed out. The two never
// overlap for the same source.
type EnhancedAnnotation struct {
	VariantID           string                     `json:"variant_id"`
	TumorRegistry       *TumorRegistryRecord       `json:"tumor_registry,omitempty"`
	PopulationFrequency *PopulationFrequencyRecord `json:"population_frequency,omitempty"`
	CrossStudy          *CrossStudyRecord          `json:"cross_study,omitempty"`
	FailedSources       []string                   `json:"failed_sources,omitempty"`
}
