package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRenderOmitsMissingSections(t *testing.T) {
	a := &EnhancedAnnotation{VariantID: "chr7:g.140453136A>T"}

	out := a.Render()

	assert.Equal(t, "chr7:g.140453136A>T", out["variant_id"])
	external, ok := out["external_annotations"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, external)
}

func TestRenderTumorRegistrySection(t *testing.T) {
	a := &EnhancedAnnotation{
		VariantID: "rs113488022",
		TumorRegistry: &TumorRegistryRecord{
			CrossReferenceID:  ptr("COSM476"),
			TumorTypes:        []string{"LUAD", "SKCM"},
			AffectedCaseCount: ptr(120),
			Consequence:       ptr("missense_variant"),
		},
	}

	external := a.Render()["external_annotations"].(map[string]any)
	section, ok := external["tumor_registry"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "COSM476", section["cross_reference_id"])
	assert.Equal(t, []string{"LUAD", "SKCM"}, section["tumor_types"])
	assert.Equal(t, 120, section["affected_cases"])
	assert.Equal(t, "missense_variant", section["consequence"])
}

func TestRenderPopulationNames(t *testing.T) {
	a := &EnhancedAnnotation{
		VariantID: "rs113488022",
		PopulationFrequency: &PopulationFrequencyRecord{
			GlobalFrequency: ptr(0.0002),
			PerPopulationFrequency: map[PopulationCode]float64{
				PopulationAfrican:    0.0001,
				PopulationEastAsian:  0.0003,
				PopulationSouthAsian: 0.0002,
			},
		},
	}

	external := a.Render()["external_annotations"].(map[string]any)
	section := external["population_frequency"].(map[string]any)
	freqs, ok := section["population_frequencies"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.0001, freqs["african"])
	assert.Equal(t, 0.0003, freqs["east_asian"])
	assert.Equal(t, 0.0002, freqs["south_asian"])
	assert.NotContains(t, freqs, "european")
}

func TestRenderCrossStudyOmitsZeroHotspots(t *testing.T) {
	a := &EnhancedAnnotation{
		VariantID: "BRAF V600E",
		CrossStudy: &CrossStudyRecord{
			TotalCases:       42,
			Studies:          []string{"msk_impact_2017"},
			CancerTypeCounts: map[string]int{"Melanoma": 42},
		},
	}

	external := a.Render()["external_annotations"].(map[string]any)
	section := external["cross_study"].(map[string]any)
	assert.Equal(t, 42, section["total_cases"])
	assert.NotContains(t, section, "hotspot_samples")
	assert.NotContains(t, section, "mean_vaf")
	assert.NotContains(t, section, "sample_types")
}

func TestRenderFailedSources(t *testing.T) {
	a := &EnhancedAnnotation{
		VariantID:     "rs113488022",
		FailedSources: []string{"cbioportal", "tcga"},
	}

	external := a.Render()["external_annotations"].(map[string]any)
	assert.Equal(t, []string{"cbioportal", "tcga"}, external["errors"])
}
