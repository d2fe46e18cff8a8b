package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudyCache struct {
	mu    sync.Mutex
	types map[string]string
	saves int
}

func (f *fakeStudyCache) FindCancerType(_ context.Context, studyID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.types[studyID], nil
}

func (f *fakeStudyCache) SaveCancerType(_ context.Context, studyID, cancerType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.types == nil {
		f.types = map[string]string{}
	}
	f.types[studyID] = cancerType
	f.saves++
	return nil
}

// crossStudyServer serves a minimal cBioPortal shape: one gene, two
// melanoma mutation profiles, and per-profile mutations.
func crossStudyServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/genes/BRAF":
			json.NewEncoder(w).Encode(map[string]any{"entrezGeneId": 673})
		case r.URL.Path == "/molecular-profiles":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"molecularProfileId":      "skcm_tcga_mutations",
					"studyId":                 "skcm_tcga",
					"molecularAlterationType": "MUTATION_EXTENDED",
				},
				{
					"molecularProfileId":      "skcm_tcga_gistic",
					"studyId":                 "skcm_tcga",
					"molecularAlterationType": "COPY_NUMBER_ALTERATION",
				},
				{
					"molecularProfileId":      "skcm_dfci_mutations",
					"studyId":                 "skcm_dfci",
					"molecularAlterationType": "MUTATION_EXTENDED",
				},
				{
					"molecularProfileId":      "brca_tcga_mutations",
					"studyId":                 "brca_tcga",
					"molecularAlterationType": "MUTATION_EXTENDED",
				},
			})
		case strings.HasPrefix(r.URL.Path, "/studies/"):
			json.NewEncoder(w).Encode(map[string]any{
				"cancerType": map[string]any{"name": "Melanoma"},
			})
		case r.URL.Path == "/molecular-profiles/skcm_tcga_mutations/mutations":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"proteinChange": "V600E",
					"studyId":       "skcm_tcga",
					"sampleId":      "s1",
					"mutationType":  "Missense_Mutation",
					"keyword":       "BRAF V600 hotspot",
					"tumorAltCount": 10,
					"tumorRefCount": 90,
				},
				{
					"proteinChange": "p.V600E",
					"studyId":       "skcm_tcga",
					"sampleId":      "s2",
					"mutationType":  "Missense_Mutation",
					"isHotspot":     true,
					"tumorAltCount": 5,
					"tumorRefCount": 5,
				},
				{
					"proteinChange": "G469A",
					"studyId":       "skcm_tcga",
					"sampleId":      "s3",
					"mutationType":  "Missense_Mutation",
				},
			})
		case r.URL.Path == "/molecular-profiles/skcm_dfci_mutations/mutations":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"proteinChange": "V600E",
					"studyId":       "skcm_dfci",
					"sampleId":      "d1",
					"mutationType":  "Missense_Mutation",
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newCrossStudyClient(t *testing.T, baseURL string, cache StudyCache) *CrossStudyClient {
	t.Helper()
	c, err := NewCrossStudyClient(baseURL, "", testPacer(), testBreaker(), cache, testLogger())
	require.NoError(t, err)
	return c
}

func TestCrossStudyAggregation(t *testing.T) {
	srv := crossStudyServer(t)
	defer srv.Close()

	cache := &fakeStudyCache{}
	record, err := newCrossStudyClient(t, srv.URL, cache).FetchVariant(context.Background(), "BRAF", "V600E")
	require.NoError(t, err)
	require.NotNil(t, record)

	// Three matching mutations across two studies, unique samples each.
	assert.Equal(t, 3, record.TotalCases)
	assert.Equal(t, []string{"skcm_dfci", "skcm_tcga"}, record.Studies)
	assert.Equal(t, 3, record.CancerTypeCounts["Melanoma"])
	assert.Equal(t, 3, record.MutationTypeCounts["Missense_Mutation"])
	assert.Equal(t, 2, record.HotspotCaseCount)

	// VAFs 0.1 and 0.5 from the two skcm mutations.
	require.NotNil(t, record.MeanVariantAlleleFraction)
	assert.Equal(t, 0.3, *record.MeanVariantAlleleFraction)

	// Both study lookups should have been cached.
	assert.Equal(t, 2, cache.saves)
}

func TestCrossStudySuffixMatchIsCaseInsensitive(t *testing.T) {
	muts := []mutation{
		{ProteinChange: "p.v600e", StudyID: "s", SampleID: "a"},
		{ProteinChange: "V600E", StudyID: "s", SampleID: "b"},
		{ProteinChange: "V600K", StudyID: "s", SampleID: "c"},
	}

	record := buildCrossStudyRecord(muts, "V600E", nil)
	require.NotNil(t, record)
	assert.Equal(t, 2, record.TotalCases)
}

func TestCrossStudySuffixMatchAcceptsLongerChanges(t *testing.T) {
	// Matching is suffix-only: a composite change ending with the queried
	// one still counts.
	muts := []mutation{
		{ProteinChange: "p.A146V600E", StudyID: "s", SampleID: "a"},
	}

	record := buildCrossStudyRecord(muts, "V600E", nil)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.TotalCases)
}

func TestCrossStudyDuplicateSamplesCountOnce(t *testing.T) {
	muts := []mutation{
		{ProteinChange: "V600E", StudyID: "s", SampleID: "a"},
		{ProteinChange: "V600E", StudyID: "s", SampleID: "a"},
	}

	record := buildCrossStudyRecord(muts, "V600E", nil)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.TotalCases)
}

func TestCrossStudyNoMatchesReturnsNil(t *testing.T) {
	record := buildCrossStudyRecord([]mutation{
		{ProteinChange: "V600K", StudyID: "s", SampleID: "a"},
	}, "V600E", nil)
	assert.Nil(t, record)
}

func TestCrossStudyInvalidGeneFailsFast(t *testing.T) {
	client := newCrossStudyClient(t, "http://localhost:1", nil)

	_, err := client.FetchVariant(context.Background(), "INVALID", "V600E")
	require.Error(t, err)
	assert.Equal(t, ErrorBadData, GetCategory(err))
}

func TestCrossStudyProfileFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/genes/BRAF":
			json.NewEncoder(w).Encode(map[string]any{"entrezGeneId": 673})
		case r.URL.Path == "/molecular-profiles":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"molecularProfileId":      "skcm_tcga_mutations",
					"studyId":                 "skcm_tcga",
					"molecularAlterationType": "MUTATION_EXTENDED",
				},
				{
					"molecularProfileId":      "skcm_dfci_mutations",
					"studyId":                 "skcm_dfci",
					"molecularAlterationType": "MUTATION_EXTENDED",
				},
			})
		case strings.HasPrefix(r.URL.Path, "/studies/"):
			json.NewEncoder(w).Encode(map[string]any{
				"cancerType": map[string]any{"name": "Melanoma"},
			})
		case r.URL.Path == "/molecular-profiles/skcm_tcga_mutations/mutations":
			// Non-retriable failure for this one profile.
			http.Error(w, "nope", http.StatusUnprocessableEntity)
		case r.URL.Path == "/molecular-profiles/skcm_dfci_mutations/mutations":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"proteinChange": "V600E",
					"studyId":       "skcm_dfci",
					"sampleId":      "d1",
					"mutationType":  "Missense_Mutation",
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	record, err := newCrossStudyClient(t, srv.URL, nil).FetchVariant(context.Background(), "BRAF", "V600E")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.TotalCases)
	assert.Equal(t, []string{"skcm_dfci"}, record.Studies)
}

func TestFilterProfilesKeywordAndTypeFilter(t *testing.T) {
	profiles := []molecularProfile{
		{MolecularProfileID: "a", StudyID: "skcm_tcga", MolecularAlterationType: "MUTATION_EXTENDED"},
		{MolecularProfileID: "b", StudyID: "skcm_tcga", MolecularAlterationType: "COPY_NUMBER_ALTERATION"},
		{MolecularProfileID: "c", StudyID: "brca_tcga", MolecularAlterationType: "MUTATION_EXTENDED"},
	}

	out := filterProfiles(profiles, []string{"skcm"})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].MolecularProfileID)
}

func TestIsHotspotMutation(t *testing.T) {
	assert.True(t, isHotspotMutation(mutation{IsHotspot: true}))
	assert.True(t, isHotspotMutation(mutation{Keyword: "BRAF V600 Hotspot"}))
	assert.False(t, isHotspotMutation(mutation{Keyword: "BRAF V600"}))
}
