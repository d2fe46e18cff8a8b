package sources

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"varhub/internal/annotation/models"
	"varhub/internal/platform/circuit"
	"varhub/internal/platform/pacer"
)

// StudyCache caches study metadata lookups. Study records never change, so
// cached cancer type names are reused across aggregations.
type StudyCache interface {
	FindCancerType(ctx context.Context, studyID string) (string, error)
	SaveCancerType(ctx context.Context, studyID, cancerType string) error
}

// CrossStudyClient aggregates per-mutation case counts across cBioPortal
// studies.
type CrossStudyClient struct {
	baseURL    string
	rest       *restClient
	pacer      *pacer.Pacer
	breaker    *circuit.Breaker
	studyCache StudyCache
	logger     *slog.Logger
}

// NewCrossStudyClient creates a cBioPortal client. bearerToken may be empty
// for anonymous access; cache may be nil to disable study metadata caching.
func NewCrossStudyClient(baseURL, bearerToken string, p *pacer.Pacer, b *circuit.Breaker, cache StudyCache, logger *slog.Logger) (*CrossStudyClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if p == nil {
		return nil, fmt.Errorf("pacer is required")
	}
	if b == nil {
		return nil, fmt.Errorf("circuit breaker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var headers map[string]string
	if bearerToken != "" {
		headers = map[string]string{"Authorization": bearerToken}
	}
	return &CrossStudyClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		rest:       newRESTClient(headers),
		pacer:      p,
		breaker:    b,
		studyCache: cache,
		logger:     logger,
	}, nil
}

type geneResponse struct {
	EntrezGeneID int `json:"entrezGeneId"`
}

type molecularProfile struct {
	MolecularProfileID      string `json:"molecularProfileId"`
	StudyID                 string `json:"studyId"`
	MolecularAlterationType string `json:"molecularAlterationType"`
}

type studyResponse struct {
	CancerType struct {
		Name string `json:"name"`
	} `json:"cancerType"`
}

type mutation struct {
	ProteinChange string `json:"proteinChange"`
	StudyID       string `json:"studyId"`
	SampleID      string `json:"sampleId"`
	MutationType  string `json:"mutationType"`
	Keyword       string `json:"keyword"`
	IsHotspot     bool   `json:"isHotspot"`
	TumorAltCount *int   `json:"tumorAltCount"`
	TumorRefCount *int   `json:"tumorRefCount"`
}

// FetchVariant aggregates occurrences of a protein change across the
// studies relevant to the gene. Returns (nil, nil) when no study reports a
// matching case.
func (c *CrossStudyClient) FetchVariant(ctx context.Context, gene, aaChange string) (*models.CrossStudyRecord, error) {
	if !c.breaker.Allow() {
		return nil, NewSourceError(ErrorOutage, NameCrossStudy, "circuit open", ErrCircuitOpen)
	}

	record, err := c.fetchVariant(ctx, gene, aaChange)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}
	c.breaker.RecordSuccess()
	return record, nil
}

func (c *CrossStudyClient) fetchVariant(ctx context.Context, gene, aaChange string) (*models.CrossStudyRecord, error) {
	gene = SanitizeGeneSymbol(gene)
	if gene == "" {
		return nil, NewSourceError(ErrorBadData, NameCrossStudy, "invalid gene symbol", nil)
	}
	if aaChange == "" {
		return nil, NewSourceError(ErrorBadData, NameCrossStudy, "missing amino acid change", nil)
	}

	entrezID, profiles, err := c.fetchGeneAndProfiles(ctx, gene)
	if err != nil {
		return nil, err
	}

	relevant := filterProfiles(profiles, CancerKeywords(gene))
	if len(relevant) == 0 {
		return nil, nil
	}
	if len(relevant) > maxStudiesQueried {
		relevant = relevant[:maxStudiesQueried]
	}

	cancerTypes, mutations := c.fetchStudyData(ctx, relevant, entrezID)
	if len(mutations) == 0 {
		return nil, nil
	}

	return buildCrossStudyRecord(mutations, aaChange, cancerTypes), nil
}

// fetchGeneAndProfiles resolves the gene's Entrez ID and lists molecular
// profiles, in parallel. Either failing fails the source.
func (c *CrossStudyClient) fetchGeneAndProfiles(ctx context.Context, gene string) (int, []molecularProfile, error) {
	var (
		geneResp geneResponse
		profiles []molecularProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.pacer.WaitIfNeeded(gctx, NameCrossStudy); err != nil {
			return err
		}
		return c.rest.getJSONRetry(gctx, c.baseURL+"/genes/"+url.PathEscape(gene), &geneResp)
	})
	g.Go(func() error {
		if err := c.pacer.WaitIfNeeded(gctx, NameCrossStudy); err != nil {
			return err
		}
		return c.rest.getJSONRetry(gctx, c.baseURL+"/molecular-profiles", &profiles)
	})
	if err := g.Wait(); err != nil {
		return 0, nil, classify(NameCrossStudy, err)
	}
	if geneResp.EntrezGeneID == 0 {
		return 0, nil, NewSourceError(ErrorBadData, NameCrossStudy,
			fmt.Sprintf("no Entrez ID for gene %s", gene), nil)
	}
	return geneResp.EntrezGeneID, profiles, nil
}

// filterProfiles keeps mutation profiles whose study matches one of the
// gene's cancer keywords, capped at maxStudiesPerGene.
func filterProfiles(profiles []molecularProfile, keywords []string) []molecularProfile {
	var out []molecularProfile
	for _, p := range profiles {
		if p.MolecularAlterationType != "MUTATION_EXTENDED" {
			continue
		}
		studyID := strings.ToLower(p.StudyID)
		for _, kw := range keywords {
			if strings.Contains(studyID, kw) {
				out = append(out, p)
				break
			}
		}
		if len(out) >= maxStudiesPerGene {
			break
		}
	}
	return out
}

// fetchStudyData fetches study metadata and per-profile mutations in
// parallel. Individual failures are logged and skipped; the remaining
// studies still contribute.
func (c *CrossStudyClient) fetchStudyData(ctx context.Context, profiles []molecularProfile, entrezID int) (map[string]string, []mutation) {
	var (
		mu          sync.Mutex
		cancerTypes = map[string]string{}
		mutations   []mutation
	)

	seen := map[string]bool{}
	g, gctx := errgroup.WithContext(ctx)

	for _, p := range profiles {
		if p.MolecularProfileID == "" || p.StudyID == "" {
			continue
		}

		if !seen[p.StudyID] {
			seen[p.StudyID] = true
			studyID := p.StudyID
			g.Go(func() error {
				name := c.cancerTypeName(gctx, studyID)
				mu.Lock()
				cancerTypes[studyID] = name
				mu.Unlock()
				return nil
			})
		}

		profileID := p.MolecularProfileID
		studyID := p.StudyID
		g.Go(func() error {
			muts, err := c.fetchMutations(gctx, profileID, studyID, entrezID)
			if err != nil {
				c.logger.WarnContext(gctx, "skipping profile after mutation fetch failure",
					"profile_id", profileID, "error", err)
				return nil
			}
			mu.Lock()
			mutations = append(mutations, muts...)
			mu.Unlock()
			return nil
		})
	}

	// Goroutines swallow their own errors, Wait cannot fail.
	_ = g.Wait()
	return cancerTypes, mutations
}

func (c *CrossStudyClient) cancerTypeName(ctx context.Context, studyID string) string {
	if c.studyCache != nil {
		if name, err := c.studyCache.FindCancerType(ctx, studyID); err == nil && name != "" {
			return name
		}
	}

	if err := c.pacer.WaitIfNeeded(ctx, NameCrossStudy); err != nil {
		return "Unknown"
	}
	var study studyResponse
	if err := c.rest.getJSONRetry(ctx, c.baseURL+"/studies/"+url.PathEscape(studyID), &study); err != nil {
		c.logger.WarnContext(ctx, "study metadata fetch failed",
			"study_id", studyID, "error", err)
		return "Unknown"
	}

	name := study.CancerType.Name
	if name == "" {
		name = "Unknown"
	}
	if c.studyCache != nil && name != "Unknown" {
		if err := c.studyCache.SaveCancerType(ctx, studyID, name); err != nil {
			c.logger.WarnContext(ctx, "study cache write failed",
				"study_id", studyID, "error", err)
		}
	}
	return name
}

func (c *CrossStudyClient) fetchMutations(ctx context.Context, profileID, studyID string, entrezID int) ([]mutation, error) {
	if err := c.pacer.WaitIfNeeded(ctx, NameCrossStudy); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("sampleListId", studyID+"_all")
	params.Set("geneIdType", "ENTREZ_GENE_ID")
	params.Set("geneIds", strconv.Itoa(entrezID))
	params.Set("projection", "SUMMARY")

	endpoint := fmt.Sprintf("%s/molecular-profiles/%s/mutations?%s",
		c.baseURL, url.PathEscape(profileID), params.Encode())

	var muts []mutation
	if err := c.rest.getJSONRetry(ctx, endpoint, &muts); err != nil {
		return nil, err
	}
	return muts, nil
}

// isHotspotMutation reports whether a mutation record marks a known
// hotspot, either via the explicit flag or the annotation keyword.
func isHotspotMutation(m mutation) bool {
	return m.IsHotspot || strings.Contains(strings.ToLower(m.Keyword), "hotspot")
}

// buildCrossStudyRecord reduces the fetched mutations to the aggregate
// record: unique samples per study, cancer and mutation type distributions,
// hotspot count and mean variant allele fraction.
func buildCrossStudyRecord(mutations []mutation, aaChange string, cancerTypes map[string]string) *models.CrossStudyRecord {
	wantSuffix := strings.ToUpper(aaChange)

	studySamples := map[string]map[string]bool{}
	cancerTypeCounts := map[string]int{}
	mutationTypeCounts := map[string]int{}
	sampleTypeCounts := map[string]int{}
	hotspots := 0
	var vafs []float64

	for _, m := range mutations {
		if m.ProteinChange == "" ||
			!strings.HasSuffix(strings.ToUpper(m.ProteinChange), wantSuffix) {
			continue
		}
		if m.SampleID == "" {
			continue
		}

		studyID := m.StudyID
		if studyID == "" {
			studyID = "unknown"
		}
		if studySamples[studyID] == nil {
			studySamples[studyID] = map[string]bool{}
		}
		studySamples[studyID][m.SampleID] = true

		cancerType := cancerTypes[studyID]
		if cancerType == "" {
			cancerType = "Unknown"
		}
		cancerTypeCounts[cancerType]++

		mutationType := m.MutationType
		if mutationType == "" {
			mutationType = "Unknown"
		}
		mutationTypeCounts[mutationType]++

		if isHotspotMutation(m) {
			hotspots++
		}

		if m.TumorAltCount != nil && m.TumorRefCount != nil {
			alt, ref := *m.TumorAltCount, *m.TumorRefCount
			if alt+ref > 0 {
				vafs = append(vafs, float64(alt)/float64(alt+ref))
			}
		}

		// Sample type needs per-case clinical data, which would be one
		// call per sample. Bucket as Unknown.
		sampleTypeCounts["Unknown"]++
	}

	studies := make([]string, 0, len(studySamples))
	totalCases := 0
	for studyID, samples := range studySamples {
		studies = append(studies, studyID)
		totalCases += len(samples)
	}
	if totalCases == 0 {
		return nil
	}
	sort.Strings(studies)

	record := &models.CrossStudyRecord{
		TotalCases:         totalCases,
		Studies:            studies,
		CancerTypeCounts:   cancerTypeCounts,
		MutationTypeCounts: mutationTypeCounts,
		HotspotCaseCount:   hotspots,
		SampleTypeCounts:   sampleTypeCounts,
	}
	if len(vafs) > 0 {
		sum := 0.0
		for _, v := range vafs {
			sum += v
		}
		mean := math.Round(sum/float64(len(vafs))*1000) / 1000
		record.MeanVariantAlleleFraction = &mean
	}
	return record
}
