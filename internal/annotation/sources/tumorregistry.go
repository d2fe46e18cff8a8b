package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"varhub/internal/annotation/models"
	"varhub/internal/platform/circuit"
	"varhub/internal/platform/pacer"
)

// defaultConsequence is reported for registry hits; the occurrence endpoint
// does not expose per-case consequence and most catalogued variants are
// missense.
const defaultConsequence = "missense_variant"

// TumorRegistryClient queries the GDC somatic-mutation registry for tumor
// type occurrence data.
type TumorRegistryClient struct {
	baseURL string
	rest    *restClient
	pacer   *pacer.Pacer
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewTumorRegistryClient creates a GDC registry client. Pacer and breaker
// are required; they keep outbound traffic inside the registry's tolerance.
func NewTumorRegistryClient(baseURL string, p *pacer.Pacer, b *circuit.Breaker, logger *slog.Logger) (*TumorRegistryClient, error) {
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
	return &TumorRegistryClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		rest:    newRESTClient(nil),
		pacer:   p,
		breaker: b,
		logger:  logger,
	}, nil
}

// flexibleID unmarshals a field the registry returns either as a string or
// as a list of strings.
type flexibleID struct {
	Value string
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Value = s
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if len(list) > 0 {
		f.Value = list[0]
	}
	return nil
}

type ssmSearchResponse struct {
	Data struct {
		Hits []struct {
			SSMID        string     `json:"ssm_id"`
			CosmicID     flexibleID `json:"cosmic_id"`
			GeneAAChange []string   `json:"gene_aa_change"`
		} `json:"hits"`
	} `json:"data"`
}

type occurrenceResponse struct {
	Data struct {
		Hits []struct {
			Case struct {
				Project struct {
					ProjectID string `json:"project_id"`
				} `json:"project"`
			} `json:"case"`
		} `json:"hits"`
	} `json:"data"`
}

// FetchVariant looks a variant up in the registry and aggregates its tumor
// type occurrences. The key is either "GENE AAchange" (e.g. "BRAF V600E")
// or a genomic change like "chr7:g.140453136A>T". Returns (nil, nil) when
// the registry has no matching record.
func (c *TumorRegistryClient) FetchVariant(ctx context.Context, key string) (*models.TumorRegistryRecord, error) {
	if !c.breaker.Allow() {
		return nil, NewSourceError(ErrorOutage, NameTumorRegistry, "circuit open", ErrCircuitOpen)
	}

	record, err := c.fetchVariant(ctx, key)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}
	c.breaker.RecordSuccess()
	return record, nil
}

func (c *TumorRegistryClient) fetchVariant(ctx context.Context, key string) (*models.TumorRegistryRecord, error) {
	searchField := "genomic_dna_change"
	if strings.Contains(key, " ") && !strings.HasPrefix(key, "chr") {
		searchField = "gene_aa_change"
	}

	hit, err := c.searchSSM(ctx, searchField, key)
	if err != nil {
		return nil, classify(NameTumorRegistry, err)
	}
	if hit == nil {
		return nil, nil
	}

	record, err := c.aggregateOccurrences(ctx, hit.ssmID)
	if err != nil {
		// Keep what the search already told us rather than failing the
		// whole source on the secondary call.
		c.logger.WarnContext(ctx, "occurrence aggregation failed, returning minimal record",
			"variant_key", key, "error", err)
		record = &models.TumorRegistryRecord{AffectedCaseCount: intPtr(0)}
	}
	if hit.cosmicID != "" {
		record.CrossReferenceID = strPtr(hit.cosmicID)
	}
	record.Consequence = strPtr(defaultConsequence)
	return record, nil
}

type ssmHit struct {
	ssmID    string
	cosmicID string
}

func (c *TumorRegistryClient) searchSSM(ctx context.Context, field, value string) (*ssmHit, error) {
	if err := c.pacer.WaitIfNeeded(ctx, NameTumorRegistry); err != nil {
		return nil, err
	}

	filters, err := json.Marshal(map[string]any{
		"op": "in",
		"content": map[string]any{
			"field": field,
			"value": []string{value},
		},
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("filters", string(filters))
	params.Set("fields", "cosmic_id,genomic_dna_change,gene_aa_change,ssm_id")
	params.Set("format", "json")
	// A few hits in case the mutation maps to multiple records.
	params.Set("size", "5")

	var resp ssmSearchResponse
	if err := c.rest.getJSON(ctx, c.baseURL+"/ssms?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.Hits) == 0 {
		return nil, nil
	}

	first := resp.Data.Hits[0]
	if field == "gene_aa_change" && len(first.GeneAAChange) > 0 {
		// An SSM can carry several AA changes; make sure ours is one of
		// them before trusting the hit.
		found := false
		for _, aa := range first.GeneAAChange {
			if aa == value {
				found = true
				break
			}
		}
		if !found {
			return nil, nil
		}
	}
	if first.SSMID == "" {
		return nil, nil
	}
	return &ssmHit{ssmID: first.SSMID, cosmicID: first.CosmicID.Value}, nil
}

func (c *TumorRegistryClient) aggregateOccurrences(ctx context.Context, ssmID string) (*models.TumorRegistryRecord, error) {
	if err := c.pacer.WaitIfNeeded(ctx, NameTumorRegistry); err != nil {
		return nil, err
	}

	filters, err := json.Marshal(map[string]any{
		"op": "in",
		"content": map[string]any{
			"field": "ssm.ssm_id",
			"value": []string{ssmID},
		},
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("filters", string(filters))
	params.Set("fields", "case.project.project_id")
	params.Set("format", "json")
	params.Set("size", "2000")

	var resp occurrenceResponse
	if err := c.rest.getJSON(ctx, c.baseURL+"/ssm_occurrences?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	projectCounts := map[string]int{}
	for _, hit := range resp.Data.Hits {
		if id := hit.Case.Project.ProjectID; id != "" {
			projectCounts[id]++
		}
	}

	tumorTypes := make([]string, 0, len(projectCounts))
	total := 0
	for projectID, count := range projectCounts {
		tumorTypes = append(tumorTypes, tumorTypeFromProject(projectID))
		total += count
	}
	sort.Strings(tumorTypes)

	return &models.TumorRegistryRecord{
		TumorTypes:        tumorTypes,
		AffectedCaseCount: intPtr(total),
	}, nil
}

// tumorTypeFromProject maps a project identifier to a tumor type code.
// TCGA projects use the suffix ("TCGA-LUAD" is LUAD); other consortia keep
// the full identifier ("MMRF-COMMPASS", "CPTAC-3").
func tumorTypeFromProject(projectID string) string {
	if strings.HasPrefix(projectID, "TCGA-") {
		parts := strings.Split(projectID, "-")
		return parts[len(parts)-1]
	}
	return projectID
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
