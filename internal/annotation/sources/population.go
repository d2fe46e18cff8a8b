package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"varhub/internal/annotation/models"
	"varhub/internal/platform/circuit"
	"varhub/internal/platform/pacer"
)

// populationPrefix scopes frequencies to the 1000 Genomes phase 3 call set.
const populationPrefix = "1000GENOMES:phase_3:"

// ConsequenceSelector picks a single display consequence from the flattened
// per-transcript consequence terms, in document order.
type ConsequenceSelector func(terms []string) *string

// firstUniqueConsequence returns the first term after de-duplication,
// preserving document order.
func firstUniqueConsequence(terms []string) *string {
	seen := map[string]bool{}
	for _, t := range terms {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		return strPtr(t)
	}
	return nil
}

// PopulationClient queries the Ensembl variation endpoint for 1000 Genomes
// population frequencies.
type PopulationClient struct {
	baseURL  string
	rest     *restClient
	pacer    *pacer.Pacer
	breaker  *circuit.Breaker
	selector ConsequenceSelector
	logger   *slog.Logger
}

// NewPopulationClient creates an Ensembl client. A nil selector falls back
// to firstUniqueConsequence.
func NewPopulationClient(baseURL string, p *pacer.Pacer, b *circuit.Breaker, logger *slog.Logger) (*PopulationClient, error) {
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
	return &PopulationClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		rest:     newRESTClient(nil),
		pacer:    p,
		breaker:  b,
		selector: firstUniqueConsequence,
		logger:   logger,
	}, nil
}

// WithConsequenceSelector replaces the consequence selection strategy.
func (c *PopulationClient) WithConsequenceSelector(s ConsequenceSelector) *PopulationClient {
	if s != nil {
		c.selector = s
	}
	return c
}

type variationResponse struct {
	AncestralAllele *string `json:"ancestral_allele"`
	Populations     []struct {
		Population string  `json:"population"`
		Frequency  float64 `json:"frequency"`
	} `json:"populations"`
	Mappings []struct {
		TranscriptConsequences []struct {
			ConsequenceTerms []string `json:"consequence_terms"`
		} `json:"transcript_consequences"`
	} `json:"mappings"`
}

// FetchVariant looks up a variant identifier (rsID or HGVS) and extracts
// per-population minor allele frequencies. Returns (nil, nil) when the
// registry does not know the variant or reports no frequencies.
func (c *PopulationClient) FetchVariant(ctx context.Context, variantID string) (*models.PopulationFrequencyRecord, error) {
	if !c.breaker.Allow() {
		return nil, NewSourceError(ErrorOutage, NamePopulation, "circuit open", ErrCircuitOpen)
	}

	record, err := c.fetchVariant(ctx, variantID)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}
	c.breaker.RecordSuccess()
	return record, nil
}

func (c *PopulationClient) fetchVariant(ctx context.Context, variantID string) (*models.PopulationFrequencyRecord, error) {
	if err := c.pacer.WaitIfNeeded(ctx, NamePopulation); err != nil {
		return nil, classify(NamePopulation, err)
	}

	endpoint := fmt.Sprintf("%s/variation/human/%s?pops=1",
		c.baseURL, url.PathEscape(variantID))

	var resp variationResponse
	if err := c.rest.getJSON(ctx, endpoint, &resp); err != nil {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) &&
			(statusErr.StatusCode == http.StatusBadRequest || statusErr.StatusCode == http.StatusNotFound) {
			// Unknown identifiers come back as 400/404; that is an
			// affirmative no-data answer, not a failure.
			return nil, nil
		}
		return nil, classify(NamePopulation, err)
	}

	frequencies := c.extractFrequencies(ctx, resp)
	if len(frequencies) == 0 {
		return nil, nil
	}

	record := &models.PopulationFrequencyRecord{
		AncestralAllele:       resp.AncestralAllele,
		MostSevereConsequence: c.selector(flattenConsequenceTerms(resp)),
	}
	if global, ok := frequencies[populationAll]; ok {
		record.GlobalFrequency = &global
		delete(frequencies, populationAll)
	}
	if len(frequencies) > 0 {
		perPop := make(map[models.PopulationCode]float64, len(frequencies))
		for code, f := range frequencies {
			perPop[models.PopulationCode(code)] = f
		}
		record.PerPopulationFrequency = perPop
	}
	return record, nil
}

const populationAll = "ALL"

var knownPopulationCodes = map[string]bool{
	populationAll:                       true,
	string(models.PopulationAfrican):    true,
	string(models.PopulationAmerican):   true,
	string(models.PopulationEastAsian):  true,
	string(models.PopulationEuropean):   true,
	string(models.PopulationSouthAsian): true,
}

// extractFrequencies keeps the minimum frequency per population. The
// endpoint reports one entry per allele and the alternate allele of a rare
// variant always carries the lower frequency.
func (c *PopulationClient) extractFrequencies(ctx context.Context, resp variationResponse) map[string]float64 {
	out := map[string]float64{}
	for _, pop := range resp.Populations {
		code, ok := strings.CutPrefix(pop.Population, populationPrefix)
		if !ok || !knownPopulationCodes[code] {
			continue
		}
		if pop.Frequency < 0 || pop.Frequency > 1 {
			c.logger.WarnContext(ctx, "discarding out-of-range population frequency",
				"population", pop.Population, "frequency", pop.Frequency)
			continue
		}
		if current, seen := out[code]; !seen || pop.Frequency < current {
			out[code] = pop.Frequency
		}
	}
	return out
}

func flattenConsequenceTerms(resp variationResponse) []string {
	var terms []string
	for _, mapping := range resp.Mappings {
		for _, tc := range mapping.TranscriptConsequences {
			terms = append(terms, tc.ConsequenceTerms...)
		}
	}
	return terms
}
