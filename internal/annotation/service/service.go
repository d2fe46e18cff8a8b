// Package service implements the annotation aggregation: one variant in,
// one merged record out, built from whichever registries answered.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"varhub/internal/annotation/metrics"
	"varhub/internal/annotation/models"
	"varhub/internal/annotation/sources"
	dErrors "varhub/pkg/domain-errors"
)

// TumorSource fetches occurrence data from the tumor-mutation registry.
type TumorSource interface {
	FetchVariant(ctx context.Context, key string) (*models.TumorRegistryRecord, error)
}

// PopulationSource fetches allele frequencies from the population registry.
type PopulationSource interface {
	FetchVariant(ctx context.Context, variantID string) (*models.PopulationFrequencyRecord, error)
}

// CrossStudySource aggregates mutation occurrences across studies.
type CrossStudySource interface {
	FetchVariant(ctx context.Context, gene, aaChange string) (*models.CrossStudyRecord, error)
}

// Resolver extracts gene and protein change from a raw variant document.
type Resolver interface {
	Resolve(variantData map[string]any) (gene, aaChange string, ok bool)
}

// ResultCache stores completed aggregations keyed by variant and flags.
type ResultCache interface {
	Find(ctx context.Context, key string) (*models.EnhancedAnnotation, error)
	Save(ctx context.Context, key string, annotation *models.EnhancedAnnotation) error
}

type Service struct {
	tumor      TumorSource
	population PopulationSource
	crossStudy CrossStudySource
	resolver   Resolver
	cache      ResultCache
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithResultCache(cache ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(
	tumor TumorSource,
	population PopulationSource,
	crossStudy CrossStudySource,
	resolver Resolver,
	opts ...Option,
) (*Service, error) {
	if tumor == nil {
		return nil, fmt.Errorf("tumor source is required")
	}
	if population == nil {
		return nil, fmt.Errorf("population source is required")
	}
	if crossStudy == nil {
		return nil, fmt.Errorf("cross-study source is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	svc := &Service{
		tumor:      tumor,
		population: population,
		crossStudy: crossStudy,
		resolver:   resolver,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Request describes one aggregation call. The include flags default to
// false here; the handler applies its own defaults before calling.
type Request struct {
	VariantID              string
	IncludeTCGA            bool
	IncludeThousandGenomes bool
	IncludeCBioPortal      bool
	VariantData            map[string]any
	SkipCache              bool
}

// cacheKey folds in the resolved gene and protein change. The same variant
// ID with a different variant_data blob yields a differently shaped
// annotation, so resolution output is part of the cache identity.
func (r Request) cacheKey(gene, aaChange string) string {
	return r.VariantID + "|" + gene + "|" + aaChange + "|" +
		strconv.FormatBool(r.IncludeTCGA) +
		strconv.FormatBool(r.IncludeThousandGenomes) +
		strconv.FormatBool(r.IncludeCBioPortal)
}

// GetEnhancedAnnotations fans out to the enabled registries and merges
// whatever they returned. Individual source failures never fail the call;
// they are recorded in FailedSources. The error return is reserved for
// invalid input.
func (s *Service) GetEnhancedAnnotations(ctx context.Context, req Request) (*models.EnhancedAnnotation, error) {
	if req.VariantID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "variant id is required")
	}

	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "annotation.aggregate",
			trace.WithAttributes(attribute.String("variant_id", req.VariantID)))
		defer span.End()
	}

	if s.metrics != nil {
		s.metrics.IncrementAggregations()
	}

	gene, aaChange, resolved := s.resolver.Resolve(req.VariantData)
	cacheKey := req.cacheKey(gene, aaChange)

	if cached := s.findCached(ctx, req, cacheKey); cached != nil {
		return cached, nil
	}

	// The tumor registry searches by "GENE AAchange" when one is known,
	// otherwise by the raw identifier.
	tumorKey := req.VariantID
	if resolved {
		tumorKey = gene + " " + aaChange
	}

	annotation := &models.EnhancedAnnotation{VariantID: req.VariantID}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)

	fail := func(source string, err error) {
		s.logger.WarnContext(ctx, "annotation source failed",
			"source", source, "variant_id", req.VariantID, "error", err)
		if s.metrics != nil {
			s.metrics.IncrementSourceFailures(source)
		}
		mu.Lock()
		failed = append(failed, source)
		mu.Unlock()
	}

	if req.IncludeTCGA {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := timedFetch(s, sources.NameTumorRegistry, func() (*models.TumorRegistryRecord, error) {
				return s.tumor.FetchVariant(ctx, tumorKey)
			})
			if err != nil {
				fail(sources.NameTumorRegistry, err)
				return
			}
			mu.Lock()
			annotation.TumorRegistry = record
			mu.Unlock()
		}()
	}

	if req.IncludeThousandGenomes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := timedFetch(s, sources.NamePopulation, func() (*models.PopulationFrequencyRecord, error) {
				return s.population.FetchVariant(ctx, req.VariantID)
			})
			if err != nil {
				fail(sources.NamePopulation, err)
				return
			}
			mu.Lock()
			annotation.PopulationFrequency = record
			mu.Unlock()
		}()
	}

	// The cross-study registry is keyed by gene and protein change, so it
	// only runs when resolution succeeded.
	if req.IncludeCBioPortal && resolved {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := timedFetch(s, sources.NameCrossStudy, func() (*models.CrossStudyRecord, error) {
				return s.crossStudy.FetchVariant(ctx, gene, aaChange)
			})
			if err != nil {
				fail(sources.NameCrossStudy, err)
				return
			}
			mu.Lock()
			annotation.CrossStudy = record
			mu.Unlock()
		}()
	} else if req.IncludeCBioPortal {
		s.logger.InfoContext(ctx, "skipping cross-study source, gene and protein change unresolved",
			"variant_id", req.VariantID)
	}

	wg.Wait()

	sort.Strings(failed)
	annotation.FailedSources = failed

	// Partial results are returned but not cached; a later call may get
	// the failed source back.
	if len(failed) == 0 {
		s.saveCached(ctx, req, cacheKey, annotation)
	}

	return annotation, nil
}

// timedFetch runs a source fetch and records its latency.
func timedFetch[T any](s *Service, source string, fetch func() (T, error)) (T, error) {
	start := time.Now()
	record, err := fetch()
	if s.metrics != nil {
		s.metrics.ObserveSourceLatency(source, time.Since(start))
	}
	return record, err
}

func (s *Service) findCached(ctx context.Context, req Request, key string) *models.EnhancedAnnotation {
	if s.cache == nil || req.SkipCache {
		return nil
	}
	cached, err := s.cache.Find(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "result cache read failed",
			"variant_id", req.VariantID, "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	if s.metrics != nil {
		s.metrics.IncrementCacheHits()
	}
	return cached
}

func (s *Service) saveCached(ctx context.Context, req Request, key string, annotation *models.EnhancedAnnotation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, key, annotation); err != nil {
		s.logger.WarnContext(ctx, "result cache write failed",
			"variant_id", req.VariantID, "error", err)
	}
}
