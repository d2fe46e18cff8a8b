package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varhub/internal/annotation/models"
	"varhub/internal/annotation/service"
	"varhub/internal/platform/metrics"
	dErrors "varhub/pkg/domain-errors"
)

type stubService struct {
	gotReq     service.Request
	annotation *models.EnhancedAnnotation
	err        error
}

func (s *stubService) GetEnhancedAnnotations(_ context.Context, req service.Request) (*models.EnhancedAnnotation, error) {
	s.gotReq = req
	return s.annotation, s.err
}

// metrics.New registers collectors with the global Prometheus registry, so it
// can only be called once per process; share one instance across tests.
var testMetrics = metrics.New()

func newTestRouter(svc Service) http.Handler {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), testMetrics, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postAnnotations(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/variants/annotations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnnotateRendersResult(t *testing.T) {
	affected := 12
	svc := &stubService{
		annotation: &models.EnhancedAnnotation{
			VariantID: "rs113488022",
			TumorRegistry: &models.TumorRegistryRecord{
				TumorTypes:        []string{"SKCM"},
				AffectedCaseCount: &affected,
			},
			FailedSources: []string{"cbioportal"},
		},
	}

	rec := postAnnotations(t, newTestRouter(svc), `{"variant_id":"rs113488022"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rs113488022", body["variant_id"])

	external := body["external_annotations"].(map[string]any)
	assert.Contains(t, external, "tumor_registry")
	assert.Equal(t, []any{"cbioportal"}, external["errors"])
}

func TestAnnotateDefaultsIncludeFlags(t *testing.T) {
	svc := &stubService{annotation: &models.EnhancedAnnotation{VariantID: "rs1"}}

	rec := postAnnotations(t, newTestRouter(svc), `{"variant_id":"rs1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, svc.gotReq.IncludeTCGA)
	assert.True(t, svc.gotReq.IncludeThousandGenomes)
	assert.True(t, svc.gotReq.IncludeCBioPortal)
}

func TestAnnotateHonorsExplicitFlags(t *testing.T) {
	svc := &stubService{annotation: &models.EnhancedAnnotation{VariantID: "rs1"}}

	rec := postAnnotations(t, newTestRouter(svc),
		`{"variant_id":"rs1","include_tcga":false,"include_cbioportal":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, svc.gotReq.IncludeTCGA)
	assert.True(t, svc.gotReq.IncludeThousandGenomes)
	assert.False(t, svc.gotReq.IncludeCBioPortal)
}

func TestAnnotateMissingVariantID(t *testing.T) {
	rec := postAnnotations(t, newTestRouter(&stubService{}), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body["error"])
}

func TestAnnotateMalformedBody(t *testing.T) {
	rec := postAnnotations(t, newTestRouter(&stubService{}), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotateServiceBadRequestPassesThrough(t *testing.T) {
	svc := &stubService{err: dErrors.New(dErrors.CodeBadRequest, "variant id is required")}

	rec := postAnnotations(t, newTestRouter(svc), `{"variant_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotateInternalErrorIsOpaque(t *testing.T) {
	svc := &stubService{err: errors.New("redis exploded")}

	rec := postAnnotations(t, newTestRouter(svc), `{"variant_id":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis exploded")
}

func TestAnnotateVariantDataForwarded(t *testing.T) {
	svc := &stubService{annotation: &models.EnhancedAnnotation{VariantID: "rs1"}}

	rec := postAnnotations(t, newTestRouter(svc),
		`{"variant_id":"rs1","variant_data":{"docm":{"gene":"BRAF"}},"skip_cache":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, svc.gotReq.SkipCache)
	require.Contains(t, svc.gotReq.VariantData, "docm")
}
