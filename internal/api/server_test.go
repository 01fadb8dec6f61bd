package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmaxwell/rasterfx/internal/bridge"
	"github.com/dmaxwell/rasterfx/internal/domain"
	"github.com/dmaxwell/rasterfx/internal/raster"
	"github.com/dmaxwell/rasterfx/internal/store"
)

func TestExtractJobIDFromStartPath(t *testing.T) {
	jobID, err := extractJobIDFromStartPath("/v1/jobs/abc123/start")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if jobID != "abc123" {
		t.Fatalf("expected abc123, got %s", jobID)
	}

	if _, err := extractJobIDFromStartPath("/v1/jobs/abc123"); err == nil {
		t.Fatal("expected error for invalid path")
	}
	if _, err := extractJobIDFromStartPath("/v1/jobs//start"); err == nil {
		t.Fatal("expected error for empty job id")
	}
}

func newTestServer(t *testing.T) (*Server, *bridge.Bridge) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	b := bridge.New(logger, bridge.Options{Workers: 1})
	t.Cleanup(b.Close)

	srv := NewServer(logger, b, nil, store.NewMemoryJobStore(), nil, Options{
		ApplyTimeout: 5 * time.Second,
	})
	return srv, b
}

func applyEffectRequest(t *testing.T, job domain.EffectJob) *http.Request {
	t.Helper()
	body, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, "/v1/effects", bytes.NewReader(body))
}

func TestHandleApplyEffect(t *testing.T) {
	srv, _ := newTestServer(t)

	img, err := raster.NewBuffer(1, 1)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	copy(img.Pix, []byte{10, 20, 30, 255})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, applyEffectRequest(t, domain.EffectJob{
		ID:     "sync-1",
		Effect: "invert",
		Input:  img,
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var outcome domain.EffectOutcome
	if err := json.NewDecoder(rec.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if outcome.ID != "sync-1" {
		t.Fatalf("expected outcome for sync-1, got %q", outcome.ID)
	}
	if outcome.Failed() {
		t.Fatalf("unexpected error: %s", outcome.Err)
	}
	if want := []byte{245, 235, 225, 255}; !bytes.Equal(outcome.Output.Pix, want) {
		t.Fatalf("expected %v, got %v", want, outcome.Output.Pix)
	}
}

func TestHandleApplyEffectUnknownEffectIsData(t *testing.T) {
	srv, _ := newTestServer(t)

	img, err := raster.NewBuffer(1, 1)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	copy(img.Pix, []byte{1, 2, 3, 4})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, applyEffectRequest(t, domain.EffectJob{
		Effect: "mystery",
		Input:  img,
	}))

	// A failed effect is a successful HTTP exchange with an error payload.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var outcome domain.EffectOutcome
	if err := json.NewDecoder(rec.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !outcome.Failed() {
		t.Fatal("expected an error outcome")
	}
	if outcome.ID == "" {
		t.Fatal("expected a generated job id")
	}
	if !bytes.Equal(outcome.Output.Pix, img.Pix) {
		t.Fatal("expected pass-through pixels on failure")
	}
}

func TestHandleApplyEffectRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := map[string]string{
		"not json":       "{",
		"missing effect": `{"image":{"width":1,"height":1,"pixels":"AAAAAA=="}}`,
		"missing image":  `{"effect":"invert"}`,
		"bad dimensions": `{"effect":"invert","image":{"width":2,"height":2,"pixels":"AAAAAA=="}}`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/effects", bytes.NewReader([]byte(body)))
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestHandleApplyEffectRejectsDuplicateInFlightID(t *testing.T) {
	srv, b := newTestServer(t)

	img, err := raster.NewBuffer(1, 1)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}

	// Occupy the id so the HTTP submission collides with it.
	pending, err := b.Submit(domain.EffectJob{ID: "busy", Effect: "blur", Input: img})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-pending

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, applyEffectRequest(t, domain.EffectJob{
		ID:     "busy",
		Effect: "invert",
		Input:  img,
	}))
	// The first job already resolved, so a reused id is accepted again.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a resolved id, got %d", rec.Code)
	}
}

func TestHandleCreateJobValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader([]byte(`{"source_type":"http_url","effect":"blur"}`)))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported source_type, got %d", rec.Code)
	}
}

func TestHandleCreateJobLocalFile(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"source_type":"local_file","object_key":"testdata/input.png","effect":"grayscale"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader([]byte(body)))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
		Effect string `json:"effect"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}
	if resp.Status != domain.JobStatusCreated {
		t.Fatalf("expected status created, got %s", resp.Status)
	}
	if resp.Effect != "grayscale" {
		t.Fatalf("expected effect grayscale, got %s", resp.Effect)
	}
}

func TestHandleCreateJobPresignedWithoutStorage(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"source_type":"s3_presigned","effect":"blur"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader([]byte(body)))
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when storage is unavailable, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
