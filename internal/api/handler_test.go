package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
	"github.com/hemingto/boombox-11.0-sub001/internal/packing"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func newTestEngine(t *testing.T) packing.Engine {
	t.Helper()

	engine, err := packing.New(catalog.NewDefault(), packing.DefaultContainer(), packing.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("packing.New returned error: %v", err)
	}
	return engine
}

func setupTestRouter(t *testing.T) (http.Handler, *controllableClock) {
	t.Helper()

	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	handler := NewHandler(newTestEngine(t), catalog.NewDefault(), WithClock(clock.Now))
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, WithLogging(false))

	return router, clock
}

func postJSON(t *testing.T, router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type estimateBody struct {
	TotalCubicFeet           float64 `json:"totalCubicFeet"`
	UnitsRecommended         int     `json:"unitsRecommended"`
	ContainerCount           int     `json:"containerCount"`
	LastContainerFillPercent float64 `json:"lastContainerFillPercent"`
	PackedItems              []struct {
		Key            string  `json:"key"`
		ContainerIndex int     `json:"containerIndex"`
		X              float64 `json:"x"`
		Y              float64 `json:"y"`
		Z              float64 `json:"z"`
	} `json:"packedItems"`
	Warnings []struct {
		Code   string `json:"code"`
		ItemID string `json:"itemId"`
	} `json:"warnings"`
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Items []catalog.Item `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != len(catalog.DefaultItems()) {
		t.Fatalf("expected %d items, got %d", len(catalog.DefaultItems()), len(body.Items))
	}
	for i := 1; i < len(body.Items); i++ {
		if body.Items[i-1].ID >= body.Items[i].ID {
			t.Fatalf("expected items sorted by id, got %s before %s", body.Items[i-1].ID, body.Items[i].ID)
		}
	}
}

func TestCatalogEndpointFiltersByCategory(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog?category=boxes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body struct {
		Items []catalog.Item `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(body.Items))
	}
	for _, item := range body.Items {
		if item.Category != "boxes" {
			t.Fatalf("unexpected category %s", item.Category)
		}
	}
}

func TestContainerEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/container", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body struct {
		Container  packing.Container `json:"container"`
		CubicFeet  float64           `json:"cubicFeet"`
		FillFactor float64           `json:"fillFactor"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.CubicFeet != 384 {
		t.Fatalf("expected 384 cubic feet, got %g", body.CubicFeet)
	}
	if body.FillFactor != packing.DefaultFillFactor {
		t.Fatalf("expected default fill factor, got %g", body.FillFactor)
	}
}

func TestEstimateEndpointSingleItem(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", map[string]any{
		"customItems": []map[string]any{
			{"id": "cube", "name": "Cube", "width": 24, "depth": 24, "height": 24},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body estimateBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.ContainerCount != 1 {
		t.Fatalf("expected 1 container, got %d", body.ContainerCount)
	}
	if len(body.PackedItems) != 1 {
		t.Fatalf("expected 1 packed item, got %d", len(body.PackedItems))
	}
	p := body.PackedItems[0]
	if p.X != 0 || p.Y != 0 || p.Z != 0 || p.ContainerIndex != 0 {
		t.Fatalf("expected item at origin of container 0, got %+v", p)
	}
	if body.LastContainerFillPercent < 2.08 || body.LastContainerFillPercent > 2.09 {
		t.Fatalf("expected fill around 2.08%%, got %g", body.LastContainerFillPercent)
	}
	if body.UnitsRecommended != 1 {
		t.Fatalf("expected 1 unit recommended, got %d", body.UnitsRecommended)
	}
}

func TestEstimateEndpointEmptySelection(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body estimateBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ContainerCount != 0 || body.UnitsRecommended != 0 || len(body.PackedItems) != 0 {
		t.Fatalf("expected zero state, got %+v", body)
	}
}

func TestEstimateEndpointReportsUnknownItems(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", map[string]any{
		"items": []map[string]any{
			{"itemId": "sofa", "quantity": 1},
			{"itemId": "hovercraft", "quantity": 2},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body estimateBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Warnings) != 1 || body.Warnings[0].ItemID != "hovercraft" {
		t.Fatalf("expected a warning for hovercraft, got %+v", body.Warnings)
	}
	if len(body.PackedItems) != 1 {
		t.Fatalf("expected only the sofa to be packed, got %d items", len(body.PackedItems))
	}
}

func TestEstimateEndpointItemTooLarge(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", map[string]any{
		"customItems": []map[string]any{
			{"id": "gazebo", "width": 120, "depth": 120, "height": 120},
		},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body struct {
		Suggestion string   `json:"suggestion"`
		Items      []string `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Suggestion == "" {
		t.Fatalf("expected suggestion to be populated")
	}
	if len(body.Items) != 1 || body.Items[0] != "gazebo" {
		t.Fatalf("expected gazebo to be reported, got %v", body.Items)
	}
}

func TestEstimateEndpointRejectsBadInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	cases := map[string]any{
		"negative quantity": map[string]any{"items": []map[string]any{{"itemId": "sofa", "quantity": -1}}},
		"zero dimension":    map[string]any{"customItems": []map[string]any{{"id": "flat", "width": 0, "depth": 1, "height": 1}}},
	}
	for name, payload := range cases {
		rec := postJSON(t, router, "/api/estimate", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/estimate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestEstimateEndpointRejectsTooManyItems(t *testing.T) {
	router, _ := setupTestRouter(t)

	cases := map[string]any{
		"huge quantity": map[string]any{"items": []map[string]any{{"itemId": "box-small", "quantity": 3000000}}},
		"overflowing merge": map[string]any{"items": []map[string]any{
			{"itemId": "box-small", "quantity": math.MaxInt},
			{"itemId": "box-small", "quantity": math.MaxInt},
		}},
		"just over the limit": map[string]any{"items": []map[string]any{{"itemId": "lamp", "quantity": packing.MaxInstances + 1}}},
	}
	for name, payload := range cases {
		start := time.Now()
		rec := postJSON(t, router, "/api/estimate", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", name, rec.Code)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Fatalf("%s: rejection took %s", name, elapsed)
		}

		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s: failed to decode response: %v", name, err)
		}
		if body.Error != "Too many items" {
			t.Fatalf("%s: expected too-many-items error, got %q", name, body.Error)
		}
	}

	rec := postJSON(t, router, "/api/estimate/manifest?format=pdf", cases["huge quantity"])
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("manifest: expected status 400, got %d", rec.Code)
	}
}

func TestEstimateEndpointRejectsDuplicateCustomIDs(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", map[string]any{
		"customItems": []map[string]any{
			{"width": 10, "depth": 10, "height": 10},
			{"id": "custom-0", "width": 20, "depth": 20, "height": 20},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for colliding keys, got %d", rec.Code)
	}
}

func TestEstimateEndpointRejectsOversizedBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	items := make([]map[string]any, 0, 40000)
	for i := range 40000 {
		items = append(items, map[string]any{"itemId": fmt.Sprintf("unknown-item-%d", i), "quantity": 0})
	}
	rec := postJSON(t, router, "/api/estimate", map[string]any{"items": items})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
}

func TestEstimateEndpointIsDeterministic(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := map[string]any{
		"items": []map[string]any{
			{"itemId": "box-medium", "quantity": 12},
			{"itemId": "dresser", "quantity": 1},
			{"itemId": "dining-chair", "quantity": 4},
		},
		"customItems": []map[string]any{
			{"name": "Mirror", "width": 30, "depth": 3, "height": 48},
		},
	}

	decode := func() map[string]any {
		rec := postJSON(t, router, "/api/estimate", payload)
		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		delete(body, "calculationTimeMs")
		return body
	}

	first, err := json.Marshal(decode())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(decode())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical responses\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestManifestEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := map[string]any{"items": []map[string]any{{"itemId": "desk", "quantity": 1}}}

	rec := postJSON(t, router, "/api/estimate/manifest?format=pdf", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %s", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF body")
	}

	rec = postJSON(t, router, "/api/estimate/manifest", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for default xlsx, got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected a zip-based workbook")
	}

	rec = postJSON(t, router, "/api/estimate/manifest?format=docx", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown format, got %d", rec.Code)
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/estimate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}
