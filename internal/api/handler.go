package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
	"github.com/hemingto/boombox-11.0-sub001/internal/export"
	"github.com/hemingto/boombox-11.0-sub001/internal/packing"
)

type contextKey string

const (
	requestIDContextKey     contextKey = "requestID"
	estimateStatsContextKey contextKey = "estimateStats"
)

const maxRequestBytes = 1 << 20

// CatalogReader exposes the catalog snapshot served by the API.
type CatalogReader interface {
	Items() []catalog.Item
}

// Handler wires the packing engine and catalog into HTTP handlers.
type Handler struct {
	engine  packing.Engine
	catalog CatalogReader

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(engine packing.Engine, items CatalogReader, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:  engine,
		catalog: items,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	items := h.catalog.Items()
	if category != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	writeJSON(w, http.StatusOK, catalogResponse{Items: items})
}

func (h *Handler) handleContainer(w http.ResponseWriter, r *http.Request) {
	_ = r
	c := h.engine.Container()
	writeJSON(w, http.StatusOK, containerResponse{
		Container:  c,
		CubicFeet:  c.CubicFeet(),
		FillFactor: h.engine.FillFactor(),
	})
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}

	start := time.Now()
	est, err := h.engine.Estimate(sel)
	elapsed := time.Since(start)
	if err != nil {
		writeEstimateError(w, err)
		return
	}
	recordEstimate(r.Context(), len(est.PackedItems), est.ContainerCount, est.UnitsRecommended)

	writeJSON(w, http.StatusOK, estimateResponse{
		Estimate:          est,
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}

func (h *Handler) handleManifest(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "xlsx"
	}

	var (
		render      func(io.Writer, packing.Estimate) error
		contentType string
	)
	switch format {
	case "xlsx":
		render = export.WriteXLSX
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		render = export.WritePDF
		contentType = "application/pdf"
	default:
		writeError(w, http.StatusBadRequest, "Invalid format", fmt.Sprintf("unsupported manifest format %q", format), "Use format=xlsx or format=pdf")
		return
	}

	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}

	est, err := h.engine.Estimate(sel)
	if err != nil {
		writeEstimateError(w, err)
		return
	}
	recordEstimate(r.Context(), len(est.PackedItems), est.ContainerCount, est.UnitsRecommended)

	var buf bytes.Buffer
	if err := render(&buf, est); err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="packing-manifest.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// decodeSelection reads and validates the request body. It writes the error
// response itself and reports false when the request is unusable. The body is
// capped by bodyLimitMiddleware.
func decodeSelection(w http.ResponseWriter, r *http.Request) (packing.Selection, bool) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if limit, ok := bodyLimitExceeded(err); ok {
			writeBodyTooLarge(w, limit)
			return packing.Selection{}, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return packing.Selection{}, false
	}

	for _, entry := range req.Items {
		if entry.Quantity < 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("quantity for %q must not be negative", entry.ItemID))
			return packing.Selection{}, false
		}
	}

	sel := packing.Selection{Items: req.Items, Custom: req.CustomItems}
	if units := sel.Units(); units > packing.MaxInstances {
		writeTooManyItems(w, fmt.Sprintf("selection expands to %d units, limit is %d", units, packing.MaxInstances))
		return packing.Selection{}, false
	}

	for i, c := range req.CustomItems {
		if !(c.Width > 0 && c.Depth > 0 && c.Height > 0) {
			writeError(w, http.StatusBadRequest, "Invalid custom item", fmt.Sprintf("custom item %d needs positive width, depth and height", i))
			return packing.Selection{}, false
		}
	}

	return sel, true
}

func writeTooManyItems(w http.ResponseWriter, details string) {
	writeError(w, http.StatusBadRequest, "Too many items", details,
		fmt.Sprintf("Split the move into selections of at most %d units", packing.MaxInstances))
}

func writeEstimateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, packing.ErrItemTooLarge):
		oversized := packing.OversizedItems(err)
		keys := make([]string, 0, len(oversized))
		for _, item := range oversized {
			keys = append(keys, item.Key)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      "Item too large",
			Details:    err.Error(),
			Suggestion: "Remove the listed items or check their dimensions; items are never rotated to fit",
			Items:      keys,
		})
	case errors.Is(err, packing.ErrTooManyItems):
		writeTooManyItems(w, err.Error())
	case errors.Is(err, packing.ErrInvalidDimensions), errors.Is(err, packing.ErrDuplicateKey):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type estimateRequest struct {
	Items       []packing.SelectionEntry `json:"items"`
	CustomItems []packing.CustomItem     `json:"customItems"`
}

type estimateResponse struct {
	packing.Estimate
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type catalogResponse struct {
	Items []catalog.Item `json:"items"`
}

type containerResponse struct {
	Container  packing.Container `json:"container"`
	CubicFeet  float64           `json:"cubicFeet"`
	FillFactor float64           `json:"fillFactor"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Details    string   `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Items      []string `json:"items,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
