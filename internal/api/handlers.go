package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/badibam/schemakit/internal/metrics"
	"github.com/badibam/schemakit/internal/registry"
	"github.com/badibam/schemakit/internal/schema"
	"github.com/badibam/schemakit/internal/validation"
)

type handler struct {
	registry  *registry.Registry
	validator *validation.Validator
	metrics   *metrics.Metrics
}

func newHandler(reg *registry.Registry, v *validation.Validator, m *metrics.Metrics) *handler {
	return &handler{registry: reg, validator: v, metrics: m}
}

// schemaInfo is the metadata view of a schema returned by listing
// endpoints; content is included only on single-schema fetches.
type schemaInfo struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Content     schema.Document `json:"content,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthCheck handles GET /
func (h *handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// ListSchemas handles GET /schemas
func (h *handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas := h.registry.ListSchemas()
	h.metrics.SchemasLoaded.Set(float64(len(schemas)))

	out := make([]schemaInfo, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, schemaInfo{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			Description: s.Description,
			Category:    string(s.Category),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSchema handles GET /schemas/{id}
func (h *handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.GetSchema(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, registry.ErrSchemaNotFound) {
			writeError(w, http.StatusNotFound, "schema not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, schemaInfo{
		ID:          s.ID,
		DisplayName: s.DisplayName,
		Description: s.Description,
		Category:    string(s.Category),
		Content:     s.Content,
	})
}

// Validate handles POST /schemas/{id}/validate. The body is the candidate
// data tree; ?partial=true relaxes required constraints for updates that
// only send changed fields.
func (h *handler) Validate(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.GetSchema(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, registry.ErrSchemaNotFound) {
			writeError(w, http.StatusNotFound, "schema not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	partial := r.URL.Query().Get("partial") == "true"
	mode := "full"
	if partial {
		mode = "partial"
	}

	start := time.Now()
	var result validation.Result
	if partial {
		result = h.validator.ValidatePartial(s, data)
	} else {
		result = h.validator.Validate(s, data)
	}
	h.metrics.RecordValidation(s.ID, mode, result.IsValid, time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

type composeRequest struct {
	Base     schema.Document `json:"base"`
	Specific schema.Document `json:"specific"`
}

// Compose handles POST /compose.
func (h *handler) Compose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	composed, err := schema.Compose(req.Base, req.Specific)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, composed)
}

type resolveRequest struct {
	Schema  schema.Document `json:"schema"`
	Context schema.Context  `json:"context"`
}

// Resolve handles POST /resolve.
func (h *handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Schema == nil {
		writeError(w, http.StatusBadRequest, "schema is required")
		return
	}

	writeJSON(w, http.StatusOK, schema.Resolve(req.Schema, req.Context))
}

type extractRequest struct {
	Schema  schema.Document `json:"schema"`
	Path    string          `json:"path"`
	Context schema.Context  `json:"context"`
}

// Extract handles POST /extract. A missing path yields a null body, not
// an error.
func (h *handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Schema == nil {
		writeError(w, http.StatusBadRequest, "schema is required")
		return
	}

	writeJSON(w, http.StatusOK, schema.Extract(req.Schema, req.Path, req.Context))
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
