// Package handlers provides HTTP request handlers for the
// prescriptions API endpoints. It covers the reference endpoints
// (catalog, templates, patients), the draft composition endpoints and
// the render/print flow, with input validation and consistent JSON
// responses.
package handlers

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/interfaces"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/notify"
	"github.com/sehatnxt/prescriptions-api/render"
)

// Handler carries the injected collaborators for every endpoint.
type Handler struct {
	dataStore      interfaces.DataStore
	drafts         *drafts.Store
	draftValidator interfaces.DraftValidator
	inputValidator interfaces.InputValidator
	healthChecker  interfaces.HealthChecker
	sink           notify.Sink
	surface        render.Surface
	clinic         render.ClinicProfile
	suggestLimit   int
	printDelay     time.Duration
	now            func() time.Time
}

// Options bundles the handler dependencies.
type Options struct {
	DataStore      interfaces.DataStore
	Drafts         *drafts.Store
	DraftValidator interfaces.DraftValidator
	InputValidator interfaces.InputValidator
	HealthChecker  interfaces.HealthChecker
	Sink           notify.Sink
	Surface        render.Surface
	Clinic         render.ClinicProfile
	SuggestLimit   int
	PrintDelay     time.Duration
}

// NewHandler creates the handler set with injected dependencies.
func NewHandler(opts Options) *Handler {
	if opts.Sink == nil {
		opts.Sink = notify.LogSink{}
	}
	if opts.Surface == nil {
		opts.Surface = render.NewMemorySurface()
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = 10
	}
	return &Handler{
		dataStore:      opts.DataStore,
		drafts:         opts.Drafts,
		draftValidator: opts.DraftValidator,
		inputValidator: opts.InputValidator,
		healthChecker:  opts.HealthChecker,
		sink:           opts.Sink,
		surface:        opts.Surface,
		clinic:         opts.Clinic,
		suggestLimit:   opts.SuggestLimit,
		printDelay:     opts.PrintDelay,
		now:            time.Now,
	}
}

// RespondWithJSON writes a JSON response
func (h *Handler) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *Handler) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// HealthCheck returns server health information
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	data["api_version"] = "1.0"
	data["next_reload"] = h.healthChecker.CalculateNextReload().Format(time.RFC3339)

	response := HealthResponse{
		Status: status,
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
