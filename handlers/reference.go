package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/metrics"
)

// ServeCatalog returns the full medicine catalog.
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.Catalog()
	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": cat.Entries(),
		"count":   cat.Len(),
	})
}

// SuggestMedicines returns catalog entries matching the prefix,
// case-insensitively, capped at the configured limit.
func (h *Handler) SuggestMedicines(w http.ResponseWriter, r *http.Request) {
	prefix := chi.URLParam(r, "prefix")
	if err := h.inputValidator.ValidatePrefix(prefix); err != nil {
		logging.Warn("Unusual user input", "prefix", prefix)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := h.suggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	suggestions := h.dataStore.Catalog().Suggest(prefix, limit)
	metrics.SuggestionsServed.Inc()

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"prefix":      prefix,
		"suggestions": suggestions,
	})
}

// ServeTemplates returns all prescription templates.
func (h *Handler) ServeTemplates(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.Templates())
}

// FindTemplateByID returns one template.
func (h *Handler) FindTemplateByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "templateId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid template id")
		return
	}

	tmpl, exists := h.dataStore.TemplatesMap()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Template not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, tmpl)
}

// ServePatients returns the patient directory.
func (h *Handler) ServePatients(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.Directory().List())
}

// FindPatientByID returns one patient.
func (h *Handler) FindPatientByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientId")

	patient, exists := h.dataStore.Directory().Lookup(id)
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Patient not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, patient)
}
