package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/metrics"
	"github.com/sehatnxt/prescriptions-api/notify"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

// DraftResponse is the envelope every draft operation returns: the
// draft itself, the currently flagged interactions and the notices the
// operation produced. Suggestions ride along on name edits.
type DraftResponse struct {
	DraftID      string              `json:"draftId"`
	Draft        *prescription.Draft `json:"draft"`
	Interactions []string            `json:"interactions"`
	Suggestions  []string            `json:"suggestions,omitempty"`
	Notices      []notify.Notice     `json:"notices"`
}

// session resolves the draft session from the URL, writing the 404
// itself when the draft is gone. The returned session is locked;
// callers must defer sess.Unlock so concurrent requests for the same
// draft run one at a time.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*drafts.Session, bool) {
	id := chi.URLParam(r, "draftId")
	sess, ok := h.drafts.Get(id)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Draft not found")
		return nil, false
	}
	sess.Lock()
	return sess, true
}

// checkInteractions runs the checker over the draft's active medicines
// and records a warning notice when anything is flagged.
func (h *Handler) checkInteractions(d *prescription.Draft, rec *notify.Recorder) []string {
	found := h.dataStore.Checker().CheckStrings(d.MedicineNames())
	if len(found) > 0 {
		metrics.InteractionsDetected.Add(float64(len(found)))
		rec.Notify(notify.Warning, "Drug interaction detected!")
	}
	if found == nil {
		found = []string{}
	}
	return found
}

func (h *Handler) draftResponse(sess *drafts.Session, rec *notify.Recorder, interactions []string) DraftResponse {
	if interactions == nil {
		interactions = h.dataStore.Checker().CheckStrings(sess.Draft.MedicineNames())
		if interactions == nil {
			interactions = []string{}
		}
	}
	notices := rec.Notices()
	if notices == nil {
		notices = []notify.Notice{}
	}
	return DraftResponse{
		DraftID:      sess.ID,
		Draft:        sess.Draft,
		Interactions: interactions,
		Notices:      notices,
	}
}

// CreateDraft opens a new draft session.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	sess := h.drafts.Create()
	metrics.ActiveDrafts.Set(float64(h.drafts.Len()))

	rec := notify.NewRecorder(h.sink)
	h.RespondWithJSON(w, http.StatusCreated, h.draftResponse(sess, rec, nil))
}

// GetDraft returns the draft and its current interactions.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	rec := notify.NewRecorder(h.sink)
	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, nil))
}

// DeleteDraft discards a draft session. Drafts are never persisted, so
// this is unrecoverable.
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	h.drafts.Delete(sess.ID)
	metrics.ActiveDrafts.Set(float64(h.drafts.Len()))
	w.WriteHeader(http.StatusNoContent)
}

// draftPatch carries the optional header fields of a PATCH. Pointers
// distinguish "leave alone" from "set to empty".
type draftPatch struct {
	PatientID     *string `json:"patientId"`
	PatientAge    *string `json:"patientAge"`
	PatientGender *string `json:"patientGender"`
	Symptoms      *string `json:"symptoms"`
	Diagnosis     *string `json:"diagnosis"`
	Advice        *string `json:"advice"`
}

// UpdateDraft updates the draft header fields. Selecting a known
// patient fills age and gender from the directory.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	var patch draftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, field := range []*string{patch.Symptoms, patch.Diagnosis, patch.Advice, patch.PatientGender} {
		if field == nil {
			continue
		}
		if err := h.inputValidator.ValidateField(*field); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if patch.PatientAge != nil && *patch.PatientAge != "" {
		if _, err := h.inputValidator.ValidateAge(*patch.PatientAge); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	d := sess.Draft
	if patch.PatientID != nil {
		d.PatientID = *patch.PatientID
		if patient, known := h.dataStore.Directory().Lookup(*patch.PatientID); known {
			d.PatientAge = strconv.Itoa(patient.Age)
			d.PatientGender = patient.Gender
		}
	}
	if patch.PatientAge != nil {
		d.PatientAge = *patch.PatientAge
	}
	if patch.PatientGender != nil {
		d.PatientGender = *patch.PatientGender
	}
	if patch.Symptoms != nil {
		d.Symptoms = *patch.Symptoms
	}
	if patch.Diagnosis != nil {
		d.Diagnosis = *patch.Diagnosis
	}
	if patch.Advice != nil {
		d.Advice = *patch.Advice
	}

	rec := notify.NewRecorder(h.sink)
	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, nil))
}

// AddMedicineRow appends a blank medicine row.
func (h *Handler) AddMedicineRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	sess.Draft.AddRow()

	rec := notify.NewRecorder(h.sink)
	rec.Notify(notify.Success, "Medicine row added")
	h.RespondWithJSON(w, http.StatusCreated, h.draftResponse(sess, rec, nil))
}

// RemoveMedicineRow deletes a medicine row. The last remaining row is
// guarded; the draft always keeps one editable row.
func (h *Handler) RemoveMedicineRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()
	rowID, err := strconv.Atoi(chi.URLParam(r, "rowId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid row id")
		return
	}

	rec := notify.NewRecorder(h.sink)
	switch err := sess.Draft.RemoveRow(rowID); {
	case errors.Is(err, prescription.ErrLastRow):
		rec.Notify(notify.Error, "At least one medicine is required")
		resp := h.draftResponse(sess, rec, nil)
		h.RespondWithJSON(w, http.StatusConflict, resp)
		return
	case errors.Is(err, prescription.ErrRowNotFound):
		h.RespondWithError(w, http.StatusNotFound, "Medicine row not found")
		return
	case err != nil:
		h.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec.Notify(notify.Success, "Medicine removed")
	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, nil))
}

// rowPatch is one field edit on a medicine row. Commit marks the blur
// of the field: dosage completion and the suggestion grace window.
type rowPatch struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Commit bool   `json:"commit"`
}

// UpdateMedicineRow edits one field of a row. Name edits return live
// autocomplete suggestions and re-run the interaction check.
func (h *Handler) UpdateMedicineRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()
	rowID, err := strconv.Atoi(chi.URLParam(r, "rowId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid row id")
		return
	}

	var patch rowPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.inputValidator.ValidateField(patch.Value); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch err := sess.Draft.UpdateField(rowID, patch.Field, patch.Value); {
	case errors.Is(err, prescription.ErrRowNotFound):
		h.RespondWithError(w, http.StatusNotFound, "Medicine row not found")
		return
	case errors.Is(err, prescription.ErrUnknownField):
		h.RespondWithError(w, http.StatusBadRequest, "Unknown medicine field")
		return
	case err != nil:
		h.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := notify.NewRecorder(h.sink)
	now := h.now()

	var suggestions []string
	switch patch.Field {
	case prescription.FieldName:
		if patch.Commit {
			sess.Blur(rowID, now)
		} else {
			suggestions = h.dataStore.Catalog().Suggest(patch.Value, h.suggestLimit)
			sess.SetSuggestions(rowID, suggestions)
			if len(suggestions) > 0 {
				metrics.SuggestionsServed.Inc()
			}
		}
	case prescription.FieldDosage:
		if patch.Commit {
			if err := sess.Draft.CommitDosage(rowID); err != nil {
				h.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}

	var interactions []string
	if patch.Field == prescription.FieldName {
		interactions = h.checkInteractions(sess.Draft, rec)
	}

	resp := h.draftResponse(sess, rec, interactions)
	resp.Suggestions = suggestions
	h.RespondWithJSON(w, http.StatusOK, resp)
}

// selectRequest picks one suggestion for a row.
type selectRequest struct {
	Name string `json:"name"`
}

// SelectSuggestion applies a suggestion to the row's name. The pick
// must still be selectable: either the suggestions are live or the
// blur grace window has not passed.
func (h *Handler) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()
	rowID, err := strconv.Atoi(chi.URLParam(r, "rowId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid row id")
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := h.now()
	if !sess.CanSelect(rowID, req.Name, now) {
		h.RespondWithError(w, http.StatusConflict, "Suggestion is no longer selectable")
		return
	}

	if err := sess.Draft.UpdateField(rowID, prescription.FieldName, req.Name); err != nil {
		h.RespondWithError(w, http.StatusNotFound, "Medicine row not found")
		return
	}
	sess.ClearSuggestions()

	rec := notify.NewRecorder(h.sink)
	rec.Notify(notify.Success, fmt.Sprintf("Selected: %s", req.Name))
	interactions := h.checkInteractions(sess.Draft, rec)

	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, interactions))
}

// ApplyTemplate replaces the draft's diagnosis, advice and medicine
// list with a template's contents.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()
	templateID, err := strconv.Atoi(chi.URLParam(r, "templateId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid template id")
		return
	}

	tmpl, exists := h.dataStore.TemplatesMap()[templateID]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Template not found")
		return
	}

	sess.Draft.ApplyTemplate(tmpl)
	sess.ClearSuggestions()

	rec := notify.NewRecorder(h.sink)
	rec.Notify(notify.Success, fmt.Sprintf("Loaded template: %s", tmpl.Name))
	interactions := h.checkInteractions(sess.Draft, rec)

	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, interactions))
}
