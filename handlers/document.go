package handlers

import (
	"errors"
	"net/http"

	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/metrics"
	"github.com/sehatnxt/prescriptions-api/notify"
	"github.com/sehatnxt/prescriptions-api/render"
)

// SaveDraft validates the draft for saving. Nothing is stored; a clean
// validation is a confirmation, a failed one returns every problem in
// reporting order.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	rec := notify.NewRecorder(h.sink)
	problems := h.draftValidator.ValidateDraft(sess.Draft)
	if len(problems) > 0 {
		for _, p := range problems {
			rec.Notify(notify.Error, p)
		}
		resp := h.draftResponse(sess, rec, nil)
		h.RespondWithJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	metrics.PrescriptionsSaved.Inc()
	rec.Notify(notify.Success, "Prescription saved successfully")
	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, nil))
}

// ShareDraft confirms a pharmacy share. Like saving, it requires a
// selected patient and stores nothing.
func (h *Handler) ShareDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	rec := notify.NewRecorder(h.sink)
	if sess.Draft.PatientID == "" {
		rec.Notify(notify.Error, "Please select a patient first")
		resp := h.draftResponse(sess, rec, nil)
		h.RespondWithJSON(w, http.StatusConflict, resp)
		return
	}

	rec.Notify(notify.Success, "Prescription shared with pharmacy")
	h.RespondWithJSON(w, http.StatusOK, h.draftResponse(sess, rec, nil))
}

// PreviewDraft returns the preview projection of the draft.
func (h *Handler) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	doc := render.Preview(sess.Draft, h.dataStore.Directory(), h.clinic, h.now())
	h.RespondWithJSON(w, http.StatusOK, doc)
}

// PrintResponse reports the outcome of a print request.
type PrintResponse struct {
	Title   string          `json:"title"`
	State   string          `json:"state"`
	Invoked bool            `json:"printInvoked"`
	HTML    string          `json:"html"`
	Notices []notify.Notice `json:"notices"`
}

// PrintDraft renders the printable document and runs the one-shot
// print flow against the configured surface. A draft without a patient
// is rejected before anything is rendered.
func (h *Handler) PrintDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	rec := notify.NewRecorder(h.sink)

	html, err := render.PrintHTML(sess.Draft, h.dataStore.Directory(), h.clinic, h.now())
	if errors.Is(err, render.ErrNoPatient) {
		rec.Notify(notify.Error, "Please select a patient first")
		h.RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"notices": rec.Notices(),
		})
		return
	}
	if err != nil {
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to render prescription")
		return
	}

	doc := render.Preview(sess.Draft, h.dataStore.Directory(), h.clinic, h.now())
	title := "Prescription - " + doc.Patient.Name

	job, err := render.StartPrintJob(h.surface, title, html, h.printDelay)
	if err != nil {
		rec.Notify(notify.Error, "Unable to open print window")
		h.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"notices": rec.Notices(),
		})
		return
	}
	job.Wait()

	if err := job.PrintErr(); err != nil {
		logging.Error("Print invocation failed", "error", err)
		rec.Notify(notify.Error, "Unable to invoke print")
		h.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"notices": rec.Notices(),
		})
		return
	}

	metrics.DocumentsPrinted.Inc()
	rec.Notify(notify.Success, "Prescription ready for printing")

	h.RespondWithJSON(w, http.StatusOK, PrintResponse{
		Title:   title,
		State:   string(job.State()),
		Invoked: job.Invoked(),
		HTML:    string(html),
		Notices: rec.Notices(),
	})
}
