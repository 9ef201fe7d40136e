package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zero-void/site-backend/draft"
	"github.com/zero-void/site-backend/errs"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
)

// editorSession is one open editing view. The form state is pushed by the
// client and read back by the autosaver on each tick.
type editorSession struct {
	autosaver *draft.Autosaver

	mu        sync.Mutex
	form      models.EditableDraft
	editingID string
	dirty     bool
}

func (s *editorSession) snapshot() (models.EditableDraft, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form, s.editingID, s.dirty
}

func (s *editorSession) update(form models.EditableDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
	s.dirty = true
}

type draftHandler struct {
	responder Responder
	logger    zerolog.Logger
	snapshots *localstore.Store
	interval  time.Duration

	mu      sync.Mutex
	session *editorSession
}

func newDraftHandler(snapshots *localstore.Store, interval time.Duration) *draftHandler {
	logger := log.With().Str("handlerName", "draftHandler").Logger()

	return &draftHandler{
		responder: NewResponder(logger),
		logger:    logger,
		snapshots: snapshots,
		interval:  interval,
	}
}

type openSessionRequest struct {
	EditingID string `json:"editingId"`
}

// openSession starts an editing session and its autosave timer. Opening while
// another session is live stops the old one first; there is a single editor.
func (h *draftHandler) openSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openSessionRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				h.responder.WriteError(w, errs.NewInvalidJSONError(err))
				return
			}
		}

		h.mu.Lock()
		if h.session != nil {
			h.session.autosaver.Stop()
		}
		session := &editorSession{editingID: req.EditingID}
		session.autosaver = draft.NewAutosaver(h.snapshots, session.snapshot, h.interval, h.logger)
		session.autosaver.Start()
		h.session = session
		h.mu.Unlock()

		h.responder.WriteJSON(w, map[string]string{"status": "editing"})
	}
}

// pushState replaces the session's form state. The autosaver picks it up on
// its next tick; nothing is written here.
func (h *draftHandler) pushState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form models.EditableDraft
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		session := h.current()
		if session == nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no editing session open"))
			return
		}

		session.update(form)
		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}

// saveDraft snapshots the session form immediately, outside the timer.
func (h *draftHandler) saveDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.current()
		if session == nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no editing session open"))
			return
		}

		if err := session.autosaver.Flush(); err != nil {
			h.logger.Warn().Err(err).Msg("manual draft save failed")
			h.responder.WriteError(w, errs.NewInternalError("failed to save draft"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "saved"})
	}
}

// closeSession stops the autosave timer. A tick that races the close is a
// no-op; the snapshot itself is kept for recovery.
func (h *draftHandler) closeSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		session := h.session
		h.session = nil
		h.mu.Unlock()

		if session != nil {
			session.autosaver.Stop()
		}

		h.responder.WriteJSON(w, map[string]string{"status": "closed"})
	}
}

type recoveryResponse struct {
	Draft *models.DraftSnapshot `json:"draft"`
}

// checkRecovery offers the stored snapshot when one exists and is less than
// a day old. An expired snapshot is deleted and never offered.
func (h *draftHandler) checkRecovery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := draft.CheckRecovery(h.snapshots, time.Now())
		if !ok {
			h.responder.WriteJSON(w, recoveryResponse{})
			return
		}
		h.responder.WriteJSON(w, recoveryResponse{Draft: snapshot})
	}
}

// discardDraft deletes the stored snapshot, declining the recovery offer.
func (h *draftHandler) discardDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := draft.Clear(h.snapshots); err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to discard draft"))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "discarded"})
	}
}

func (h *draftHandler) current() *editorSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}
