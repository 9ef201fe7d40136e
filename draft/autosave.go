// Package draft protects in-progress editing work: a ticker-driven autosaver
// snapshots the editor form into the local snapshot store, and a recovery
// check offers a fresh snapshot back on the next visit.
package draft

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
)

// DefaultInterval is the wall-clock autosave period. It is deliberately not
// tied to edit events; a tick snapshots whatever the form holds right then.
const DefaultInterval = 30 * time.Second

// FormSource reports the current editor form state. The second value is the
// id of the post being edited, empty when drafting a new one. ok is false
// when there is nothing worth snapshotting (e.g. the form is empty).
type FormSource func() (form models.EditableDraft, editingID string, ok bool)

// Save serializes the form state plus a save timestamp into the draft key,
// overwriting any prior snapshot. Used by both the timer and the manual
// save action.
func Save(snap *localstore.Store, form models.EditableDraft, editingID string, now time.Time) error {
	return snap.SetDraft(models.DraftSnapshot{
		Form:      form,
		SavedAt:   now,
		EditingID: editingID,
	})
}

// Clear deletes the draft snapshot. Called unconditionally after a successful
// post submit, and when the user discards a recovery offer.
func Clear(snap *localstore.Store) error {
	return snap.DeleteDraft()
}

// CheckRecovery returns the stored snapshot when one exists and is fresh
// enough to offer for recovery. An expired snapshot is silently deleted and
// not offered.
func CheckRecovery(snap *localstore.Store, now time.Time) (*models.DraftSnapshot, bool) {
	stored, ok := snap.Draft()
	if !ok {
		return nil, false
	}
	if stored.Expired(now) {
		_ = snap.DeleteDraft()
		return nil, false
	}
	return stored, true
}

// Autosaver snapshots one editing session. It is created when the editing
// view opens and stopped when it closes; a stopped autosaver never writes
// again, so a tick that fires during shutdown cannot clobber later state.
type Autosaver struct {
	snap     *localstore.Store
	source   FormSource
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewAutosaver builds an autosaver for one editing session. A non-positive
// interval falls back to DefaultInterval.
func NewAutosaver(snap *localstore.Store, source FormSource, interval time.Duration, logger zerolog.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autosaver{
		snap:     snap,
		source:   source,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticker goroutine. Calling Start more than once is a
// no-op.
func (a *Autosaver) Start() {
	a.startOnce.Do(func() {
		a.started.Store(true)
		go a.run()
	})
}

// Stop cancels the ticker and waits for the goroutine to exit. Idempotent,
// and safe to call on an autosaver that was never started.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})
	if a.started.Load() {
		<-a.done
	}
}

// Flush performs one immediate snapshot, outside the timer. This backs the
// manual save action.
func (a *Autosaver) Flush() error {
	form, editingID, ok := a.source()
	if !ok {
		return nil
	}
	return Save(a.snap, form, editingID, a.now())
}

func (a *Autosaver) run() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			if err := a.Flush(); err != nil {
				a.logger.Warn().Err(err).Msg("draft autosave failed")
			}
		}
	}
}
