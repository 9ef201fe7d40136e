package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zero-void/site-backend/database"
	"github.com/zero-void/site-backend/errs"
	"github.com/zero-void/site-backend/models"
	"github.com/zero-void/site-backend/services"
)

const maxUploadBytes = 10 << 20

type siteHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        *database.Database
	media     *services.MediaStore
}

func newSiteHandler(db *database.Database, media *services.MediaStore) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		media:     media,
	}
}

// getExperiences lists the work/education timeline. A fetch failure degrades
// to an empty list so the rest of the page still renders.
func (h siteHandler) getExperiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		experiences := []models.Experience{}
		if h.db != nil {
			found, err := h.db.ExperienceRepo().FindAll(r.Context())
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to fetch experiences")
			} else {
				experiences = found
			}
		}
		h.responder.WriteJSON(w, map[string]any{"experiences": experiences})
	}
}

// getGallery lists the gallery images, degrading to empty on failure.
func (h siteHandler) getGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images := []models.GalleryImage{}
		if h.db != nil {
			found, err := h.db.GalleryRepo().FindAll(r.Context())
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to fetch gallery images")
			} else {
				images = found
			}
		}
		h.responder.WriteJSON(w, map[string]any{"images": images})
	}
}

// getReadingLog lists visible reading log entries, degrading to empty on
// failure.
func (h siteHandler) getReadingLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := []models.ReadingLogEntry{}
		if h.db != nil {
			found, err := h.db.ReadingLogRepo().FindVisible(r.Context())
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to fetch reading log")
			} else {
				entries = found
			}
		}
		h.responder.WriteJSON(w, map[string]any{"entries": entries})
	}
}

type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// uploadMedia stores an editor image in the media bucket and returns its
// public URL. Upload failure is reported but never blocks authoring.
func (h siteHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.media == nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError("media storage", nil))
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid multipart upload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		key := fmt.Sprintf("uploads/%s/%s%s",
			time.Now().UTC().Format("2006/01"),
			uuid.NewString(),
			filepath.Ext(header.Filename))

		url, err := h.media.Upload(r.Context(), key, contentType, file)
		if err != nil {
			h.logger.Error().Err(err).Str("key", key).Msg("media upload failed")
			h.responder.WriteError(w, errs.NewServiceUnreachableError("media storage", err))
			return
		}

		h.responder.WriteJSON(w, uploadResponse{URL: url, Key: key})
	}
}
