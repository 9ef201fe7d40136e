package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zero-void/site-backend/draft"
	"github.com/zero-void/site-backend/errs"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
	"github.com/zero-void/site-backend/render"
	"github.com/zero-void/site-backend/services"
	"github.com/zero-void/site-backend/store"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *store.ContentStore
	snapshots *localstore.Store
	formatter *services.Formatter
}

func newPostHandler(contentStore *store.ContentStore, snapshots *localstore.Store, formatter *services.Formatter) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     contentStore,
		snapshots: snapshots,
		formatter: formatter,
	}
}

// PostView is the public shape of a post. The stored password never leaves
// the server, and the content of a password-gated post is withheld until the
// post is unlocked.
type PostView struct {
	models.Post
	Locked bool `json:"locked"`
}

// PostCollection is a list of public post views.
type PostCollection struct {
	Posts []PostView `json:"posts"`
	Total int        `json:"total"`
}

func publicView(p models.Post) PostView {
	locked := p.PasswordGated()
	p.Password = ""
	if locked {
		p.Content = ""
	}
	return PostView{Post: p, Locked: locked}
}

func publicViews(posts []models.Post) PostCollection {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, publicView(p))
	}
	return PostCollection{Posts: views, Total: len(views)}
}

// getPublishedPosts lists posts that are published and not private.
func (h postHandler) getPublishedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, publicViews(h.store.PublishedPosts()))
	}
}

// getFeaturedPosts lists published, featured, non-private posts.
func (h postHandler) getFeaturedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, publicViews(h.store.FeaturedPosts()))
	}
}

// lookupPublic resolves {postID} as an id first, then as a slug, and hides
// anything that is not publicly displayed. A private post is reported as not
// found rather than as forbidden.
func (h postHandler) lookupPublic(r *http.Request) (models.Post, error) {
	key := chi.URLParam(r, "postID")
	if key == "" {
		return models.Post{}, errs.NewBadRequestError("missing postID")
	}

	post, ok := h.store.Get(key)
	if !ok {
		post, ok = h.store.GetBySlug(key)
	}
	if !ok || !post.DisplayedAsPublic() {
		return models.Post{}, errs.NewNotFoundError("post not found")
	}
	return post, nil
}

// getPost returns one public post by id or slug.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.lookupPublic(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, publicView(post))
	}
}

// RenderedPost carries the display tree computed from the raw content. The
// tree is recomputed on every request, never cached.
type RenderedPost struct {
	PostView
	Blocks []render.Block `json:"blocks"`
}

// getRenderedPost returns the post with its rendered display tree.
// Password-gated posts must be unlocked instead.
func (h postHandler) getRenderedPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.lookupPublic(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if post.PasswordGated() {
			h.responder.WriteError(w, errs.NewForbiddenError("post is password protected"))
			return
		}

		h.responder.WriteJSON(w, RenderedPost{
			PostView: publicView(post),
			Blocks:   render.Render(post.Content),
		})
	}
}

type unlockRequest struct {
	Password string `json:"password"`
}

// unlockPost checks the candidate password against a gated post and, when it
// matches exactly, returns the full post with its display tree. There is no
// rate limiting or lockout; this gate is obscurity, not access control.
func (h postHandler) unlockPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.lookupPublic(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req unlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if !h.store.VerifyPassword(post.ID, req.Password) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("incorrect password, try again"))
			return
		}

		view := PostView{Post: post, Locked: false}
		view.Password = ""
		h.responder.WriteJSON(w, RenderedPost{
			PostView: view,
			Blocks:   render.Render(post.Content),
		})
	}
}

// getAllPosts returns every post, including drafts and private ones. Admin
// only.
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts := h.store.Posts()
		h.responder.WriteJSON(w, map[string]any{
			"posts": posts,
			"total": len(posts),
			"mode":  h.store.Mode(),
		})
	}
}

// createPost stores a new post from the submitted draft and clears the
// autosaved snapshot on success.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.EditableDraft
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		created, err := h.store.Create(r.Context(), payload)
		if err != nil {
			h.writeStoreError(w, "create", err)
			return
		}

		h.clearDraftSnapshot()

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updatePost merges the submitted draft into an existing post and clears the
// autosaved snapshot on success.
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postID")
		if postID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing postID"))
			return
		}

		var payload models.EditableDraft
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		updated, err := h.store.Update(r.Context(), postID, payload)
		if err != nil {
			h.writeStoreError(w, "update", err)
			return
		}

		h.clearDraftSnapshot()

		h.responder.WriteJSON(w, updated)
	}
}

// deletePost removes a post by id.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postID")
		if postID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing postID"))
			return
		}

		if err := h.store.Delete(r.Context(), postID); err != nil {
			h.writeStoreError(w, "delete", err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

// togglePublish flips the published flag of one post.
func (h postHandler) togglePublish() http.HandlerFunc {
	return h.toggleHandler(func(r *http.Request, id string) (models.Post, error) {
		return h.store.TogglePublish(r.Context(), id)
	})
}

// toggleFeatured flips the featured flag of one post.
func (h postHandler) toggleFeatured() http.HandlerFunc {
	return h.toggleHandler(func(r *http.Request, id string) (models.Post, error) {
		return h.store.ToggleFeatured(r.Context(), id)
	})
}

func (h postHandler) toggleHandler(toggle func(*http.Request, string) (models.Post, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postID")
		if postID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing postID"))
			return
		}

		post, err := toggle(r, postID)
		if err != nil {
			h.writeStoreError(w, "toggle", err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// refreshPosts re-lists from the backend.
func (h postHandler) refreshPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Refresh(r.Context()); err != nil {
			h.writeStoreError(w, "refresh", err)
			return
		}
		posts := h.store.Posts()
		h.responder.WriteJSON(w, map[string]any{
			"posts": posts,
			"total": len(posts),
		})
	}
}

type formatRequest struct {
	Content string `json:"content"`
}

type formatResponse struct {
	Formatted string `json:"formatted"`
}

// formatContent runs the raw content through the AI formatting collaborator.
// A failure here is a dismissible inline error; the submitted content is
// returned to the client untouched in the error path and saving is never
// affected.
func (h postHandler) formatContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		if h.formatter == nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError("ai formatting", services.ErrNoProviderConfigured))
			return
		}

		formatted, err := h.formatter.Format(r.Context(), req.Content)
		if err != nil {
			h.logger.Warn().Err(err).Msg("AI formatting failed, content left untouched")
			h.responder.WriteError(w, errs.NewServiceUnreachableError("ai formatting", err))
			return
		}

		h.responder.WriteJSON(w, formatResponse{Formatted: formatted})
	}
}

// clearDraftSnapshot deletes the autosaved draft unconditionally after a
// successful submit.
func (h postHandler) clearDraftSnapshot() {
	if h.snapshots == nil {
		return
	}
	if err := draft.Clear(h.snapshots); err != nil {
		h.logger.Warn().Err(err).Msg("failed to clear draft snapshot after submit")
	}
}

func (h postHandler) writeStoreError(w http.ResponseWriter, operation string, err error) {
	var apiErr *errs.ApiErr
	switch {
	case errors.Is(err, store.ErrPostNotFound):
		h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
	case errors.As(err, &apiErr):
		h.responder.WriteError(w, apiErr)
	default:
		h.responder.WriteError(w, wrapDatabaseError(operation, "post", err))
	}
}
