// Package store implements the content store: one CRUD+query contract over
// the blog post list, regardless of whether the remote content gateway or the
// local snapshot store is backing it. The backend is chosen once at startup
// and the orchestration below never branches on it again.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zero-void/site-backend/database"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
)

// Mode is the operating state selected at startup.
type Mode string

const (
	// ModeRemote reads and writes through the remote content gateway.
	ModeRemote Mode = "remote"
	// ModeLocal is the fallback state where all durable state lives in the
	// local snapshot store.
	ModeLocal Mode = "local"
)

// ContentStore owns the in-memory post list for the lifetime of the process.
// All mutations go to the backend first; memory is updated only after the
// backend reports success, so there are never phantom successes.
type ContentStore struct {
	mu      sync.RWMutex
	posts   []models.Post
	repo    PostRepository
	mode    Mode
	lastErr error
	logger  zerolog.Logger
}

// New builds the content store, deciding the operating mode:
//   - the remote list fails        -> local-only mode (snapshot or seed set)
//   - the remote list is empty     -> local-only mode with the seed set; the
//     remote is treated as not yet provisioned, and this is not an error
//   - the remote list has rows     -> remote-backed mode
//
// Pass a nil remote repo to force local-only mode (no gateway configured).
func New(ctx context.Context, remote *database.PostRepo, snap *localstore.Store, logger zerolog.Logger) (*ContentStore, error) {
	s := &ContentStore{logger: logger}

	if remote != nil {
		repo := newRemoteRepository(remote)
		posts, err := repo.List(ctx)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("remote gateway unreachable, falling back to local-only mode")
		case len(posts) == 0:
			// An empty-but-healthy remote is indistinguishable here from a
			// misconfigured one; flag it loudly since the fallback can mask it.
			logger.Warn().Msg("remote gateway returned no posts, treating as unprovisioned and using local-only mode")
		default:
			s.repo = repo
			s.mode = ModeRemote
			s.posts = posts
			logger.Info().Int("posts", len(posts)).Msg("content store running in remote-backed mode")
			return s, nil
		}
	}

	local, err := newLocalRepository(snap, seedPosts())
	if err != nil {
		return nil, err
	}
	posts, err := local.List(ctx)
	if err != nil {
		return nil, err
	}

	s.repo = local
	s.mode = ModeLocal
	s.posts = posts
	logger.Info().Int("posts", len(posts)).Msg("content store running in local-only mode")
	return s, nil
}

// Mode returns the operating mode selected at startup.
func (s *ContentStore) Mode() Mode {
	return s.mode
}

// Err returns the most recent mutation failure, if any. It is informational
// only; every failure is also returned to the caller that triggered it.
func (s *ContentStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Create validates the draft, derives the computed fields and stores a new
// post, prepending the backend's returned row to the in-memory list.
func (s *ContentStore) Create(ctx context.Context, draft models.EditableDraft) (models.Post, error) {
	if err := draft.Validate(); err != nil {
		return models.Post{}, err
	}

	stored, err := s.repo.Create(ctx, draft.ToPost())
	if err != nil {
		s.recordErr(err)
		return models.Post{}, err
	}

	s.mu.Lock()
	s.posts = append([]models.Post{stored}, s.posts...)
	s.mu.Unlock()
	return stored, nil
}

// Update merges the draft into the identified post, re-deriving slug and
// read-time, and replaces the in-memory entry with the backend's returned row.
func (s *ContentStore) Update(ctx context.Context, id string, draft models.EditableDraft) (models.Post, error) {
	if err := draft.Validate(); err != nil {
		return models.Post{}, err
	}

	existing, ok := s.Get(id)
	if !ok {
		return models.Post{}, ErrPostNotFound
	}
	draft.ApplyTo(&existing)

	stored, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.recordErr(err)
		return models.Post{}, err
	}

	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		s.posts[idx] = stored
	}
	s.mu.Unlock()
	return stored, nil
}

// Delete removes the post from the backend, then from memory.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return ErrPostNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// TogglePublish flips the published flag. Only that field (plus the update
// timestamp) is written, so concurrent toggles on different posts never
// interfere with each other's rows.
func (s *ContentStore) TogglePublish(ctx context.Context, id string) (models.Post, error) {
	return s.toggle(ctx, id, "published")
}

// ToggleFeatured flips the featured flag, same single-field semantics as
// TogglePublish.
func (s *ContentStore) ToggleFeatured(ctx context.Context, id string) (models.Post, error) {
	return s.toggle(ctx, id, "featured")
}

func (s *ContentStore) toggle(ctx context.Context, id string, field string) (models.Post, error) {
	post, ok := s.Get(id)
	if !ok {
		return models.Post{}, ErrPostNotFound
	}

	var next bool
	switch field {
	case "published":
		next = !post.Published
	case "featured":
		next = !post.Featured
	}

	if err := s.repo.Patch(ctx, id, map[string]any{field: next}); err != nil {
		s.recordErr(err)
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		switch field {
		case "published":
			s.posts[idx].Published = next
		case "featured":
			s.posts[idx].Featured = next
		}
		return s.posts[idx], nil
	}
	return models.Post{}, ErrPostNotFound
}

// Refresh re-lists from the backend and replaces the in-memory list. In
// local-only mode this is a no-op beyond re-reading the snapshot list.
func (s *ContentStore) Refresh(ctx context.Context) error {
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// Get returns the post with the given id.
func (s *ContentStore) Get(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.posts[idx], true
	}
	return models.Post{}, false
}

// GetBySlug returns the post with the given slug.
func (s *ContentStore) GetBySlug(slug string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			return s.posts[i], true
		}
	}
	return models.Post{}, false
}

// Posts returns a copy of the full in-memory list, newest first.
func (s *ContentStore) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.posts)
}

// PublishedPosts returns posts that are published and not private.
func (s *ContentStore) PublishedPosts() []models.Post {
	return s.filter(func(p models.Post) bool {
		return p.DisplayedAsPublic()
	})
}

// FeaturedPosts returns published, featured, non-private posts.
func (s *ContentStore) FeaturedPosts() []models.Post {
	return s.filter(func(p models.Post) bool {
		return p.DisplayedAsPublic() && p.Featured
	})
}

// VerifyPassword gates password-protected posts. Posts whose visibility is not
// "password" always pass. The comparison is an exact, case-sensitive string
// match with no hashing: this is access obscurity, not a security boundary.
func (s *ContentStore) VerifyPassword(id string, candidate string) bool {
	post, ok := s.Get(id)
	if !ok {
		return false
	}
	if !post.PasswordGated() {
		return true
	}
	return post.Password != "" && post.Password == candidate
}

func (s *ContentStore) filter(keep func(models.Post) bool) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Post
	for i := range s.posts {
		if keep(s.posts[i]) {
			out = append(out, s.posts[i])
		}
	}
	return out
}

// indexOf assumes the caller holds s.mu.
func (s *ContentStore) indexOf(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ContentStore) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Error().Err(err).Str("mode", string(s.mode)).Msg("content store mutation failed")
}
