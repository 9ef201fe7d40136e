package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
)

// localRepository keeps the authoritative post list in memory and
// re-serializes the whole list to the snapshot store after every mutation.
// There are no partial writes: the snapshot is always a full replacement.
type localRepository struct {
	snap *localstore.Store

	mu     sync.Mutex
	posts  []models.Post
	lastID int64
}

// newLocalRepository loads the snapshotted list, seeding (and persisting the
// seed) when no usable snapshot exists.
func newLocalRepository(snap *localstore.Store, seed []models.Post) (*localRepository, error) {
	posts, ok := snap.Posts()
	if !ok {
		posts = seed
		if err := snap.SetPosts(posts); err != nil {
			return nil, err
		}
	}
	return &localRepository{snap: snap, posts: posts}, nil
}

func (r *localRepository) List(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePosts(r.posts), nil
}

func (r *localRepository) Create(_ context.Context, post models.Post) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	updated := append([]models.Post{post}, r.posts...)
	if err := r.snap.SetPosts(updated); err != nil {
		return models.Post{}, err
	}
	r.posts = updated
	return post, nil
}

func (r *localRepository) Update(_ context.Context, post models.Post) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(post.ID)
	if idx < 0 {
		return models.Post{}, ErrPostNotFound
	}

	post.CreatedAt = r.posts[idx].CreatedAt
	post.UpdatedAt = time.Now().UTC()

	updated := clonePosts(r.posts)
	updated[idx] = post
	if err := r.snap.SetPosts(updated); err != nil {
		return models.Post{}, err
	}
	r.posts = updated
	return post, nil
}

func (r *localRepository) Patch(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrPostNotFound
	}

	updated := clonePosts(r.posts)
	post := &updated[idx]
	for field, value := range fields {
		switch field {
		case "published":
			if b, ok := value.(bool); ok {
				post.Published = b
			}
		case "featured":
			if b, ok := value.(bool); ok {
				post.Featured = b
			}
		}
	}
	post.UpdatedAt = time.Now().UTC()

	if err := r.snap.SetPosts(updated); err != nil {
		return err
	}
	r.posts = updated
	return nil
}

func (r *localRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrPostNotFound
	}

	updated := append(clonePosts(r.posts[:idx]), r.posts[idx+1:]...)
	if err := r.snap.SetPosts(updated); err != nil {
		return err
	}
	r.posts = updated
	return nil
}

// nextID synthesizes a timestamp-based identifier the way the hosted backend
// would assign one. Monotonic even when two creates land on the same
// millisecond.
func (r *localRepository) nextID() string {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

func (r *localRepository) indexOf(id string) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func clonePosts(posts []models.Post) []models.Post {
	cloned := make([]models.Post, len(posts))
	copy(cloned, posts)
	return cloned
}
