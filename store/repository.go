package store

import (
	"context"
	"errors"

	"github.com/zero-void/site-backend/models"
)

// ErrPostNotFound is returned when an operation targets an id the backend does
// not hold.
var ErrPostNotFound = errors.New("post not found")

// PostRepository is the capability the content store orchestrates over. One
// implementation talks to the remote content gateway, the other to the local
// snapshot store; the store selects one at startup and never branches on the
// backend again.
type PostRepository interface {
	// List returns all posts ordered by creation time descending.
	List(ctx context.Context) ([]models.Post, error)
	// Create stores a new post and returns the row as the backend stored it,
	// with its assigned id and timestamps.
	Create(ctx context.Context, post models.Post) (models.Post, error)
	// Update replaces an existing post and returns the stored row.
	Update(ctx context.Context, post models.Post) (models.Post, error)
	// Patch updates only the named fields of one post.
	Patch(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a post by id.
	Delete(ctx context.Context, id string) error
}
