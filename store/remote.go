package store

import (
	"context"

	"github.com/zero-void/site-backend/database"
	"github.com/zero-void/site-backend/models"
)

// remoteRepository adapts the gorm-backed content gateway to the
// PostRepository capability.
type remoteRepository struct {
	repo *database.PostRepo
}

func newRemoteRepository(repo *database.PostRepo) *remoteRepository {
	return &remoteRepository{repo: repo}
}

func (r *remoteRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.repo.FindAll(ctx)
}

func (r *remoteRepository) Create(ctx context.Context, post models.Post) (models.Post, error) {
	if err := r.repo.Add(ctx, &post); err != nil {
		return models.Post{}, err
	}
	// gorm wrote the assigned id and timestamps back into post
	return post, nil
}

func (r *remoteRepository) Update(ctx context.Context, post models.Post) (models.Post, error) {
	if err := r.repo.Update(ctx, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *remoteRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	return r.repo.Patch(ctx, id, fields)
}

func (r *remoteRepository) Delete(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}
