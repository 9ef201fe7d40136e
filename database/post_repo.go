package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zero-void/site-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindAll returns all blog posts ordered by creation time descending.
func (r *PostRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// FindByID returns a blog post by its ID.
func (r *PostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new blog post. The database assigns the ID and timestamps and
// gorm writes them back into post, so the caller gets the stored row.
func (r *PostRepo) Add(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update replaces an existing blog post wholesale.
func (r *PostRepo) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(post).Error
}

// Patch updates only the given columns of one post, plus updated_at. Used for
// the publish/featured toggles so two concurrent toggles on different posts
// never clobber each other's rows.
func (r *PostRepo) Patch(ctx context.Context, id string, fields map[string]any) error {
	patched := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		patched[k] = v
	}
	patched["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(patched)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a blog post by id.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}
