package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zero-void/site-backend/models"
)

// ExperienceRepo reads the experience timeline.
type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

func (r *ExperienceRepo) FindAll(ctx context.Context) ([]models.Experience, error) {
	var experiences []models.Experience
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&experiences).Error
	return experiences, err
}

// GalleryRepo reads the photo gallery.
type GalleryRepo struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) *GalleryRepo {
	return &GalleryRepo{db}
}

func (r *GalleryRepo) FindAll(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&images).Error
	return images, err
}

// ReadingLogRepo reads the public reading log.
type ReadingLogRepo struct {
	db *gorm.DB
}

func NewReadingLogRepo(db *gorm.DB) *ReadingLogRepo {
	return &ReadingLogRepo{db}
}

func (r *ReadingLogRepo) FindVisible(ctx context.Context) ([]models.ReadingLogEntry, error) {
	var entries []models.ReadingLogEntry
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("display_order ASC").
		Find(&entries).Error
	return entries, err
}

// SettingsRepo reads and writes the single site_settings row.
type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// Get returns the settings row, or nil when none has been provisioned yet.
func (r *SettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepo) Save(ctx context.Context, settings *models.SiteSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(settings).Error
}
