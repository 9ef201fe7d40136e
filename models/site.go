package models

import (
	"time"
)

// Experience represents one entry on the experience timeline.
type Experience struct {
	ID           string    `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null"`
	Role         string    `json:"role" db:"role" gorm:"type:text"`
	Description  string    `json:"description" db:"description" gorm:"type:text"`
	Period       string    `json:"period" db:"period" gorm:"type:text"`
	DisplayOrder int       `json:"displayOrder" db:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Experience) TableName() string { return "experiences" }

// GalleryImage is one photo in the site gallery.
type GalleryImage struct {
	ID           string    `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	URL          string    `json:"url" db:"url" gorm:"type:text;not null"`
	Caption      string    `json:"caption" db:"caption" gorm:"type:text"`
	DisplayOrder int       `json:"displayOrder" db:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (GalleryImage) TableName() string { return "gallery_images" }

// ReadingLogEntry is one book on the public reading log.
type ReadingLogEntry struct {
	ID           string     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title        string     `json:"title" db:"title" gorm:"type:text;not null"`
	Author       string     `json:"author" db:"author" gorm:"type:text"`
	DateRead     *time.Time `json:"dateRead,omitempty" db:"date_read" gorm:"type:date"`
	Rating       int        `json:"rating" db:"rating" gorm:"not null;default:0"`
	Status       string     `json:"status" db:"status" gorm:"type:text;not null;default:'reading'"`
	Notes        string     `json:"notes" db:"notes" gorm:"type:text"`
	IsVisible    bool       `json:"isVisible" db:"is_visible" gorm:"not null;default:true"`
	DisplayOrder int        `json:"displayOrder" db:"display_order" gorm:"not null;default:0"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (ReadingLogEntry) TableName() string { return "reading_log" }

// SiteSettings is the single-row configuration table holding the keys for the
// AI formatting collaborator. Keys here take precedence over environment
// variables so they can be rotated without a redeploy.
type SiteSettings struct {
	ID                int       `json:"id" db:"id" gorm:"primaryKey"`
	AnthropicKey      string    `json:"-" db:"anthropic_key" gorm:"type:text"`
	OpenAIKey         string    `json:"-" db:"openai_key" gorm:"type:text"`
	PreferredProvider string    `json:"preferredProvider" db:"preferred_provider" gorm:"type:text;not null;default:'anthropic'"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (SiteSettings) TableName() string { return "site_settings" }
