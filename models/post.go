package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
)

// Visibility is the access policy on a post.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityPassword Visibility = "password"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityPassword:
		return true
	}
	return false
}

// Categories is the fixed set of post categories.
var Categories = []string{
	"ECOSYSTEM", "STARTUP", "JOURNEY", "TECH", "PERSONAL", "INSIGHTS", "PHILOSOPHY",
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is the single content entity managed by the blog layer.
//
// The ID is opaque: the remote gateway assigns a UUID, the local snapshot
// backend synthesizes a timestamp-based string. Callers must never parse it.
type Post struct {
	ID         string         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title      string         `json:"title" db:"title" gorm:"type:text;not null"`
	Slug       string         `json:"slug" db:"slug" gorm:"type:text;not null"`
	Excerpt    string         `json:"excerpt" db:"excerpt" gorm:"type:text"`
	Content    string         `json:"content" db:"content" gorm:"type:text;not null"`
	Category   string         `json:"category" db:"category" gorm:"type:text;not null"`
	Published  bool           `json:"published" db:"published" gorm:"not null;default:false"`
	Featured   bool           `json:"featured" db:"featured" gorm:"not null;default:false"`
	Visibility Visibility     `json:"visibility" db:"visibility" gorm:"type:text;not null;default:'public'"`
	Password   string         `json:"password,omitempty" db:"password" gorm:"type:text"`
	ReadTime   string         `json:"readTime" db:"read_time" gorm:"type:text;not null;default:'1 min'"`
	Tags       datatypes.JSON `json:"tags,omitempty" db:"tags" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// TableName maps Post onto the hosted blog_posts table.
func (Post) TableName() string { return "blog_posts" }

// DisplayedAsPublic reports whether the post may appear in public listings:
// it must be published and not private.
func (p Post) DisplayedAsPublic() bool {
	return p.Published && p.Visibility != VisibilityPrivate
}

// PasswordGated reports whether viewing the post requires the per-post password.
func (p Post) PasswordGated() bool {
	return p.Visibility == VisibilityPassword
}

// Slugify derives a URL-safe slug from a title: lowercased, non-alphanumerics
// stripped, whitespace collapsed to single hyphens. The transform is idempotent;
// re-deriving an already derived slug yields the same string.
func Slugify(title string) string {
	return slug.Make(title)
}

// EstimateReadTime computes the "N min" read-time estimate from the content
// word count at 200 words per minute, never less than one minute. Read-time is
// derived state: it is recomputed on every create and update, never authored.
func EstimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / 200.0))
	if minutes < 1 {
		minutes = 1
	}
	return strconv.Itoa(minutes) + " min"
}
