package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/zero-void/site-backend/errs"
)

// EditableDraft is the validated authoring payload for a post. It is the only
// way form data enters the Post type; ToPost/ApplyTo enforce the entity
// invariants at this boundary.
type EditableDraft struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"` // optional explicit override
	Excerpt    string     `json:"excerpt"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Published  bool       `json:"published"`
	Featured   bool       `json:"featured"`
	Visibility Visibility `json:"visibility"`
	Password   string     `json:"password"`
	Tags       []string   `json:"tags"`
}

// Validate checks the field-level invariants of the draft.
func (d EditableDraft) Validate() error {
	if d.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if d.Content == "" {
		return errs.NewMissingRequiredFieldError("content")
	}
	if d.Category != "" && !ValidCategory(d.Category) {
		return errs.NewInvalidFieldError("category", "unknown category")
	}
	if d.Visibility != "" && !d.Visibility.Valid() {
		return errs.NewInvalidFieldError("visibility", "must be public, private or password")
	}
	if d.Visibility == VisibilityPassword && d.Password == "" {
		return errs.NewInvalidFieldError("password", "password-gated posts require a password")
	}
	return nil
}

// ToPost converts the draft into a new Post, deriving slug and read-time and
// clearing the password unless the post is password-gated. The ID and
// timestamps are left for the backend to assign.
func (d EditableDraft) ToPost() Post {
	p := Post{
		Title:      d.Title,
		Excerpt:    d.Excerpt,
		Content:    d.Content,
		Category:   d.Category,
		Published:  d.Published,
		Featured:   d.Featured,
		Visibility: d.Visibility,
	}
	d.ApplyTo(&p)
	return p
}

// ApplyTo merges the draft into an existing post, re-deriving all derived
// fields.
func (d EditableDraft) ApplyTo(p *Post) {
	p.Title = d.Title
	p.Excerpt = d.Excerpt
	p.Content = d.Content
	p.Category = d.Category
	p.Published = d.Published
	p.Featured = d.Featured

	p.Visibility = d.Visibility
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	if p.Visibility == VisibilityPassword {
		p.Password = d.Password
	} else {
		// visibility != password implies the password is cleared
		p.Password = ""
	}

	p.Slug = d.Slug
	if p.Slug == "" {
		p.Slug = Slugify(d.Title)
	}
	p.ReadTime = EstimateReadTime(d.Content)

	if len(d.Tags) > 0 {
		if raw, err := json.Marshal(d.Tags); err == nil {
			p.Tags = datatypes.JSON(raw)
		}
	} else {
		p.Tags = nil
	}
}

// DraftSnapshotMaxAge is how long an autosaved snapshot stays recoverable.
// Older snapshots are silently discarded instead of being offered.
const DraftSnapshotMaxAge = 24 * time.Hour

// DraftSnapshot is the autosaved, unvalidated copy of in-progress editor form
// state. At most one snapshot exists at a time; each autosave tick overwrites
// the previous one.
type DraftSnapshot struct {
	Form      EditableDraft `json:"form"`
	SavedAt   time.Time     `json:"savedAt"`
	EditingID string        `json:"editingId"` // empty when drafting a new post
}

// Expired reports whether the snapshot is too old to offer for recovery.
func (s DraftSnapshot) Expired(now time.Time) bool {
	return now.Sub(s.SavedAt) > DraftSnapshotMaxAge
}
