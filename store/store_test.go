package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
)

func newLocalStore(t *testing.T) (*ContentStore, *localstore.Store) {
	t.Helper()

	snap, err := localstore.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })

	s, err := New(context.Background(), nil, snap, zerolog.Nop())
	require.NoError(t, err)
	return s, snap
}

func TestNewWithoutRemoteSeedsLocalMode(t *testing.T) {
	s, snap := newLocalStore(t)

	assert.Equal(t, ModeLocal, s.Mode())
	assert.NotEmpty(t, s.Posts(), "seed posts must be loaded")

	// The seed is persisted so a restart finds a snapshot instead of reseeding.
	persisted, ok := snap.Posts()
	require.True(t, ok)
	assert.Len(t, persisted, len(s.Posts()))
}

func TestNewPrefersExistingSnapshotOverSeed(t *testing.T) {
	dir := t.TempDir()

	snap, err := localstore.Open(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, snap.SetPosts([]models.Post{{ID: "77", Title: "Mine", Slug: "mine"}}))
	require.NoError(t, snap.Close())

	snap, err = localstore.Open(dir, zerolog.Nop())
	require.NoError(t, err)
	defer snap.Close()

	s, err := New(context.Background(), nil, snap, zerolog.Nop())
	require.NoError(t, err)

	posts := s.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "77", posts[0].ID)
}

func TestCreateRoundTrip(t *testing.T) {
	s, _ := newLocalStore(t)
	before := len(s.PublishedPosts())

	created, err := s.Create(context.Background(), models.EditableDraft{
		Title:     "A Fresh Post",
		Content:   "Some words worth reading.",
		Category:  "TECH",
		Published: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a-fresh-post", created.Slug)
	assert.Equal(t, "1 min", created.ReadTime)

	published := s.PublishedPosts()
	assert.Len(t, published, before+1)

	count := 0
	for _, p := range published {
		if p.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count, "the new post appears exactly once")
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	s, _ := newLocalStore(t)
	before := len(s.Posts())

	_, err := s.Create(context.Background(), models.EditableDraft{Content: "no title"})
	assert.Error(t, err)
	assert.Len(t, s.Posts(), before, "a rejected draft must not change the list")
}

func TestPrivatePostsExcludedFromPublicListings(t *testing.T) {
	s, _ := newLocalStore(t)

	private, err := s.Create(context.Background(), models.EditableDraft{
		Title:      "For My Eyes Only",
		Content:    "secret notes",
		Published:  true,
		Visibility: models.VisibilityPrivate,
	})
	require.NoError(t, err)

	gated, err := s.Create(context.Background(), models.EditableDraft{
		Title:      "Members Post",
		Content:    "gated words",
		Published:  true,
		Visibility: models.VisibilityPassword,
		Password:   "abc123",
	})
	require.NoError(t, err)

	for _, p := range s.PublishedPosts() {
		assert.NotEqual(t, private.ID, p.ID, "private posts never appear publicly")
	}

	found := false
	for _, p := range s.PublishedPosts() {
		if p.ID == gated.ID {
			found = true
		}
	}
	assert.True(t, found, "password-gated posts still appear in listings")
}

func TestVerifyPassword(t *testing.T) {
	s, _ := newLocalStore(t)

	gated, err := s.Create(context.Background(), models.EditableDraft{
		Title:      "Gated",
		Content:    "body",
		Published:  true,
		Visibility: models.VisibilityPassword,
		Password:   "abc123",
	})
	require.NoError(t, err)

	open, err := s.Create(context.Background(), models.EditableDraft{
		Title:     "Open",
		Content:   "body",
		Published: true,
	})
	require.NoError(t, err)

	cases := []struct {
		name      string
		id        string
		candidate string
		expected  bool
	}{
		{name: "exact match", id: gated.ID, candidate: "abc123", expected: true},
		{name: "case sensitive", id: gated.ID, candidate: "ABC123", expected: false},
		{name: "empty candidate", id: gated.ID, candidate: "", expected: false},
		{name: "ungated always passes", id: open.ID, candidate: "anything", expected: true},
		{name: "unknown post fails", id: "nope", candidate: "abc123", expected: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, s.VerifyPassword(tc.id, tc.candidate))
		})
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	s, _ := newLocalStore(t)

	post, err := s.Create(context.Background(), models.EditableDraft{
		Title:   "Toggle Me",
		Content: "body",
	})
	require.NoError(t, err)
	require.False(t, post.Published)

	once, err := s.TogglePublish(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, once.Published)

	twice, err := s.TogglePublish(context.Background(), post.ID)
	require.NoError(t, err)
	assert.False(t, twice.Published)

	feat, err := s.ToggleFeatured(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, feat.Featured)
	assert.False(t, feat.Published, "featured toggle must not touch published")
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	s, _ := newLocalStore(t)

	created, err := s.Create(context.Background(), models.EditableDraft{
		Title:   "Original Title",
		Content: "body",
	})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), created.ID, models.EditableDraft{
		Title:   "New Title",
		Content: "longer body with more words",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "new-title", updated.Slug)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestDeleteRemovesPost(t *testing.T) {
	s, _ := newLocalStore(t)

	created, err := s.Create(context.Background(), models.EditableDraft{
		Title:   "Doomed",
		Content: "body",
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), created.ID))
	_, ok := s.Get(created.ID)
	assert.False(t, ok)

	err = s.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestGetBySlug(t *testing.T) {
	s, _ := newLocalStore(t)

	created, err := s.Create(context.Background(), models.EditableDraft{
		Title:   "Findable By Slug",
		Content: "body",
	})
	require.NoError(t, err)

	found, ok := s.GetBySlug("findable-by-slug")
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)

	_, ok = s.GetBySlug("missing-slug")
	assert.False(t, ok)
}

// fakeRepository stands in for the remote gateway so backend failures and
// patch payloads can be observed.
type fakeRepository struct {
	posts      []models.Post
	failAll    bool
	lastPatch  map[string]any
	patchCalls int
}

var errBackendDown = errors.New("backend down")

func (f *fakeRepository) List(context.Context) ([]models.Post, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	return clonePosts(f.posts), nil
}

func (f *fakeRepository) Create(_ context.Context, post models.Post) (models.Post, error) {
	if f.failAll {
		return models.Post{}, errBackendDown
	}
	post.ID = "fake-id"
	f.posts = append([]models.Post{post}, f.posts...)
	return post, nil
}

func (f *fakeRepository) Update(_ context.Context, post models.Post) (models.Post, error) {
	if f.failAll {
		return models.Post{}, errBackendDown
	}
	return post, nil
}

func (f *fakeRepository) Patch(_ context.Context, id string, fields map[string]any) error {
	f.patchCalls++
	f.lastPatch = fields
	if f.failAll {
		return errBackendDown
	}
	return nil
}

func (f *fakeRepository) Delete(context.Context, string) error {
	if f.failAll {
		return errBackendDown
	}
	return nil
}

func newRemoteBackedStore(repo *fakeRepository) *ContentStore {
	return &ContentStore{
		posts:  clonePosts(repo.posts),
		repo:   repo,
		mode:   ModeRemote,
		logger: zerolog.Nop(),
	}
}

func TestBackendFailureLeavesMemoryUntouched(t *testing.T) {
	repo := &fakeRepository{posts: []models.Post{{ID: "1", Title: "Kept", Published: true}}}
	s := newRemoteBackedStore(repo)
	repo.failAll = true

	_, err := s.Create(context.Background(), models.EditableDraft{Title: "New", Content: "body"})
	assert.ErrorIs(t, err, errBackendDown)
	assert.Len(t, s.Posts(), 1, "failed create must not add to memory")

	_, err = s.TogglePublish(context.Background(), "1")
	assert.ErrorIs(t, err, errBackendDown)
	got, _ := s.Get("1")
	assert.True(t, got.Published, "failed toggle must not flip memory")

	err = s.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, errBackendDown)
	assert.Len(t, s.Posts(), 1)

	assert.ErrorIs(t, s.Err(), errBackendDown)
}

func TestTogglePatchesSingleField(t *testing.T) {
	repo := &fakeRepository{posts: []models.Post{{ID: "1", Published: false, Featured: true}}}
	s := newRemoteBackedStore(repo)

	_, err := s.TogglePublish(context.Background(), "1")
	require.NoError(t, err)

	require.Equal(t, 1, repo.patchCalls)
	assert.Equal(t, map[string]any{"published": true}, repo.lastPatch)

	_, err = s.ToggleFeatured(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"featured": false}, repo.lastPatch)
}

func TestRefreshReplacesList(t *testing.T) {
	repo := &fakeRepository{posts: []models.Post{{ID: "1"}}}
	s := newRemoteBackedStore(repo)

	repo.posts = []models.Post{{ID: "2"}, {ID: "3"}}
	require.NoError(t, s.Refresh(context.Background()))

	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "2", posts[0].ID)
}
