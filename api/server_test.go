package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-void/site-backend/draft"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
	"github.com/zero-void/site-backend/store"
)

type testEnv struct {
	router    http.Handler
	store     *store.ContentStore
	snapshots *localstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	snapshots, err := localstore.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = snapshots.Close() })

	contentStore, err := store.New(context.Background(), nil, snapshots, zerolog.Nop())
	require.NoError(t, err)

	deps := Dependencies{
		Config: map[string]string{
			"ADMIN_PASSWORD": "let-me-in",
			"TOKEN_SECRET":   "test-secret",
		},
		Store:     contentStore,
		Snapshots: snapshots,
	}

	return &testEnv{
		router:    newRouter(deps),
		store:     contentStore,
		snapshots: snapshots,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/login", "", map[string]string{"password": "let-me-in"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) createPost(t *testing.T, d models.EditableDraft) models.Post {
	t.Helper()

	post, err := e.store.Create(context.Background(), d)
	require.NoError(t, err)
	return post
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPublicListingHidesUnpublishedAndPrivate(t *testing.T) {
	env := newTestEnv(t)

	visible := env.createPost(t, models.EditableDraft{
		Title: "Visible", Content: "body", Published: true,
	})
	hidden := env.createPost(t, models.EditableDraft{
		Title: "Hidden Draft", Content: "body", Published: false,
	})
	private := env.createPost(t, models.EditableDraft{
		Title: "Private", Content: "body", Published: true,
		Visibility: models.VisibilityPrivate,
	})

	rec := env.do(t, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	collection := decodeBody[PostCollection](t, rec)
	ids := map[string]bool{}
	for _, p := range collection.Posts {
		ids[p.ID] = true
	}

	assert.True(t, ids[visible.ID])
	assert.False(t, ids[hidden.ID])
	assert.False(t, ids[private.ID])
}

func TestPublicViewNeverLeaksPasswordOrGatedContent(t *testing.T) {
	env := newTestEnv(t)

	gated := env.createPost(t, models.EditableDraft{
		Title: "Gated", Content: "the secret body", Published: true,
		Visibility: models.VisibilityPassword, Password: "abc123",
	})

	rec := env.do(t, http.MethodGet, "/post/"+gated.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "abc123")
	assert.NotContains(t, rec.Body.String(), "the secret body")

	view := decodeBody[PostView](t, rec)
	assert.True(t, view.Locked)
	assert.Empty(t, view.Content)
}

func TestGetPostBySlug(t *testing.T) {
	env := newTestEnv(t)

	created := env.createPost(t, models.EditableDraft{
		Title: "Find Me By Slug", Content: "body", Published: true,
	})

	rec := env.do(t, http.MethodGet, "/post/find-me-by-slug", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeBody[PostView](t, rec)
	assert.Equal(t, created.ID, view.ID)
}

func TestPrivatePostReadsAsNotFound(t *testing.T) {
	env := newTestEnv(t)

	private := env.createPost(t, models.EditableDraft{
		Title: "Private", Content: "body", Published: true,
		Visibility: models.VisibilityPrivate,
	})

	rec := env.do(t, http.MethodGet, "/post/"+private.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnlockPost(t *testing.T) {
	env := newTestEnv(t)

	gated := env.createPost(t, models.EditableDraft{
		Title: "Gated", Content: "## Heading\nbody", Published: true,
		Visibility: models.VisibilityPassword, Password: "abc123",
	})

	wrong := env.do(t, http.MethodPost, "/post/"+gated.ID+"/unlock", "", map[string]string{"password": "ABC123"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	right := env.do(t, http.MethodPost, "/post/"+gated.ID+"/unlock", "", map[string]string{"password": "abc123"})
	require.Equal(t, http.StatusOK, right.Code)

	rendered := decodeBody[RenderedPost](t, right)
	assert.Equal(t, "## Heading\nbody", rendered.Content)
	assert.False(t, rendered.Locked)
	assert.NotEmpty(t, rendered.Blocks)
	assert.NotContains(t, right.Body.String(), "abc123")
}

func TestRenderedPostForbiddenWhenGated(t *testing.T) {
	env := newTestEnv(t)

	gated := env.createPost(t, models.EditableDraft{
		Title: "Gated", Content: "body", Published: true,
		Visibility: models.VisibilityPassword, Password: "pw",
	})
	open := env.createPost(t, models.EditableDraft{
		Title: "Open", Content: "- a\n- b", Published: true,
	})

	rec := env.do(t, http.MethodGet, "/post/"+gated.ID+"/rendered", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/post/"+open.ID+"/rendered", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rendered := decodeBody[RenderedPost](t, rec)
	require.Len(t, rendered.Blocks, 1)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/admin/posts", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.login(t)
	rec = env.do(t, http.MethodGet, "/admin/posts", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/login", "", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostClearsDraftSnapshot(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	require.NoError(t, draft.Save(env.snapshots, models.EditableDraft{Title: "WIP"}, "", time.Now()))

	rec := env.do(t, http.MethodPost, "/admin/post", token, models.EditableDraft{
		Title: "Shipped", Content: "done at last", Published: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, ok := env.snapshots.Draft()
	assert.False(t, ok, "a successful submit discards the autosaved draft")
}

func TestCreatePostValidationFailureKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	require.NoError(t, draft.Save(env.snapshots, models.EditableDraft{Title: "WIP"}, "", time.Now()))

	rec := env.do(t, http.MethodPost, "/admin/post", token, models.EditableDraft{Content: "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, ok := env.snapshots.Draft()
	assert.True(t, ok, "a failed submit must not discard the draft")
}

func TestUpdateAndDeletePost(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	created := env.createPost(t, models.EditableDraft{Title: "Before", Content: "body"})

	rec := env.do(t, http.MethodPut, "/admin/post/"+created.ID, token, models.EditableDraft{
		Title: "After", Content: "new body",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[models.Post](t, rec)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "after", updated.Slug)

	rec = env.do(t, http.MethodDelete, "/admin/post/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/admin/post/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTogglePublishEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	created := env.createPost(t, models.EditableDraft{Title: "Toggle", Content: "body"})
	path := fmt.Sprintf("/admin/post/%s/publish", created.ID)

	rec := env.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[models.Post](t, rec).Published)

	rec = env.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[models.Post](t, rec).Published)
}

func TestDraftRecoveryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodGet, "/admin/draft", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[recoveryResponse](t, rec).Draft)

	require.NoError(t, draft.Save(env.snapshots, models.EditableDraft{Title: "Recover Me"}, "5", time.Now()))

	rec = env.do(t, http.MethodGet, "/admin/draft", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recovered := decodeBody[recoveryResponse](t, rec)
	require.NotNil(t, recovered.Draft)
	assert.Equal(t, "Recover Me", recovered.Draft.Form.Title)
	assert.Equal(t, "5", recovered.Draft.EditingID)

	rec = env.do(t, http.MethodDelete, "/admin/draft", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := env.snapshots.Draft()
	assert.False(t, ok)
}

func TestExpiredDraftNotOffered(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	require.NoError(t, draft.Save(env.snapshots, models.EditableDraft{Title: "Stale"}, "", time.Now().Add(-25*time.Hour)))

	rec := env.do(t, http.MethodGet, "/admin/draft", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[recoveryResponse](t, rec).Draft)

	_, ok := env.snapshots.Draft()
	assert.False(t, ok, "the expired snapshot is deleted on check")
}

func TestEditorSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/editor/open", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/admin/editor/state", token, models.EditableDraft{Title: "typing..."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/draft", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, ok := env.snapshots.Draft()
	require.True(t, ok)
	assert.Equal(t, "typing...", stored.Form.Title)

	rec = env.do(t, http.MethodPost, "/admin/editor/close", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// No session open anymore.
	rec = env.do(t, http.MethodPost, "/admin/draft", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormatEndpointWithoutProvider(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/format", token, map[string]string{"content": "raw text"})
	assert.Equal(t, http.StatusBadGateway, rec.Code, "no provider configured is a gateway failure, not a crash")
}

func TestSiteContentDegradesToEmptyWithoutBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/experiences", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"experiences":[]}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/gallery", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"images":[]}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/reading-log", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())
}
