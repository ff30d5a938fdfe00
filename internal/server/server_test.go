package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/review-hub/internal/auth"
	"github.com/sakif/review-hub/internal/config"
	"github.com/sakif/review-hub/internal/storage/disk"
)

// =========================================================================
// TEST HARNESS
// =========================================================================
//
// Every test gets a complete server: in-memory sqlite, a temp upload
// directory and the real router. Requests go through Handler() directly,
// so no port is opened.

func init() {
	newPasswordService = func() *auth.PasswordService {
		return auth.NewPasswordServiceForTest(bcrypt.MinCost)
	}
}

type harness struct {
	t       *testing.T
	handler http.Handler
	dir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	files, err := disk.New(dir, "http://files.test/files")
	require.NoError(t, err)

	cfg := &config.Config{
		Port:           8080,
		Environment:    "dev",
		DBPath:         ":memory:",
		CORSOrigins:    []string{"http://localhost:3000"},
		JWTSecret:      "test-secret-at-least-16-chars",
		TokenTTL:       time.Hour,
		StorageDriver:  config.StorageDisk,
		StorageDir:     dir,
		MaxUploadBytes: 1 << 20,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := New(cfg, logger, files)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return &harness{t: t, handler: srv.Handler(), dir: dir}
}

// do sends a JSON request and returns the recorder. body may be nil.
func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// register creates an account and returns its token.
func (h *harness) register(name string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/users", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "password123",
	})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](h.t, rec)["token"]
}

type submissionBody struct {
	ID          string `json:"id"`
	User        string `json:"user"`
	Title       string `json:"title"`
	StorageLink string `json:"storage_link"`
	Private     bool   `json:"private"`
	PrivateID   string `json:"private_id"`
	Reviews     []struct {
		ID   string `json:"id"`
		User string `json:"user"`
	} `json:"reviews"`
	Comments []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"comments"`
	Likes []struct {
		User string `json:"user"`
	} `json:"likes"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (h *harness) createSubmission(token string) submissionBody {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/submissions", token, map[string]string{
		"title":        "Thesis draft",
		"storage_link": "http://files.test/files/draft.pdf",
	})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[submissionBody](h.t, rec)
}

func (h *harness) makePublic(token, id string) {
	h.t.Helper()
	rec := h.do(http.MethodPut, "/v1/submissions/private/"+id, token, nil)
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(h.t, decode[submissionBody](h.t, rec).Private)
}

// =========================================================================
// HEALTH & AUTH
// =========================================================================

func TestHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/v1/submissions", "/v1/submissions/me", "/v1/auth", "/v1/profile/me"} {
		rec := h.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := h.do(http.MethodGet, "/v1/submissions", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decode[errorBody](t, rec).Error)
}

func TestRegisterLoginMe(t *testing.T) {
	h := newHarness(t)

	token := h.register("ada")

	rec := h.do(http.MethodGet, "/v1/auth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "ada", me["name"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "PasswordHash")

	// The legacy header works too.
	req := httptest.NewRequest(http.MethodGet, "/v1/auth", nil)
	req.Header.Set(auth.TokenHeader, token)
	legacy := httptest.NewRecorder()
	h.handler.ServeHTTP(legacy, req)
	assert.Equal(t, http.StatusOK, legacy.Code)

	rec = h.do(http.MethodPost, "/v1/auth", "", map[string]string{"email": "ada@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["token"])

	rec = h.do(http.MethodPost, "/v1/auth", "", map[string]string{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid credentials", decode[errorBody](t, rec).Message)
}

func TestRegister_DuplicateAndInvalid(t *testing.T) {
	h := newHarness(t)
	h.register("ada")

	rec := h.do(http.MethodPost, "/v1/users", "", map[string]string{
		"name": "Ada again", "email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user already exists", decode[errorBody](t, rec).Message)

	rec = h.do(http.MethodPost, "/v1/users", "", map[string]string{
		"name": "x", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decode[errorBody](t, rec).Field)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString("{not json"))
	bad := httptest.NewRecorder()
	h.handler.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestGitHubRoutesAbsentWhenNotConfigured(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/v1/auth/github/login", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =========================================================================
// SUBMISSION SCENARIOS
// =========================================================================

func TestScenario_PrivateSubmissionSharedLink(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")

	sub := h.createSubmission(alice)
	require.True(t, sub.Private)
	require.NotEmpty(t, sub.PrivateID)

	rec := h.do(http.MethodGet, "/v1/submissions/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodGet, "/v1/submissions/"+sub.ID+"/"+sub.PrivateID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[submissionBody](t, rec)
	assert.Equal(t, sub.ID, got.ID)
	assert.Empty(t, got.PrivateID, "the secret is only shown to the owner")

	rec = h.do(http.MethodGet, "/v1/submissions/"+sub.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sub.PrivateID, decode[submissionBody](t, rec).PrivateID)
}

func TestScenario_WrongSecretMatchesUnknownID(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")
	sub := h.createSubmission(alice)

	wrong := h.do(http.MethodGet, "/v1/submissions/"+sub.ID+"/not-the-secret", bob, nil)
	unknown := h.do(http.MethodGet, "/v1/submissions/unknown-id/not-the-secret", bob, nil)

	assert.Equal(t, http.StatusNotFound, wrong.Code)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestScenario_SecretGrantsNoOwnership(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")
	sub := h.createSubmission(alice)

	rec := h.do(http.MethodPut, "/v1/submissions/private/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodDelete, "/v1/submissions/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodGet, "/v1/submissions/"+sub.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[submissionBody](t, rec).Private)
}

func TestScenario_ToggleTwiceRestores(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	sub := h.createSubmission(alice)

	h.makePublic(alice, sub.ID)
	rec := h.do(http.MethodPut, "/v1/submissions/private/"+sub.ID, alice, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[submissionBody](t, rec).Private)
}

func TestScenario_ReviewTwice(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")
	sub := h.createSubmission(alice)
	h.makePublic(alice, sub.ID)

	review := map[string]string{"text": "Well argued.", "storage_link": "http://files.test/files/review.pdf"}

	rec := h.do(http.MethodPut, "/v1/submissions/reviews/"+sub.ID, bob, review)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPut, "/v1/submissions/reviews/"+sub.ID, bob, review)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/v1/submissions/"+sub.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[submissionBody](t, rec).Reviews, 1)
}

func TestScenario_LikeUnlike(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")
	sub := h.createSubmission(alice)

	// Private submissions cannot be liked, and say so as "not found".
	rec := h.do(http.MethodPut, "/v1/submissions/like/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h.makePublic(alice, sub.ID)

	rec = h.do(http.MethodPut, "/v1/submissions/like/"+sub.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]string](t, rec), 1)

	rec = h.do(http.MethodPut, "/v1/submissions/like/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "submission already liked", decode[errorBody](t, rec).Message)

	rec = h.do(http.MethodPut, "/v1/submissions/unlike/"+sub.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]string](t, rec))

	rec = h.do(http.MethodPut, "/v1/submissions/unlike/"+sub.ID, bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_CommentsOnPrivateSubmission(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")
	sub := h.createSubmission(alice)

	rec := h.do(http.MethodPut, "/v1/submissions/comment/"+sub.ID, bob, map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "submission is private", decode[errorBody](t, rec).Message)

	base := "/v1/submissions/comment/" + sub.ID
	for _, text := range []string{"one", "two", "three"} {
		rec = h.do(http.MethodPut, base+"/"+sub.PrivateID, bob, map[string]string{"text": text})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	comments := decode[[]map[string]any](t, rec)
	require.Len(t, comments, 3)
	middleID := comments[1]["id"].(string)

	// Missing secret on a private submission blocks the delete.
	rec = h.do(http.MethodDelete, base+"/"+middleID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Alice owns the submission but did not write the comment.
	rec = h.do(http.MethodDelete, base+"/"+middleID+"/"+sub.PrivateID, alice, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodDelete, base+"/"+middleID+"/"+sub.PrivateID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	left := decode[[]map[string]any](t, rec)
	require.Len(t, left, 2)
	assert.Equal(t, "three", left[0]["text"])
	assert.Equal(t, "one", left[1]["text"])
}

func TestScenario_ListsAndDelete(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")

	private := h.createSubmission(alice)
	public := h.createSubmission(alice)
	h.makePublic(alice, public.ID)

	rec := h.do(http.MethodGet, "/v1/submissions", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]submissionBody](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)
	assert.Empty(t, list[0].PrivateID)

	// Owning a listed submission does not put its private id in the listing.
	rec = h.do(http.MethodGet, "/v1/submissions", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	own := decode[[]submissionBody](t, rec)
	require.Len(t, own, 1)
	assert.Empty(t, own[0].PrivateID)
	assert.NotContains(t, rec.Body.String(), "private_id")

	rec = h.do(http.MethodGet, "/v1/submissions/me", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]submissionBody](t, rec), 2)

	rec = h.do(http.MethodDelete, "/v1/submissions/"+private.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Submission removed"}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/v1/submissions/"+private.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_CreateValidation(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")

	rec := h.do(http.MethodPost, "/v1/submissions", alice, map[string]string{"storage_link": "http://x/y.pdf"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "title", body.Field)
}

// =========================================================================
// UPLOADS
// =========================================================================

func (h *harness) upload(token, filename string, content []byte) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(h.t, err)
	_, err = part.Write(content)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadServeAndRelease(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")
	bob := h.register("bob")

	rec := h.upload(alice, "draft.pdf", []byte("%PDF-1.7 test"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	up := decode[map[string]string](t, rec)
	require.NotEmpty(t, up["key"])
	assert.Equal(t, "http://files.test/files/"+up["key"], up["url"])

	// Served back by /files/.
	get := h.do(http.MethodGet, "/files/"+up["key"], "", nil)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "%PDF-1.7 test", get.Body.String())

	// Only the uploader may delete it directly.
	rec = h.do(http.MethodDelete, "/v1/uploads/"+up["key"], bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Deleting the submission that links it releases the file.
	rec = h.do(http.MethodPost, "/v1/submissions", alice, map[string]string{
		"title": "With file", "storage_link": up["url"],
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sub := decode[submissionBody](t, rec)

	rec = h.do(http.MethodDelete, "/v1/submissions/"+sub.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := os.Stat(filepath.Join(h.dir, up["key"]))
	assert.True(t, os.IsNotExist(err))
}

func TestSharedUploadSurvivesUntilLastSubmission(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")

	rec := h.upload(alice, "draft.pdf", []byte("%PDF-1.7 shared"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	up := decode[map[string]string](t, rec)

	create := func(title string) submissionBody {
		rec := h.do(http.MethodPost, "/v1/submissions", alice, map[string]string{
			"title": title, "storage_link": up["url"],
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[submissionBody](t, rec)
	}
	first := create("First")
	second := create("Second")

	rec = h.do(http.MethodDelete, "/v1/submissions/"+first.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	get := h.do(http.MethodGet, "/files/"+up["key"], "", nil)
	require.Equal(t, http.StatusOK, get.Code, "second submission still links the file")
	assert.Equal(t, "%PDF-1.7 shared", get.Body.String())

	rec = h.do(http.MethodDelete, "/v1/submissions/"+second.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := os.Stat(filepath.Join(h.dir, up["key"]))
	assert.True(t, os.IsNotExist(err))
}

func TestUpload_Rejects(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")

	rec := h.upload(alice, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	noFile := httptest.NewRecorder()
	h.handler.ServeHTTP(noFile, req)
	assert.Equal(t, http.StatusBadRequest, noFile.Code)

	rec = h.do(http.MethodDelete, "/v1/uploads/missing.pdf", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =========================================================================
// PROFILES
// =========================================================================

func TestProfiles(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")

	rec := h.do(http.MethodGet, "/v1/profile/me", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/v1/profile", alice, map[string]any{
		"website":  "https://alice.example.com",
		"location": "Lisbon",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", p["name"])
	userID := p["user"].(string)

	rec = h.do(http.MethodGet, "/v1/profile/user/"+userID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lisbon", decode[map[string]any](t, rec)["location"])

	rec = h.do(http.MethodGet, "/v1/profile", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestProfilePublications(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice")

	type publication struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	type profile struct {
		Location     string        `json:"location"`
		Publications []publication `json:"publications"`
	}

	add := func(title string) *httptest.ResponseRecorder {
		return h.do(http.MethodPut, "/v1/profile/publications", alice, map[string]string{
			"title": title, "publication": "Journal", "link": "https://example.com/" + title,
		})
	}

	// No profile yet.
	assert.Equal(t, http.StatusNotFound, add("early").Code)

	rec := h.do(http.MethodPost, "/v1/profile", alice, map[string]any{"location": "Lisbon"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Equal(t, http.StatusOK, add("first").Code)
	rec = add("second")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[profile](t, rec)
	require.Len(t, p.Publications, 2)
	assert.Equal(t, "second", p.Publications[0].Title)
	assert.Equal(t, "Lisbon", p.Location)

	rec = h.do(http.MethodPut, "/v1/profile/publications", alice, map[string]string{"title": "no link", "publication": "Journal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "link", decode[errorBody](t, rec).Field)

	rec = h.do(http.MethodDelete, "/v1/profile/publications/"+p.Publications[1].ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decode[profile](t, rec)
	require.Len(t, p.Publications, 1)
	assert.Equal(t, "second", p.Publications[0].Title)

	rec = h.do(http.MethodDelete, "/v1/profile/publications/unknown", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/v1/profile/me", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[profile](t, rec).Publications, 1)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/submissions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", auth.TokenHeader)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
