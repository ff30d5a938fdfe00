package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// Each one stores copies, never the caller's pointer, so a test that
// mutates a returned value cannot reach into "the database".

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ----- submissions -----

type fakeSubmissionRepo struct {
	mu       sync.Mutex
	subs     map[string]*model.Submission
	order    []string
	nextID   int
	saveErr  error
	getErr   error
	countErr error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: make(map[string]*model.Submission)}
}

func cloneSubmission(s *model.Submission) *model.Submission {
	c := *s
	c.Comments = slices.Clone(s.Comments)
	c.Reviews = slices.Clone(s.Reviews)
	c.Likes = slices.Clone(s.Likes)
	c.EnsureCollections()
	return &c
}

func (f *fakeSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.subs {
		if existing.PrivateID == sub.PrivateID {
			return fmt.Errorf("UNIQUE constraint failed: submissions.private_id")
		}
	}
	f.nextID++
	sub.ID = fmt.Sprintf("sub-%d", f.nextID)
	sub.CreatedAt = time.Now().UTC()
	sub.EnsureCollections()
	f.subs[sub.ID] = cloneSubmission(sub)
	f.order = append(f.order, sub.ID)
	return nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.subs[id]
	if !ok {
		return nil, apperror.NotFound("submission", id)
	}
	return cloneSubmission(s), nil
}

func (f *fakeSubmissionRepo) Save(_ context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	existing, ok := f.subs[sub.ID]
	if !ok {
		return apperror.NotFound("submission", sub.ID)
	}
	c := cloneSubmission(sub)
	// The store never rewrites these.
	c.OwnerID = existing.OwnerID
	c.PrivateID = existing.PrivateID
	c.CreatedAt = existing.CreatedAt
	f.subs[sub.ID] = c
	return nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return apperror.NotFound("submission", id)
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeSubmissionRepo) list(keep func(*model.Submission) bool) []model.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Submission{}
	for i := len(f.order) - 1; i >= 0; i-- { // newest first
		s, ok := f.subs[f.order[i]]
		if ok && keep(s) {
			out = append(out, *cloneSubmission(s))
		}
	}
	return out
}

func (f *fakeSubmissionRepo) ListPublic(_ context.Context) ([]model.Submission, error) {
	return f.list(func(s *model.Submission) bool { return !s.IsPrivate }), nil
}

func (f *fakeSubmissionRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Submission, error) {
	return f.list(func(s *model.Submission) bool { return s.OwnerID == ownerID }), nil
}

func (f *fakeSubmissionRepo) CountLinkReferences(_ context.Context, link string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, s := range f.subs {
		if s.StorageLink == link {
			n++
		}
		for _, r := range s.Reviews {
			if r.StorageLink == link {
				n++
			}
		}
	}
	return n, nil
}

// ----- users -----

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User
	nextID    int
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

// add inserts a user directly and returns it.
func (f *fakeUserRepo) add(name string) *model.User {
	u := &model.User{Name: name, Email: name + "@example.com", AvatarURL: "avatar-" + name}
	_ = f.CreateUser(context.Background(), u)
	return u
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user already exists")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// ----- uploads -----

type fakeUploadRepo struct {
	mu        sync.Mutex
	uploads   map[string]*model.Upload
	createErr error
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[string]*model.Upload)}
}

func (f *fakeUploadRepo) CreateUpload(_ context.Context, u *model.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	c := *u
	f.uploads[u.Key] = &c
	return nil
}

func (f *fakeUploadRepo) GetUpload(_ context.Context, key string) (*model.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[key]
	if !ok {
		return nil, apperror.NotFound("file", key)
	}
	c := *u
	return &c, nil
}

func (f *fakeUploadRepo) DeleteUpload(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.uploads[key]; !ok {
		return apperror.NotFound("file", key)
	}
	delete(f.uploads, key)
	return nil
}

// ----- profiles -----

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	users    *fakeUserRepo
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile), users: users}
}

func (f *fakeProfileRepo) UpsertProfile(_ context.Context, p *model.Profile) error {
	c := *p
	c.Publications = slices.Clone(p.Publications)
	f.profiles[p.UserID] = &c
	return nil
}

func (f *fakeProfileRepo) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperror.NotFoundMessage("there is no profile for this user")
	}
	c := *p
	c.Publications = slices.Clone(p.Publications)
	if c.Publications == nil {
		c.Publications = []model.Publication{}
	}
	if u, err := f.users.GetUserByID(ctx, userID); err == nil {
		c.Name, c.Avatar = u.Name, u.AvatarURL
	}
	return &c, nil
}

func (f *fakeProfileRepo) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []model.Profile{}
	for _, id := range ids {
		p, _ := f.GetProfileByUserID(ctx, id)
		out = append(out, *p)
	}
	return out, nil
}

// ----- object store -----

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = b
	return "https://files.test/" + key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}
