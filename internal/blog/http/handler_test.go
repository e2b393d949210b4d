package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okovalenko/bloglist/internal/auth/identity"
	"github.com/okovalenko/bloglist/internal/auth/token"
	"github.com/okovalenko/bloglist/internal/blog/domain"
	bloghttp "github.com/okovalenko/bloglist/internal/blog/http"
	blogrepo "github.com/okovalenko/bloglist/internal/blog/repository"
	"github.com/okovalenko/bloglist/internal/blog/service"
	"github.com/okovalenko/bloglist/internal/common/clock"
	"github.com/okovalenko/bloglist/internal/common/logger"
	userdomain "github.com/okovalenko/bloglist/internal/user/domain"
	userrepo "github.com/okovalenko/bloglist/internal/user/repository"
)

const (
	testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

	ownerID    = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	otherID    = "9c5b94b1-35ad-49bb-b118-8e8fc24abf80"
	testBlogID = "16fd2706-8baf-433b-82eb-8c7fada847da"
)

type mockBlogRepo struct {
	createFunc            func(ctx context.Context, blog domain.Blog) error
	findByIDFunc          func(ctx context.Context, id domain.ID) (domain.Blog, error)
	findAllWithOwnersFunc func(ctx context.Context) ([]domain.WithOwner, error)
	updateLikesFunc       func(ctx context.Context, id domain.ID, likes int) (domain.Blog, error)
	deleteFunc            func(ctx context.Context, id domain.ID) error

	createCalls int
	deleteCalls int
}

func (m *mockBlogRepo) Create(ctx context.Context, blog domain.Blog) error {
	m.createCalls++
	return m.createFunc(ctx, blog)
}

func (m *mockBlogRepo) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockBlogRepo) FindAllWithOwners(ctx context.Context) ([]domain.WithOwner, error) {
	return m.findAllWithOwnersFunc(ctx)
}

func (m *mockBlogRepo) UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
	return m.updateLikesFunc(ctx, id, likes)
}

func (m *mockBlogRepo) Delete(ctx context.Context, id domain.ID) error {
	m.deleteCalls++
	return m.deleteFunc(ctx, id)
}

type mockUserRepo struct {
	users map[userdomain.ID]userdomain.User
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]userdomain.User, error) {
	return nil, nil
}

type stubIDGenerator struct{}

func (stubIDGenerator) NewID() (string, error) {
	return "3d7a8f10-90c4-4a6e-9a25-1f6f3c2f9b11", nil
}

type handlerFixture struct {
	handler http.Handler
	blogs   *mockBlogRepo
	issuer  *token.Issuer
}

func setupBlogHandler(t *testing.T, blogs *mockBlogRepo) *handlerFixture {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	users := &mockUserRepo{
		users: map[userdomain.ID]userdomain.User{
			ownerID: {ID: ownerID, Username: "mluukkai", Name: "Matti Luukkainen"},
			otherID: {ID: otherID, Username: "hellas", Name: "Arto Hellas"},
		},
	}

	verifier := token.NewVerifier(testSecret)
	resolver := identity.NewResolver(users, log)
	issuer := token.NewIssuer(testSecret, time.Hour, clock.NewMockClock(time.Now()))
	svc := service.NewService(blogs, stubIDGenerator{}, nil, log)

	return &handlerFixture{
		handler: bloghttp.NewHandler(svc, nil, verifier, resolver, 5*time.Second, log),
		blogs:   blogs,
		issuer:  issuer,
	}
}

func (f *handlerFixture) bearer(t *testing.T, subjectID string) string {
	t.Helper()
	signed, err := f.issuer.Issue(subjectID, "testuser")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return "Bearer " + signed
}

func TestBlogHandler_List_Public(t *testing.T) {
	repo := &mockBlogRepo{
		findAllWithOwnersFunc: func(ctx context.Context) ([]domain.WithOwner, error) {
			return []domain.WithOwner{
				{
					Blog: domain.Blog{
						ID:      testBlogID,
						Title:   "React patterns",
						Author:  "Michael Chan",
						URL:     "https://reactpatterns.com/",
						Likes:   7,
						OwnerID: ownerID,
					},
					Owner: domain.Owner{ID: ownerID, Username: "mluukkai", Name: "Matti Luukkainen"},
				},
			}, nil
		},
	}

	f := setupBlogHandler(t, repo)

	// no Authorization header: reads are public
	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 blog, got %d", len(list))
	}

	owner, ok := list[0]["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected embedded owner, got %v", list[0]["user"])
	}
	if owner["username"] != "mluukkai" {
		t.Errorf("expected owner username mluukkai, got %v", owner["username"])
	}
}

func TestBlogHandler_Create_NoToken(t *testing.T) {
	repo := &mockBlogRepo{
		createFunc: func(ctx context.Context, blog domain.Blog) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	body := `{"title":"Go Concurrency Patterns","url":"https://blog.golang.org/pipelines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if f.blogs.createCalls != 0 {
		t.Errorf("expected no repository effect, got %d create calls", f.blogs.createCalls)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if resp["code"] != "AUTH_REQUIRED" {
		t.Errorf("expected code AUTH_REQUIRED, got %v", resp["code"])
	}
}

func TestBlogHandler_Create_InvalidToken(t *testing.T) {
	repo := &mockBlogRepo{
		createFunc: func(ctx context.Context, blog domain.Blog) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	body := `{"title":"Go Concurrency Patterns","url":"https://blog.golang.org/pipelines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if f.blogs.createCalls != 0 {
		t.Errorf("expected no repository effect, got %d create calls", f.blogs.createCalls)
	}
}

func TestBlogHandler_Create_Success(t *testing.T) {
	var stored domain.Blog
	repo := &mockBlogRepo{
		createFunc: func(ctx context.Context, blog domain.Blog) error {
			stored = blog
			return nil
		},
	}
	f := setupBlogHandler(t, repo)

	body := `{"title":"Go Concurrency Patterns","author":"Rob Pike","url":"https://blog.golang.org/pipelines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if stored.OwnerID != ownerID {
		t.Errorf("expected blog owned by authenticated user, got %s", stored.OwnerID)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if resp["likes"] != float64(0) {
		t.Errorf("expected likes to default to 0, got %v", resp["likes"])
	}
	if resp["user_id"] != ownerID {
		t.Errorf("expected user_id %s, got %v", ownerID, resp["user_id"])
	}
}

func TestBlogHandler_Create_MissingTitle(t *testing.T) {
	repo := &mockBlogRepo{
		createFunc: func(ctx context.Context, blog domain.Blog) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	body := `{"url":"https://blog.golang.org/pipelines"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if f.blogs.createCalls != 0 {
		t.Errorf("expected no repository effect, got %d create calls", f.blogs.createCalls)
	}
}

func TestBlogHandler_Delete_Owner(t *testing.T) {
	repo := &mockBlogRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.Blog, error) {
			return domain.Blog{ID: id, OwnerID: ownerID}, nil
		},
		deleteFunc: func(ctx context.Context, id domain.ID) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/"+testBlogID, nil)
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.blogs.deleteCalls != 1 {
		t.Errorf("expected 1 delete call, got %d", f.blogs.deleteCalls)
	}
}

func TestBlogHandler_Delete_NotOwner(t *testing.T) {
	repo := &mockBlogRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.Blog, error) {
			return domain.Blog{ID: id, OwnerID: ownerID}, nil
		},
		deleteFunc: func(ctx context.Context, id domain.ID) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/"+testBlogID, nil)
	req.Header.Set("Authorization", f.bearer(t, otherID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if f.blogs.deleteCalls != 0 {
		t.Errorf("expected no repository effect, got %d delete calls", f.blogs.deleteCalls)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if resp["code"] != "NOT_BLOG_OWNER" {
		t.Errorf("expected code NOT_BLOG_OWNER, got %v", resp["code"])
	}
}

func TestBlogHandler_Delete_NoToken(t *testing.T) {
	repo := &mockBlogRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.Blog, error) {
			return domain.Blog{ID: id, OwnerID: ownerID}, nil
		},
		deleteFunc: func(ctx context.Context, id domain.ID) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/"+testBlogID, nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if f.blogs.deleteCalls != 0 {
		t.Errorf("expected no repository effect, got %d delete calls", f.blogs.deleteCalls)
	}
}

func TestBlogHandler_Delete_NotFound(t *testing.T) {
	repo := &mockBlogRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.Blog, error) {
			return domain.Blog{}, blogrepo.ErrBlogNotFound
		},
		deleteFunc: func(ctx context.Context, id domain.ID) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/"+testBlogID, nil)
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestBlogHandler_Delete_InvalidID(t *testing.T) {
	repo := &mockBlogRepo{
		deleteFunc: func(ctx context.Context, id domain.ID) error { return nil },
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/not-a-uuid", nil)
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestBlogHandler_UpdateLikes_Public(t *testing.T) {
	repo := &mockBlogRepo{
		updateLikesFunc: func(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
			return domain.Blog{ID: id, Title: "React patterns", Likes: likes, OwnerID: ownerID}, nil
		},
	}
	f := setupBlogHandler(t, repo)

	// likes updates need no credential
	req := httptest.NewRequest(http.MethodPut, "/api/blogs/"+testBlogID, strings.NewReader(`{"likes":8}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if resp["likes"] != float64(8) {
		t.Errorf("expected likes 8, got %v", resp["likes"])
	}
}

func TestBlogHandler_UpdateLikes_MissingField(t *testing.T) {
	repo := &mockBlogRepo{
		updateLikesFunc: func(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
			t.Fatal("repository must not be called without a likes value")
			return domain.Blog{}, nil
		},
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodPut, "/api/blogs/"+testBlogID, strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestBlogHandler_UpdateLikes_Negative(t *testing.T) {
	repo := &mockBlogRepo{
		updateLikesFunc: func(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
			t.Fatal("repository must not be called for negative likes")
			return domain.Blog{}, nil
		},
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodPut, "/api/blogs/"+testBlogID, strings.NewReader(`{"likes":-1}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestBlogHandler_Stats(t *testing.T) {
	repo := &mockBlogRepo{
		findAllWithOwnersFunc: func(ctx context.Context) ([]domain.WithOwner, error) {
			return []domain.WithOwner{
				{Blog: domain.Blog{ID: testBlogID, Title: "React patterns", Author: "Michael Chan", Likes: 7, OwnerID: ownerID}},
			}, nil
		},
	}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/stats", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if resp["blogs"] != float64(1) || resp["total_likes"] != float64(7) {
		t.Errorf("unexpected summary: %v", resp)
	}
}

func TestBlogHandler_MethodNotAllowed(t *testing.T) {
	repo := &mockBlogRepo{}
	f := setupBlogHandler(t, repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/blogs", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

type inMemoryBlogRepo struct {
	mu    sync.Mutex
	blogs map[domain.ID]domain.Blog
}

func newInMemoryBlogRepo() *inMemoryBlogRepo {
	return &inMemoryBlogRepo{blogs: make(map[domain.ID]domain.Blog)}
}

func (m *inMemoryBlogRepo) Create(ctx context.Context, blog domain.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blogs[blog.ID] = blog
	return nil
}

func (m *inMemoryBlogRepo) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blog, ok := m.blogs[id]
	if !ok {
		return domain.Blog{}, blogrepo.ErrBlogNotFound
	}
	return blog, nil
}

func (m *inMemoryBlogRepo) FindAllWithOwners(ctx context.Context) ([]domain.WithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WithOwner, 0, len(m.blogs))
	for _, blog := range m.blogs {
		out = append(out, domain.WithOwner{Blog: blog})
	}
	return out, nil
}

func (m *inMemoryBlogRepo) UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blog, ok := m.blogs[id]
	if !ok {
		return domain.Blog{}, blogrepo.ErrBlogNotFound
	}
	blog.Likes = likes
	m.blogs[id] = blog
	return blog, nil
}

func (m *inMemoryBlogRepo) Delete(ctx context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return blogrepo.ErrBlogNotFound
	}
	delete(m.blogs, id)
	return nil
}

func setupScenario(t *testing.T, repo *inMemoryBlogRepo) *handlerFixture {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	users := &mockUserRepo{
		users: map[userdomain.ID]userdomain.User{
			ownerID: {ID: ownerID, Username: "alice", Name: "Alice"},
			otherID: {ID: otherID, Username: "bob", Name: "Bob"},
		},
	}

	verifier := token.NewVerifier(testSecret)
	resolver := identity.NewResolver(users, log)
	issuer := token.NewIssuer(testSecret, time.Hour, clock.NewMockClock(time.Now()))
	svc := service.NewService(repo, stubIDGenerator{}, nil, log)

	return &handlerFixture{
		handler: bloghttp.NewHandler(svc, nil, verifier, resolver, 5*time.Second, log),
		issuer:  issuer,
	}
}

// Full lifecycle: alice creates a blog, bob cannot delete it, alice can.
func TestBlogHandler_OwnershipScenario(t *testing.T) {
	repo := newInMemoryBlogRepo()
	f := setupScenario(t, repo)

	body := `{"title":"T","url":"http://x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("expected json body, got %v", err)
	}
	if created["likes"] != float64(0) {
		t.Errorf("expected likes to default to 0, got %v", created["likes"])
	}
	blogID, _ := created["id"].(string)
	if blogID == "" {
		t.Fatal("expected created blog id")
	}

	// bob is not the owner
	req = httptest.NewRequest(http.MethodDelete, "/api/blogs/"+blogID, nil)
	req.Header.Set("Authorization", f.bearer(t, otherID))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if _, err := repo.FindByID(context.Background(), domain.ID(blogID)); err != nil {
		t.Fatalf("expected blog to survive a forbidden delete, got %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/blogs/"+blogID, nil)
	req.Header.Set("Authorization", f.bearer(t, ownerID))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := repo.FindByID(context.Background(), domain.ID(blogID)); !errors.Is(err, blogrepo.ErrBlogNotFound) {
		t.Fatalf("expected blog to be gone after the owner's delete, got %v", err)
	}
}
