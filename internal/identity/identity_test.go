package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
)

type fakeUsers struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	touches int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: make(map[string]*domain.User)} }

func (f *fakeUsers) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) UpsertUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.UserID] = &cp
	return nil
}

func (f *fakeUsers) UpdateLastSeen(_ context.Context, id string, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches++
	if u, ok := f.users[id]; ok {
		u.LastSeenAt = t
	}
	return nil
}

func TestMiddlewareIssuesCookie(t *testing.T) {
	users := newFakeUsers()
	var gotUser, gotSession string
	h := Middleware(users, true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set(SessionHeaderName, "tab-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !isValidAnonID(gotUser) {
		t.Fatalf("user id = %q", gotUser)
	}
	if gotSession != "tab-1" {
		t.Errorf("session id = %q", gotSession)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != AnonCookieName || cookies[0].Value != gotUser {
		t.Errorf("cookies = %+v", cookies)
	}
	if _, ok := users.users[gotUser]; !ok {
		t.Error("user not created")
	}
}

func TestMiddlewareReusesCookie(t *testing.T) {
	users := newFakeUsers()
	id := "anon_0123456789abcdef0123456789abcdef"
	users.users[id] = &domain.User{UserID: id, LastSeenAt: time.Now().Add(-time.Hour)}

	var gotUser string
	h := Middleware(users, false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if gotUser != id {
		t.Errorf("user id = %q, want %q", gotUser, id)
	}
	if users.touches != 1 {
		t.Errorf("last seen updates = %d, want 1", users.touches)
	}
	if c := w.Result().Cookies(); len(c) != 1 || !c[0].Secure {
		t.Errorf("expected refreshed secure cookie, got %+v", c)
	}

	// A second visit within the resolution window is not written back.
	h.ServeHTTP(httptest.NewRecorder(), req)
	if users.touches != 1 {
		t.Errorf("last seen updates = %d, want 1", users.touches)
	}
}

func TestMiddlewareRejectsForgedCookie(t *testing.T) {
	var gotUser string
	h := Middleware(newFakeUsers(), true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser == "admin" || !isValidAnonID(gotUser) {
		t.Errorf("user id = %q", gotUser)
	}
}

func TestSanitizeSessionID(t *testing.T) {
	tests := map[string]string{
		"":            DefaultSessionIDValue,
		"  tab-2  ":   "tab-2",
		"bad id!":     DefaultSessionIDValue,
		"a.b:c_d-1":   "a.b:c_d-1",
	}
	for in, want := range tests {
		if got := sanitizeSessionID(in); got != want {
			t.Errorf("sanitizeSessionID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(context.Background(), "anon_0123456789abcdef0123456789abcdef", "")
	if UsernameFromContext(ctx) != "anon-89abcdef" {
		t.Errorf("username = %q", UsernameFromContext(ctx))
	}
	if SessionIDFromContext(ctx) != DefaultSessionIDValue {
		t.Errorf("session = %q", SessionIDFromContext(ctx))
	}
	if SessionIDFromContext(context.Background()) != DefaultSessionIDValue {
		t.Error("missing session should default")
	}
}
