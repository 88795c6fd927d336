package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f[idToken]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: uid}, nil
}

type fakeAdmins struct {
	admins map[string]bool
	err    error
}

func (f fakeAdmins) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return f.admins[uid], f.err
}

func router(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, UID(c))
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	v := fakeVerifier{"good": "u1"}
	cases := []struct {
		name     string
		optional bool
		header   string
		status   int
		body     string
	}{
		{"valid token", false, "Bearer good", http.StatusOK, "u1"},
		{"missing header", false, "", http.StatusUnauthorized, ""},
		{"wrong scheme", false, "Basic abc", http.StatusUnauthorized, ""},
		{"invalid token", false, "Bearer bad", http.StatusUnauthorized, ""},
		{"optional anonymous", true, "", http.StatusOK, ""},
		{"optional valid", true, "Bearer good", http.StatusOK, "u1"},
		{"optional invalid", true, "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		w := do(router(FirebaseAuthMiddleware(v, tc.optional)), tc.header)
		if w.Code != tc.status {
			t.Fatalf("%s: status=%d, want %d", tc.name, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && w.Body.String() != tc.body {
			t.Fatalf("%s: body=%q, want %q", tc.name, w.Body.String(), tc.body)
		}
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	v := fakeVerifier{"admin": "a1", "user": "u1"}
	cases := []struct {
		header string
		checker fakeAdmins
		status int
	}{
		{"Bearer admin", fakeAdmins{admins: map[string]bool{"a1": true}}, http.StatusOK},
		{"Bearer user", fakeAdmins{admins: map[string]bool{"a1": true}}, http.StatusForbidden},
		{"Bearer admin", fakeAdmins{err: errors.New("firestore down")}, http.StatusServiceUnavailable},
	}
	for i, tc := range cases {
		r := router(FirebaseAuthMiddleware(v, false), AdminOnlyMiddleware(tc.checker))
		if w := do(r, tc.header); w.Code != tc.status {
			t.Fatalf("case %d: status=%d, want %d", i, w.Code, tc.status)
		}
	}

	// Without the auth middleware in front there is no uid.
	if w := do(router(AdminOnlyMiddleware(fakeAdmins{})), ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := router(RateLimitMiddleware(2))
	for i := 0; i < 2; i++ {
		if w := do(r, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, w.Code)
		}
	}
	if w := do(r, ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status=%d, want 429", w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		xff, xri, remote, want string
	}{
		{"203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.5"},
		{"", "198.51.100.7", "10.0.0.2:1234", "198.51.100.7"},
		{"", "", "192.0.2.1:5555", "192.0.2.1"},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = tc.remote
		if tc.xff != "" {
			c.Request.Header.Set("X-Forwarded-For", tc.xff)
		}
		if tc.xri != "" {
			c.Request.Header.Set("X-Real-IP", tc.xri)
		}
		if got := getClientIP(c); got != tc.want {
			t.Fatalf("getClientIP=%q, want %q", got, tc.want)
		}
	}
}
