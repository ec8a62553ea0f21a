package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/auth"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
	"github.com/BruksfildServices01/ajo-backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// spy records whether the wrapped handler ran.
type spy struct {
	calls int
}

func (s *spy) handle(c *gin.Context) {
	s.calls++
	c.Status(http.StatusNoContent)
}

func withActor(actor *access.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(ContextActor, actor)
		}
		c.Next()
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleAccess(t *testing.T) {
	tests := []struct {
		name      string
		actor     *access.Actor
		allowed   []string
		wantCode  int
		wantCalls int
	}{
		{"no actor", nil, []string{"admin"}, http.StatusUnauthorized, 0},
		{"admin on admin route", &access.Actor{UserID: 1, RoleID: 1}, []string{"admin"}, http.StatusNoContent, 1},
		{"cashier on admin,manager route", &access.Actor{UserID: 2, RoleID: 2}, []string{"admin", "manager"}, http.StatusForbidden, 0},
		{"manager on comma joined list", &access.Actor{UserID: 3, RoleID: 3}, []string{"admin, manager"}, http.StatusNoContent, 1},
		{"only unknown names", &access.Actor{UserID: 1, RoleID: 1}, []string{"chef"}, http.StatusForbidden, 0},
		{"empty list", &access.Actor{UserID: 1, RoleID: 1}, nil, http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			s := &spy{}

			r := gin.New()
			r.GET("/x", withActor(tt.actor), RoleAccess(access.DefaultRoles(), tt.allowed...), s.handle)

			w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

			c.Assert(w.Code, qt.Equals, tt.wantCode)
			c.Assert(s.calls, qt.Equals, tt.wantCalls)
		})
	}
}

func TestRoleAccess_ForbiddenBody(t *testing.T) {
	c := qt.New(t)

	r := gin.New()
	r.GET("/x", withActor(&access.Actor{UserID: 2, RoleID: 2}), RoleAccess(access.DefaultRoles(), "admin"), (&spy{}).handle)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	c.Assert(w.Body.String(), qt.JSONEquals, map[string]any{
		"error_code": "forbidden",
		"message":    "You do not have permission to access this resource.",
	})
}

func newAuthEngine(tokens *auth.Tokens, sessions session.Store, users UserLookup, s *spy) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens, sessions, users), func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil || actor.UserID != 7 || actor.RoleID != 3 {
			c.Status(http.StatusTeapot)
			return
		}
		s.handle(c)
	})
	return r
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	tokens := auth.NewTokens("test-secret", time.Hour)
	sessions := session.NewMemoryStore()
	users := testutil.NewUserRepo()
	users.Seed(models.User{ID: 7, Name: "manajer", Username: "manajer", Email: "manajer@ajo.test", RoleID: 3})
	s := &spy{}
	r := newAuthEngine(tokens, sessions, users, s)

	issued, err := tokens.Issue(7, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(sessions.Activate(ctx, 7, issued.ID, time.Hour), qt.IsNil)

	c.Run("valid session", func(c *qt.C) {
		w := serve(r, bearer(issued.Token))
		c.Assert(w.Code, qt.Equals, http.StatusNoContent)
	})

	c.Run("missing header", func(c *qt.C) {
		w := serve(r, bearer(""))
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	})

	c.Run("wrong scheme", func(c *qt.C) {
		req := bearer("")
		req.Header.Set("Authorization", "Basic abc")
		w := serve(r, req)
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	})

	c.Run("garbage token", func(c *qt.C) {
		w := serve(r, bearer("not-a-jwt"))
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	})

	c.Run("superseded session", func(c *qt.C) {
		next, err := tokens.Issue(7, 3)
		c.Assert(err, qt.IsNil)
		c.Assert(sessions.Activate(ctx, 7, next.ID, time.Hour), qt.IsNil)

		w := serve(r, bearer(issued.Token))
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

		w = serve(r, bearer(next.Token))
		c.Assert(w.Code, qt.Equals, http.StatusNoContent)
	})

	c.Run("revoked session", func(c *qt.C) {
		c.Assert(sessions.Revoke(ctx, 7), qt.IsNil)
		w := serve(r, bearer(issued.Token))
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	})

	c.Assert(s.calls, qt.Equals, 2)
}

func TestAuthMiddleware_UsesStoredRoleAndStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *models.User
		wantCode int
	}{
		// the token still says admin, the stored role is manager
		{"stored role wins", &models.User{ID: 7, RoleID: 3}, http.StatusNoContent},
		{"suspended", &models.User{ID: 7, RoleID: 3, Status: models.UserStatusSuspended}, http.StatusUnauthorized},
		{"inactive", &models.User{ID: 7, RoleID: 3, Status: models.UserStatusInactive}, http.StatusUnauthorized},
		{"deleted", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			tokens := auth.NewTokens("test-secret", time.Hour)
			sessions := session.NewMemoryStore()
			users := testutil.NewUserRepo()
			if tt.user != nil {
				u := *tt.user
				u.Name, u.Username, u.Email = "manajer", "manajer", "manajer@ajo.test"
				users.Seed(u)
			}

			issued, err := tokens.Issue(7, 1)
			c.Assert(err, qt.IsNil)
			c.Assert(sessions.Activate(ctx, 7, issued.ID, time.Hour), qt.IsNil)

			s := &spy{}
			w := serve(newAuthEngine(tokens, sessions, users, s), bearer(issued.Token))

			c.Assert(w.Code, qt.Equals, tt.wantCode)
			c.Assert(s.calls, qt.Equals, map[bool]int{true: 1, false: 0}[tt.wantCode == http.StatusNoContent])
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	c := qt.New(t)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://ajo.example"}))
	r.GET("/x", (&spy{}).handle)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://ajo.example")
	w := serve(r, req)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "https://ajo.example")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "")

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	w = serve(r, req)
	c.Assert(w.Code, qt.Equals, http.StatusNoContent)
}

func TestRequestID(t *testing.T) {
	c := qt.New(t)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", (&spy{}).handle)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	c.Assert(w.Header().Get(HeaderRequestID), qt.Not(qt.Equals), "")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = serve(r, req)
	c.Assert(w.Header().Get(HeaderRequestID), qt.Equals, "abc-123")
}
