package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/ajo-backend/internal/auth"
	"github.com/BruksfildServices01/ajo-backend/internal/config"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
	"github.com/BruksfildServices01/ajo-backend/internal/testutil"
	"github.com/BruksfildServices01/ajo-backend/internal/validators"
)

const password = "secret1"

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
}

type fixture struct {
	repo   *testutil.UserRepo
	engine *gin.Engine

	admin   models.User
	cashier models.User
	manager models.User
}

func newFixture(c *qt.C) *fixture {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	c.Assert(err, qt.IsNil)

	repo := testutil.NewUserRepo()
	seed := func(name string, roleID uint) models.User {
		return repo.Seed(models.User{
			Name:         name,
			Username:     name,
			Email:        name + "@ajo.test",
			PasswordHash: string(hash),
			RoleID:       roleID,
		})
	}

	f := &fixture{
		repo:    repo,
		admin:   seed("admin", 1),
		cashier: seed("cashier", 2),
		manager: seed("manager", 3),
	}

	// DB stays nil: any catalog request that gets past the gates would
	// panic, so a 401/403 here also proves the handler never ran.
	f.engine = gin.New()
	RegisterRoutes(f.engine, Deps{
		Users:    repo,
		Roles:    access.DefaultRoles(),
		Tokens:   auth.NewTokens("test-secret", time.Hour),
		Sessions: session.NewMemoryStore(),
		Config:   &config.Config{ProtectedRoleID: 1},
		Log:      zerolog.Nop(),
	})

	return f
}

func (f *fixture) do(c *qt.C, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		c.Assert(json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (f *fixture) login(c *qt.C, u models.User) string {
	w, out := f.do(c, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": password,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

	token, _ := out["token"].(string)
	c.Assert(token, qt.Not(qt.Equals), "")
	return token
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	w, out := f.do(c, http.MethodGet, "/health", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["status"], qt.Equals, "ok")
}

func TestAuthFlow(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	token := f.login(c, f.admin)

	w, out := f.do(c, http.MethodGet, "/api/auth/me", token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	user := out["user"].(map[string]any)
	c.Assert(user["email"], qt.Equals, "admin@ajo.test")
	c.Assert(user["role"], qt.Equals, "admin")

	w, _ = f.do(c, http.MethodPost, "/api/auth/logout", token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w, _ = f.do(c, http.MethodGet, "/api/auth/me", token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	w, out := f.do(c, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    f.admin.Email,
		"password": "wrong-password",
	})
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(out["error_code"], qt.Equals, "invalid_credentials")

	w, out = f.do(c, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nope"})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(out["error_code"], qt.Equals, "invalid_request")
}

func TestGatesProtectRoutes(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	cashier := f.login(c, f.cashier)
	manager := f.login(c, f.manager)
	writes := f.repo.Writes()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"users without token", http.MethodGet, "/api/users", "", http.StatusUnauthorized},
		{"users as cashier", http.MethodGet, "/api/users", cashier, http.StatusForbidden},
		{"users as manager", http.MethodGet, "/api/users", manager, http.StatusForbidden},
		{"delete user as cashier", http.MethodDelete, "/api/users/1", cashier, http.StatusForbidden},
		{"create menu as cashier", http.MethodPost, "/api/menus", cashier, http.StatusForbidden},
		{"menu status as cashier", http.MethodPatch, "/api/menus/1/status", cashier, http.StatusForbidden},
		{"categories as cashier", http.MethodGet, "/api/categories", cashier, http.StatusForbidden},
		{"categories without token", http.MethodGet, "/api/categories", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			w, _ := f.do(c, tt.method, tt.path, tt.token, map[string]string{"status": "In Stock"})
			c.Assert(w.Code, qt.Equals, tt.want)
		})
	}

	c.Assert(f.repo.Writes(), qt.Equals, writes)
	c.Assert(f.repo.Logs(), qt.HasLen, 0)
}

func TestUserLifecycle(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)

	w, out := f.do(c, http.MethodPost, "/api/users", admin, map[string]any{
		"name":     "Budi",
		"username": "budi",
		"email":    "Budi@Ajo.test",
		"password": "secret1",
		"role_id":  2,
	})
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(out["email"], qt.Equals, "budi@ajo.test")
	c.Assert(out["status"], qt.Equals, "active")
	id := uint(out["id"].(float64))

	path := "/api/users/" + jsonID(id)

	// status only, name unchanged
	w, out = f.do(c, http.MethodPut, path, admin, map[string]any{
		"name":   "Budi",
		"status": "suspended",
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(out["updated_fields"], qt.DeepEquals, map[string]any{
		"status": map[string]any{"old": "active", "new": "suspended"},
	})

	// repeating it changes nothing
	writes := f.repo.Writes()
	w, out = f.do(c, http.MethodPut, path, admin, map[string]any{"status": "suspended"})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["updated_fields"], qt.DeepEquals, map[string]any{})
	c.Assert(f.repo.Writes(), qt.Equals, writes)

	w, out = f.do(c, http.MethodGet, path+"/audit-logs", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	logs := out["data"].([]any)
	c.Assert(logs, qt.HasLen, 2)
	c.Assert(logs[0].(map[string]any)["action_type"], qt.Equals, "update")
	c.Assert(logs[1].(map[string]any)["action_type"], qt.Equals, "create")

	w, out = f.do(c, http.MethodGet, path+"/audit-logs?limit=1", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["data"], qt.HasLen, 1)

	w, _ = f.do(c, http.MethodDelete, path, admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w, out = f.do(c, http.MethodGet, path, admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
	c.Assert(out["error_code"], qt.Equals, "user_not_found")

	w, out = f.do(c, http.MethodGet, path+"/audit-logs", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	logs = out["data"].([]any)
	c.Assert(logs, qt.HasLen, 3)
	c.Assert(logs[0].(map[string]any)["action_type"], qt.Equals, "delete")
}

func TestCreateUserConflictsAndValidation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)

	base := map[string]any{
		"name":     "Dup",
		"username": "dup",
		"email":    f.cashier.Email,
		"password": "secret1",
		"role_id":  2,
	}

	w, out := f.do(c, http.MethodPost, "/api/users", admin, base)
	c.Assert(w.Code, qt.Equals, http.StatusConflict)
	c.Assert(out["error_code"], qt.Equals, "email_taken")
	c.Assert(out["field"], qt.Equals, "email")

	base["email"] = "dup@ajo.test"
	base["role_id"] = 42
	w, out = f.do(c, http.MethodPost, "/api/users", admin, base)
	c.Assert(w.Code, qt.Equals, http.StatusUnprocessableEntity)
	c.Assert(out["error_code"], qt.Equals, "validation_failed")
	c.Assert(out["field"], qt.Equals, "role_id")

	base["role_id"] = 2
	base["status"] = "frozen"
	w, _ = f.do(c, http.MethodPost, "/api/users", admin, base)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	c.Assert(f.repo.Logs(), qt.HasLen, 0)
}

func TestDeleteProtectedAccount(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)

	w, out := f.do(c, http.MethodDelete, "/api/users/"+jsonID(f.admin.ID), admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
	c.Assert(out["error_code"], qt.Equals, "protected_account")

	_, ok := f.repo.Stored(f.admin.ID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(f.repo.Logs(), qt.HasLen, 0)
}

func TestStatusChangeEndsSession(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)
	cashier := f.login(c, f.cashier)

	w, _ := f.do(c, http.MethodGet, "/api/auth/me", cashier, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w, out := f.do(c, http.MethodPatch, "/api/users/"+jsonID(f.cashier.ID)+"/status", admin, map[string]string{
		"status": "inactive",
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["status"], qt.Equals, "inactive")

	w, _ = f.do(c, http.MethodGet, "/api/auth/me", cashier, nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

	w, out = f.do(c, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    f.cashier.Email,
		"password": password,
	})
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
	c.Assert(out["error_code"], qt.Equals, "account_inactive")

	w, _ = f.do(c, http.MethodPatch, "/api/users/"+jsonID(f.cashier.ID)+"/status", admin, map[string]string{
		"status": "asleep",
	})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func TestUpdateTakesAccessAwayImmediately(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]any
	}{
		{"demoted", map[string]any{"role_id": 2}},
		{"suspended", map[string]any{"status": "suspended"}},
		{"demoted and suspended", map[string]any{"role_id": 2, "status": "suspended"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			f := newFixture(c)
			admin := f.login(c, f.admin)

			w, out := f.do(c, http.MethodPost, "/api/users", admin, map[string]any{
				"name":     "Admin Dua",
				"username": "admin2",
				"email":    "admin2@ajo.test",
				"password": password,
				"role_id":  1,
			})
			c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
			second := models.User{ID: uint(out["id"].(float64)), Email: "admin2@ajo.test"}

			token := f.login(c, second)
			w, _ = f.do(c, http.MethodGet, "/api/users", token, nil)
			c.Assert(w.Code, qt.Equals, http.StatusOK)

			w, _ = f.do(c, http.MethodPut, "/api/users/"+jsonID(second.ID), admin, tt.patch)
			c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

			w, _ = f.do(c, http.MethodGet, "/api/users", token, nil)
			c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
		})
	}
}

func TestListUsers(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)

	w, out := f.do(c, http.MethodGet, "/api/users?role=cashier", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["total"], qt.Equals, float64(1))
	c.Assert(out["page"], qt.Equals, float64(1))
	c.Assert(out["per_page"], qt.Equals, float64(10))
	c.Assert(out["last_page"], qt.Equals, float64(1))

	w, out = f.do(c, http.MethodGet, "/api/users?sort=name&order=asc&per_page=2&page=2", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(out["total"], qt.Equals, float64(3))
	c.Assert(out["last_page"], qt.Equals, float64(2))
	data := out["data"].([]any)
	c.Assert(data, qt.HasLen, 1)
	c.Assert(data[0].(map[string]any)["name"], qt.Equals, "manager")
}

func TestInvalidID(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	admin := f.login(c, f.admin)

	w, out := f.do(c, http.MethodGet, "/api/users/abc", admin, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(out["error_code"], qt.Equals, "invalid_id")
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
