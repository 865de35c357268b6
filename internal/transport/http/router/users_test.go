package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-user-api/internal/core/auth"
	"go-user-api/internal/domain"
	"go-user-api/internal/repo"
	mdw "go-user-api/internal/transport/http/middleware"
	resp "go-user-api/internal/transport/http/response"
)

type hasherStub struct{}

func (hasherStub) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (hasherStub) Verify(plain, hashed string) bool  { return hashed == "hash:"+plain }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	users := repo.NewUserRepo(db, hasherStub{})
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

	r := gin.New()
	api := r.Group("/api/v1")
	(&Users{Repo: users}).MountAPI(api)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, false))
	mountAuthActions(api, authed, users, jwter, nil)

	return r
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func TestUserCrudFlow(t *testing.T) {
	r := newTestEngine(t)

	// create
	env := do(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"email": "a@x.com", "password": "p1", "full_name": "Alice A",
	}, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("create: %+v", env)
	}
	var created domain.User
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if created.ID == 0 || !created.IsActive || created.IsSuperuser {
		t.Fatalf("unexpected created user: %+v", created)
	}
	idPath := "/api/v1/users/" + strconv.FormatUint(uint64(created.ID), 10)

	// the hash never appears on the wire
	if bytes.Contains(env.Data, []byte("p1")) || bytes.Contains(env.Data, []byte("password_hash")) {
		t.Fatalf("credentials leaked: %s", env.Data)
	}

	// get
	env = do(t, r, http.MethodGet, idPath, nil, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("get: %+v", env)
	}

	// search by name
	env = do(t, r, http.MethodGet, "/api/v1/users/search/Alice", nil, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("search: %+v", env)
	}
	var found []domain.User
	if err := json.Unmarshal(env.Data, &found); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(found) != 1 || found[0].ID != created.ID {
		t.Fatalf("search missed the user: %+v", found)
	}

	// partial update: flag only, name stays
	env = do(t, r, http.MethodPut, idPath, gin.H{"is_active": false}, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("update: %+v", env)
	}
	var updated domain.User
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("is_active not cleared: %+v", updated)
	}
	if updated.FullName != "Alice A" || updated.Email != "a@x.com" {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	// delete returns last-known state
	env = do(t, r, http.MethodDelete, idPath, nil, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("delete: %+v", env)
	}
	var deleted domain.User
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("decode deleted: %v", err)
	}
	if deleted.ID != created.ID {
		t.Fatalf("delete returned wrong user: %+v", deleted)
	}

	// now gone
	env = do(t, r, http.MethodGet, idPath, nil, nil)
	if env.Code != resp.CodeNotFound {
		t.Fatalf("expected 404 after delete: %+v", env)
	}
	env = do(t, r, http.MethodDelete, idPath, nil, nil)
	if env.Code != resp.CodeNotFound {
		t.Fatalf("second delete must also be 404: %+v", env)
	}
}

func TestUserCreateDuplicateEmailRejectedBeforeWrite(t *testing.T) {
	r := newTestEngine(t)

	body := gin.H{"email": "dup@x.com", "password": "p1"}
	if env := do(t, r, http.MethodPost, "/api/v1/users", body, nil); env.Code != resp.CodeOK {
		t.Fatalf("first create: %+v", env)
	}
	env := do(t, r, http.MethodPost, "/api/v1/users", body, nil)
	if env.Code != resp.CodeConflict {
		t.Fatalf("expected conflict, got %+v", env)
	}
}

func TestUserListAndActive(t *testing.T) {
	r := newTestEngine(t)

	for _, email := range []string{"1@x.com", "2@x.com"} {
		do(t, r, http.MethodPost, "/api/v1/users", gin.H{"email": email, "password": "p"}, nil)
	}

	env := do(t, r, http.MethodGet, "/api/v1/users?skip=0&limit=10", nil, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("list: %+v", env)
	}
	var page struct {
		Items []domain.User `json:"items"`
		Total int64         `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	// deactivate one, active list shrinks
	id := strconv.FormatUint(uint64(page.Items[0].ID), 10)
	if env := do(t, r, http.MethodPost, "/api/v1/users/"+id+"/deactivate", nil, nil); env.Code != resp.CodeOK {
		t.Fatalf("deactivate: %+v", env)
	}
	env = do(t, r, http.MethodGet, "/api/v1/users/active", nil, nil)
	var active []domain.User
	if err := json.Unmarshal(env.Data, &active); err != nil {
		t.Fatalf("decode active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active user: %+v", active)
	}
}

func TestLoginAndMe(t *testing.T) {
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"email": "login@x.com", "password": "pw",
	}, nil)
	var created domain.User
	_ = json.Unmarshal(env.Data, &created)

	// success
	env = do(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "login@x.com", "password": "pw",
	}, nil)
	if env.Code != resp.CodeOK {
		t.Fatalf("login: %+v", env)
	}
	var out struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if out.Token == "" || out.User.ID != created.ID {
		t.Fatalf("unexpected login payload: %+v", out)
	}

	// wrong password and unknown email look identical
	bad1 := do(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "login@x.com", "password": "no"}, nil)
	bad2 := do(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ghost@x.com", "password": "no"}, nil)
	if bad1.Code != resp.CodeUnauthorized || bad2.Code != resp.CodeUnauthorized || bad1.Msg != bad2.Msg {
		t.Fatalf("failure outcomes differ: %+v vs %+v", bad1, bad2)
	}

	// authenticated self lookup
	env = do(t, r, http.MethodGet, "/api/v1/me", nil, map[string]string{
		"Authorization": "Bearer " + out.Token,
	})
	if env.Code != resp.CodeOK {
		t.Fatalf("me: %+v", env)
	}
	var me domain.User
	_ = json.Unmarshal(env.Data, &me)
	if me.ID != created.ID {
		t.Fatalf("me returned wrong user: %+v", me)
	}

	// no token
	env = do(t, r, http.MethodGet, "/api/v1/me", nil, nil)
	if env.Code != resp.CodeUnauthorized {
		t.Fatalf("expected unauthorized without token: %+v", env)
	}
}

func TestNewAPIEngineHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	users := repo.NewUserRepo(db, hasherStub{})
	jwter := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}

	r := NewAPIEngine(zap.NewNop(), users, jwter, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
}
