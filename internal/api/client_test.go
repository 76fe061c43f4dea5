package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func newSessionStore() *session.Store {
	return session.NewStore(session.NewMemoryScope(), session.NewMemoryScope(), testLogger())
}

func tenantLogin() model.LoginResult {
	return model.LoginResult{
		Token: "tok-1",
		User: model.Identity{
			ID:        "u1",
			Name:      "Ana",
			Email:     "ana@co.com",
			Role:      model.RoleAdmin,
			CompanyID: strPtr("c1"),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_TenantTokenDecoration(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get(MasterKeyHeader)
		writeJSON(w, http.StatusOK, []model.User{{ID: "u1", Name: "Ana", Role: model.RoleAdmin}})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newSessionStore()
	require.NoError(t, store.Write(ctx, model.NewTenantSession(tenantLogin())))

	c := NewClient(srv.URL, testLogger(), WithSessions(store), WithMasterKey("k"))
	users, err := c.ListTenantUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Empty(t, gotKey, "master key must not accompany a tenant token")
}

func TestClient_MasterKeyOnlyOnAdminPaths(t *testing.T) {
	headers := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers[r.URL.Path] = r.Header.Get(MasterKeyHeader)
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newSessionStore()
	require.NoError(t, store.Write(ctx, model.NewMasterSession()))

	c := NewClient(srv.URL+"/", testLogger(), WithSessions(store), WithMasterKey("s3cret"))
	_, err := c.ListCompanies(ctx)
	require.NoError(t, err)
	_, err = c.ListTenantUsers(ctx)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", headers["/admin/companies"])
	assert.Empty(t, headers["/users"])
}

func TestIsAdminPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/admin", true},
		{"/admin/companies", true},
		{"/administrator", false},
		{"/users", false},
		{"/auth/login", false},
	}
	for _, tt := range tests {
		if got := isAdminPath(tt.path); got != tt.want {
			t.Errorf("isAdminPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized", "message": "token expired", "statusCode": 401})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newSessionStore()
	require.NoError(t, store.Write(ctx, model.NewTenantSession(tenantLogin())))

	c := NewClient(srv.URL, testLogger(), WithSessions(store))
	_, err := c.ListTenantUsers(ctx)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindSessionExpired))
	assert.Contains(t, err.Error(), "token expired")

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierNone, sess.Tier)
}

func TestClient_LoginUnauthorizedKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciais inválidas"})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newSessionStore()
	require.NoError(t, store.Write(ctx, model.NewMasterSession()))

	c := NewClient(srv.URL, testLogger(), WithSessions(store))
	_, err := c.VerifyCredentials(ctx, "ana@co.com", "wrong")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidCredentials))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierMaster, sess.Tier)
}

func TestClient_VerifyCredentials(t *testing.T) {
	var gotBody model.LoginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-9",
			"usuario": map[string]any{
				"id": "u9", "nome": "Bia", "email": "bia@co.com", "role": "usuario", "empresa_id": "c9",
			},
			"empresa": map[string]any{"id": "c9", "nome": "Beta", "status": "ativo"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	res, err := c.VerifyCredentials(context.Background(), "bia@co.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, model.LoginRequest{Email: "bia@co.com", Password: "pw"}, gotBody)
	assert.Equal(t, "tok-9", res.Token)
	assert.Equal(t, "u9", res.User.ID)
	assert.Equal(t, model.RoleUser, res.User.Role)
	require.NotNil(t, res.Company)
	assert.Equal(t, "Beta", res.Company.Name)
}

func TestDecodeLoginResult(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"english field names", `{"token":"t","user":{"id":"u","nome":"N","role":"admin","empresa_id":"c"}}`, false},
		{"missing token", `{"usuario":{"id":"u","nome":"N","role":"admin","empresa_id":"c"}}`, true},
		{"missing user", `{"token":"t"}`, true},
		{"user without company", `{"token":"t","usuario":{"id":"u","nome":"N","role":"admin"}}`, true},
		{"master role from backend", `{"token":"t","usuario":{"id":"u","nome":"N","role":"master","empresa_id":"c"}}`, true},
		{"not json", `<html>`, true},
		{"wrong shape", `[1,2,3]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeLoginResult([]byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, model.IsKind(err, model.KindMalformed), "kind = %s", model.KindOf(err))
		})
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   model.ErrorKind
	}{
		{http.StatusForbidden, model.KindForbidden},
		{http.StatusNotFound, model.KindNotFound},
		{http.StatusConflict, model.KindValidation},
		{http.StatusBadGateway, model.KindServer},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := NewClient(srv.URL, testLogger())
		err := c.DeleteCompany(context.Background(), "c1")
		srv.Close()

		if got := model.KindOf(err); got != tt.want {
			t.Errorf("status %d: kind = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, testLogger(), WithTimeout(time.Second))
	_, err := c.VerifyCredentials(context.Background(), "a@b.c", "x")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindUnreachable))
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.ListCompanies(context.Background())
	assert.True(t, model.IsKind(err, model.KindMalformed))
}

func TestClient_CompanyEndpoints(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admin/companies":
			var req model.CreateCompanyRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusCreated, model.CreateCompanyResponse{CompanyID: "c2", Name: req.Name, AdminEmail: req.AdminEmail})
		case r.Method == http.MethodPatch:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "ok",
				"empresa": map[string]any{"id": "c2", "nome": "Gamma", "status": body["status"]},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/companies/c2/users":
			writeJSON(w, http.StatusOK, []model.User{{ID: "u1"}, {ID: "u2"}})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL, testLogger(), WithMasterKey("k"))

	created, err := c.CreateCompany(ctx, model.CreateCompanyRequest{
		Name: "Gamma", Document: "123", Email: "g@co.com",
		AdminName: "Gil", AdminEmail: "gil@co.com", AdminPassword: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.CompanyID)
	assert.Equal(t, "gil@co.com", created.AdminEmail)

	company, err := c.SetCompanyStatus(ctx, "c2", model.StatusInactive)
	require.NoError(t, err)
	assert.False(t, company.IsActive())

	users, err := c.ListCompanyUsers(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, c.DeleteCompany(ctx, "c2"))

	assert.Equal(t, []string{
		"POST /admin/companies",
		"PATCH /admin/companies/c2/status",
		"GET /admin/companies/c2/users",
		"DELETE /admin/companies/c2",
	}, calls)
}

func TestClient_ValidationBeforeRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.CreateUser(context.Background(), model.CreateUserRequest{Name: "x"})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = c.UpdateUser(context.Background(), "u1", model.UpdateUserRequest{Role: model.RoleMaster})
	require.Error(t, err)
	assert.False(t, called)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-only"))
	require.NoError(t, err)

	got, ok := TokenExpiry(token)
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "expiry = %v, want %v", got, exp)

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}
