package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/service"
)

type fakeResolver struct {
	roles map[uint][]string
	err   error
	calls int
}

func (f *fakeResolver) CurrentRoles(_ context.Context, userID uint) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	roles, ok := f.roles[userID]
	if !ok {
		return nil, service.ErrNotFound
	}
	return roles, nil
}

type fakeValidator struct {
	active map[uint]bool
	err    error
}

func (f *fakeValidator) ValidateUser(_ context.Context, userID uint) (*service.PublicUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.active[userID] {
		return nil, service.ErrNotFound
	}
	return &service.PublicUser{ID: userID}, nil
}

func newEngine(issuer *auth.TokenIssuer, resolver RoleResolver, roles ...string) *gin.Engine {
	return newValidatedEngine(issuer, nil, resolver, roles...)
}

func newValidatedEngine(issuer *auth.TokenIssuer, users UserValidator, resolver RoleResolver, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Authenticate(issuer, users), RequireRoles(resolver, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c)})
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, issuer *auth.TokenIssuer, id uint, roles ...string) string {
	t.Helper()
	tok, err := issuer.Issue(id, "user@uninorte.edu.co", roles)
	require.NoError(t, err)
	return tok
}

func TestAuthenticate_MissingOrMalformedHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newEngine(issuer, nil, "admin")

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "Token xyz", "Bearer not-a-jwt"} {
		w := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)

		var body respond.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Unauthorized", body.Message)
		assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", -time.Minute, "feria")
	r := newEngine(auth.NewTokenIssuer("secret", time.Hour, "feria"), nil, "admin")

	w := do(r, "Bearer "+issue(t, issuer, 1, "admin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InactiveSubjectIsUnauthorized(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	users := &fakeValidator{active: map[uint]bool{7: true}}
	r := newValidatedEngine(issuer, users, nil, "admin")

	w := do(r, "Bearer "+issue(t, issuer, 7, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)

	// Account soft-deleted after the token was issued
	users.active[7] = false
	w = do(r, "Bearer "+issue(t, issuer, 7, "admin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body.Message)
}

func TestAuthenticate_ValidatorFailureIsInternalError(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newValidatedEngine(issuer, &fakeValidator{err: errors.New("db down")}, nil, "admin")

	w := do(r, "Bearer "+issue(t, issuer, 7, "admin"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRoles_AllowsIntersection(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newEngine(issuer, nil, "admin", "profesor")

	w := do(r, "Bearer "+issue(t, issuer, 7, "profesor"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"caller":7}`, w.Body.String())
}

func TestRequireRoles_ForbidsWithoutIntersection(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newEngine(issuer, nil, "admin")

	for _, roles := range [][]string{{"jurado"}, {"profesor", "jurado"}, nil} {
		w := do(r, "Bearer "+issue(t, issuer, 7, roles...))
		assert.Equal(t, http.StatusForbidden, w.Code, "roles %v", roles)
	}
}

func TestRequireRoles_ResolverOverridesTokenSnapshot(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	resolver := &fakeResolver{roles: map[uint][]string{7: {"profesor"}}}
	r := newEngine(issuer, resolver, "admin")

	// Token still claims admin but the role was revoked since
	w := do(r, "Bearer "+issue(t, issuer, 7, "admin"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, resolver.calls)

	resolver.roles[7] = []string{"admin"}
	w = do(r, "Bearer "+issue(t, issuer, 7))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_ResolverUnknownUserIsUnauthorized(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newEngine(issuer, &fakeResolver{roles: map[uint][]string{}}, "admin")

	w := do(r, "Bearer "+issue(t, issuer, 9, "admin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles_ResolverFailureIsInternalError(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "feria")
	r := newEngine(issuer, &fakeResolver{err: errors.New("db down")}, "admin")

	w := do(r, "Bearer "+issue(t, issuer, 9, "admin"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRoles_WithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRoles(nil, "admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)

	_, ok = bearerToken("Bearer    ")
	assert.False(t, ok)
}
