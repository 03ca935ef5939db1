package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localshop/internal/domain"
	"localshop/internal/middleware"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestUserHandler_RegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Asha Patel",
		"contact":  "9812345678",
		"email":    "Asha@Example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	user := decode[domain.User](t, w)
	assert.Equal(t, "asha@example.com", user.Email)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"contact":  "9812345678",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[LoginResponse](t, w)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, login.AccessToken, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decode[domain.User](t, rec).ID)
}

func TestUserHandler_SignUpLogsIn(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Ravi Kumar",
		"contact":  "9000000001",
		"email":    "ravi@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	session := decode[LoginResponse](t, w)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "Ravi Kumar", session.User.Name)
	assert.Equal(t, "9000000001", session.User.Contact)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, session.AccessToken, cookie.Value)

	w = env.do(t, http.MethodGet, "/api/auth/profile", nil, session.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.User.ID, decode[domain.User](t, w).ID)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"contact": "9000000001", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_SignUpRequiresEveryField(t *testing.T) {
	env := newTestEnv(t)
	full := map[string]string{
		"fullName": "Ravi Kumar",
		"contact":  "9000000001",
		"email":    "ravi@example.com",
		"password": "password123",
	}

	for _, field := range []string{"fullName", "contact", "email", "password"} {
		t.Run(field, func(t *testing.T) {
			body := map[string]string{}
			for k, v := range full {
				if k != field {
					body[k] = v
				}
			}
			w := env.do(t, http.MethodPost, "/api/auth/signup", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"`+field+`"`)
			assert.Nil(t, sessionCookie(w))
		})
	}

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/auth/signup", full, "").Code)

	dup := map[string]string{"fullName": "Other", "contact": "9000000001", "email": "other@example.com", "password": "password123"}
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/auth/signup", dup, "").Code)
}

func TestUserHandler_RegisterConflictsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"name": "Asha", "email": "asha@example.com", "password": "password123"}

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/auth/register", body, "").Code)

	w := env.do(t, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Bo", "email": "bo@example.com", "password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"password"`)
}

// Feature: localshop, Property 15: Wrong passwords never open a session
func TestProperty_LoginRejectsWrongPasswords(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("any other password gets 401 and no cookie", prop.ForAll(
		func(password string) bool {
			if password == "password123" {
				return true
			}
			w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
				"email":    "owner@example.com",
				"password": password,
			}, "")
			return w.Code == http.StatusUnauthorized && sessionCookie(w) == nil
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserHandler_RefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "owner@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[LoginResponse](t, w)

	w = env.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": login.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[RefreshResponse](t, w).AccessToken)

	w = env.do(t, http.MethodPost, "/api/auth/logout", map[string]string{"refreshToken": login.RefreshToken}, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)

	w = env.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": login.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
