package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func newGuardedRouter(users UserFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/checkpassword", BasicAuth(users, utils.Base64Codec{}), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password is correct", "email": u.Email})
	})
	return r
}

func call(r http.Handler, header string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/checkpassword", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func basic(email, password string) string {
	return "Basic " + utils.EncodeCredential(email+":"+password)
}

func TestBasicAuth(t *testing.T) {
	users := stubUsers{users: map[string]*models.User{
		"a@b.com": {Email: "a@b.com", Password: utils.EncodeCredential("pw")},
		"c@d.com": {Email: "c@d.com", Password: "not-base64!"},
	}}
	r := newGuardedRouter(users)

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header missing or invalid"},
		{"wrong scheme", "Bearer abc", http.StatusUnauthorized, "Authorization header missing or invalid"},
		{"empty token", "Basic ", http.StatusBadRequest, "Invalid Basic Authorization format"},
		{"not base64", "Basic ###", http.StatusBadRequest, "Invalid Basic Authorization format"},
		{"no colon", "Basic " + utils.EncodeCredential("a@b.com"), http.StatusBadRequest, "Invalid Basic Authorization format"},
		{"unknown email", basic("x@y.com", "pw"), http.StatusUnauthorized, "Invalid email or password"},
		{"wrong password", basic("a@b.com", "nope"), http.StatusUnauthorized, "Invalid email or password"},
		{"corrupt stored password", basic("c@d.com", "pw"), http.StatusUnauthorized, "Invalid email or password"},
		{"valid", basic("a@b.com", "pw"), http.StatusOK, "Password is correct"},
		{"password is trimmed", basic("a@b.com", " pw "), http.StatusOK, "Password is correct"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(r, tc.header)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestBasicAuthStoreFailure(t *testing.T) {
	r := newGuardedRouter(stubUsers{err: errors.New("connection reset")})
	status, body := call(r, basic("a@b.com", "pw"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestParseBasicAuthSplitsOnFirstColon(t *testing.T) {
	email, password, err := ParseBasicAuth(basic("a@b.com", "p:w"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
	assert.Equal(t, "p:w", password)
}
