package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	middlewares "github.com/BritneyNunes/NunesAutoBackEnd/middleware"
	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newUserRouter(users fakeUsers, carts fakeCarts) (*gin.Engine, *UserController) {
	h := NewUserController(users, carts, utils.Base64Codec{}, 0)
	h.now = func() time.Time { return time.UnixMilli(1700000000123) }

	r := gin.New()
	r.POST("/users", h.Signup)
	r.POST("/signup", h.Signup)
	r.POST("/profile", h.Profile)

	private := r.Group("/", middlewares.BasicAuth(users, utils.Base64Codec{}))
	private.GET("/checkpassword", h.CheckPassword)
	private.GET("/users/profile", h.GetProfile)
	private.PUT("/users/profile", h.UpdateProfile)
	private.DELETE("/users/profile", h.DeleteProfile)
	private.PUT("/users/password", h.ChangePassword)
	return r, h
}

func withBasic(r http.Handler, method, path, body, email, password string) (int, map[string]any) {
	req := newJSONRequest(method, path, body)
	req.Header.Set("Authorization", "Basic "+utils.EncodeCredential(email+":"+password))
	w := serve(r, req)
	return w.Code, decodeJSON(w.Body.Bytes())
}

func seedUser(t *testing.T, users fakeUsers, email, password string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: utils.EncodeCredential(password), CustomerID: 555, NameAndSurname: "A B"}
	id, err := users.Insert(context.Background(), u)
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestSignupCreatesUser(t *testing.T) {
	users := newFakeUsers()
	r, _ := newUserRouter(users, newFakeCarts())

	w := perform(r, http.MethodPost, "/users",
		`{"NameAndSurname":"A B","Email":"a@b.com","Password":"pw","Gender":"F","UserNumber":"123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "Password")

	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "User created successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["Email"])
	assert.Equal(t, float64(1700000000123), user["CustomerID"])
	assert.NotEmpty(t, user["_id"])

	stored, err := users.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	plain, err := utils.DecodeCredential(stored.Password)
	require.NoError(t, err)
	assert.Equal(t, "pw", plain)
	assert.Equal(t, "123", stored.UserNumber)
}

func TestSignupAcceptsWrappedLowercaseBody(t *testing.T) {
	users := newFakeUsers()
	r, _ := newUserRouter(users, newFakeCarts())

	w := perform(r, http.MethodPost, "/signup", `{"data":{"Email":" c@d.com ","password":"secret","UserNumber":27123}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := users.FindByEmail(context.Background(), "c@d.com")
	require.NoError(t, err)
	assert.Equal(t, utils.EncodeCredential("secret"), stored.Password)
	assert.Equal(t, "27123", stored.UserNumber)
}

func TestSignupPasswordAuthenticatesTrimmed(t *testing.T) {
	users := newFakeUsers()
	r, _ := newUserRouter(users, newFakeCarts())

	w := perform(r, http.MethodPost, "/signup", `{"Email":"e@f.com","Password":"secret  "}`)
	require.Equal(t, http.StatusCreated, w.Code)

	status, body := withBasic(r, http.MethodGet, "/checkpassword", "", "e@f.com", "secret")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password is correct", body["message"])
}

func TestSignupRejects(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"missing password", `{"Email":"a@b.com"}`, http.StatusBadRequest, "Email and password are required"},
		{"blank email", `{"Email":"  ","Password":"pw"}`, http.StatusBadRequest, "Email and password are required"},
		{"bad email", `{"Email":"not-an-email","Password":"pw"}`, http.StatusBadRequest, "Invalid email address"},
		{"duplicate", `{"Email":"taken@b.com","Password":"pw"}`, http.StatusConflict, "User with this email already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUsers()
			seedUser(t, users, "taken@b.com", "old")
			r, _ := newUserRouter(users, newFakeCarts())

			w := perform(r, http.MethodPost, "/users", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decodeBody(t, w.Body.Bytes())["message"])
			assert.Equal(t, 1, users.Len())
		})
	}
}

func TestProfileLookup(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, "a@b.com", "pw")
	r, _ := newUserRouter(users, newFakeCarts())

	w := perform(r, http.MethodPost, "/profile", `{"Email":"a@b.com","Password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", decodeBody(t, w.Body.Bytes())["Email"])
	assert.NotContains(t, w.Body.String(), "Password")

	w = perform(r, http.MethodPost, "/profile", `{"Email":"a@b.com","Password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/profile", `{"Email":"nobody@b.com","Password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/profile", `{"Email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckPassword(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, "a@b.com", "pw")
	r, _ := newUserRouter(users, newFakeCarts())

	status, body := withBasic(r, http.MethodGet, "/checkpassword", "", "a@b.com", "pw")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password is correct", body["message"])

	status, _ = withBasic(r, http.MethodGet, "/checkpassword", "", "a@b.com", "nope")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGetProfile(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, "a@b.com", "pw")
	r, _ := newUserRouter(users, newFakeCarts())

	status, body := withBasic(r, http.MethodGet, "/users/profile", "", "a@b.com", "pw")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A B", body["NameAndSurname"])
	assert.NotContains(t, body, "Password")
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, "a@b.com", "pw")
	r, _ := newUserRouter(users, newFakeCarts())

	status, body := withBasic(r, http.MethodPut, "/users/profile", `{"NameAndSurname":"New Name","Password":"pw2"}`, "a@b.com", "pw")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile updated successfully", body["message"])
	assert.Equal(t, "New Name", body["user"].(map[string]any)["NameAndSurname"])

	stored, err := users.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, utils.EncodeCredential("pw2"), stored.Password)

	status, _ = withBasic(r, http.MethodPut, "/users/profile", `{"Email":"broken"}`, "a@b.com", "pw2")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = withBasic(r, http.MethodPut, "/users/profile", `{"CustomerID":1}`, "a@b.com", "pw2")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteProfileClearsCart(t *testing.T) {
	users := newFakeUsers()
	carts := newFakeCarts()
	u := seedUser(t, users, "a@b.com", "pw")
	ctx := context.Background()
	_, _ = carts.Insert(ctx, &models.CartItem{CustomerID: u.CustomerID, ItemID: "p1", Name: "Filter", Price: 10, Quantity: 1})
	_, _ = carts.Insert(ctx, &models.CartItem{CustomerID: 999, ItemID: "p1", Name: "Filter", Price: 10, Quantity: 1})
	r, _ := newUserRouter(users, carts)

	status, body := withBasic(r, http.MethodDelete, "/users/profile", "", "a@b.com", "pw")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted successfully", body["message"])
	assert.Zero(t, users.Len())

	left, err := carts.Find(ctx, bson.M{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(999), left[0].CustomerID)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUsers()
	seedUser(t, users, "a@b.com", "pw")
	r, _ := newUserRouter(users, newFakeCarts())

	status, body := withBasic(r, http.MethodPut, "/users/password",
		`{"oldPassword":"pw","newPassword":"n1","confirmPassword":"n2"}`, "a@b.com", "pw")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "New password and confirmation do not match", body["message"])

	status, _ = withBasic(r, http.MethodPut, "/users/password",
		`{"oldPassword":"bad","newPassword":"n1","confirmPassword":"n1"}`, "a@b.com", "pw")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = withBasic(r, http.MethodPut, "/users/password",
		`{"oldPassword":"pw","newPassword":"n1","confirmPassword":"n1"}`, "a@b.com", "pw")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password changed successfully", body["message"])

	status, _ = withBasic(r, http.MethodGet, "/checkpassword", "", "a@b.com", "n1")
	assert.Equal(t, http.StatusOK, status)
}
