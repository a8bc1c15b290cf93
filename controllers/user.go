package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	middlewares "github.com/BritneyNunes/NunesAutoBackEnd/middleware"
	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Register(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// CartClearer empties a customer's cart when their account goes away.
type CartClearer interface {
	Clear(ctx context.Context, customerID int64) (int64, error)
}

type UserController struct {
	Users   UserStore
	Carts   CartClearer
	Codec   utils.PasswordCodec
	Timeout time.Duration

	now func() time.Time
}

func NewUserController(users UserStore, carts CartClearer, codec utils.PasswordCodec, timeout time.Duration) *UserController {
	if codec == nil {
		codec = utils.Base64Codec{}
	}
	return &UserController{Users: users, Carts: carts, Codec: codec, Timeout: timeout, now: time.Now}
}

// credentialPayload unwraps {"data": {...}} and maps lowercase aliases onto
// the stored field names.
func credentialPayload(payload map[string]any) map[string]any {
	if inner, ok := payload["data"].(map[string]any); ok {
		payload = inner
	}
	for alias, field := range map[string]string{"password": "Password", "email": "Email"} {
		if _, ok := payload[field]; !ok {
			if v, ok := payload[alias]; ok {
				payload[field] = v
			}
		}
	}
	return payload
}

// Signup creates an account. Served on both /signup and /users.
func (h *UserController) Signup(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	clean, err := models.UserSchema.Prepare(credentialPayload(payload))
	var fieldsErr *models.FieldsError
	if errors.As(err, &fieldsErr) {
		respondMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err != nil {
		respondError(c, "USER", err)
		return
	}

	var user models.User
	if err := models.UserSchema.Decode(clean, &user); err != nil {
		respondError(c, "USER", err)
		return
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid email address")
		return
	}

	encoded, err := h.Codec.Encode(strings.TrimSpace(user.Password))
	if err != nil {
		respondError(c, "USER", err)
		return
	}
	now := h.now()
	user.Password = encoded
	user.CustomerID = now.UnixMilli()
	user.Stamp(now)

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	id, err := h.Users.Register(ctx, &user)
	if errors.Is(err, models.ErrDuplicate) {
		respondMessage(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if err != nil {
		respondError(c, "USER", err)
		return
	}

	log.Printf("[USER] registered customer %d", user.CustomerID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"_id":        id,
			"Email":      user.Email,
			"CustomerID": user.CustomerID,
		},
	})
}

// Profile looks a user up by email and password from the request body.
func (h *UserController) Profile(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	payload = credentialPayload(payload)
	email, _ := payload["Email"].(string)
	password, _ := payload["Password"].(string)
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		respondMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		respondMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		respondError(c, "USER", err)
		return
	}
	if ok, _ := h.Codec.Verify(user.Password, strings.TrimSpace(password)); !ok {
		respondMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserController) CheckPassword(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Password is correct")
}

func (h *UserController) currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authorization header missing or invalid")
	}
	return user, ok
}

func (h *UserController) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserController) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	set, err := models.UserSchema.UpdateSet(credentialPayload(payload))
	if err != nil {
		respondError(c, "USER", err)
		return
	}
	if email, ok := set["Email"].(string); ok {
		if _, err := mail.ParseAddress(email); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid email address")
			return
		}
	}
	if raw, ok := set["Password"]; ok {
		plain, isString := raw.(string)
		if !isString {
			respondMessage(c, http.StatusBadRequest, "Invalid value for field Password")
			return
		}
		encoded, err := h.Codec.Encode(strings.TrimSpace(plain))
		if err != nil {
			respondError(c, "USER", err)
			return
		}
		set["Password"] = encoded
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	updated, err := h.Users.UpdateByID(ctx, user.ID, set)
	switch {
	case errors.Is(err, models.ErrDuplicate):
		respondMessage(c, http.StatusConflict, "User with this email already exists")
		return
	case errors.Is(err, models.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "User not found")
		return
	case err != nil:
		respondError(c, "USER", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": updated})
}

func (h *UserController) DeleteProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if err := h.Users.DeleteByID(ctx, user.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, "USER", err)
		return
	}
	if h.Carts != nil {
		if n, err := h.Carts.Clear(ctx, user.CustomerID); err != nil {
			log.Printf("[USER] [WARN] cart cleanup for customer %d failed: %v", user.CustomerID, err)
		} else if n > 0 {
			log.Printf("[USER] removed %d cart items for customer %d", n, user.CustomerID)
		}
	}

	respondMessage(c, http.StatusOK, "User deleted successfully")
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangePassword replaces the caller's password after re-checking the old one.
func (h *UserController) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "oldPassword, newPassword and confirmPassword are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondMessage(c, http.StatusBadRequest, "New password and confirmation do not match")
		return
	}
	if ok, _ := h.Codec.Verify(user.Password, strings.TrimSpace(req.OldPassword)); !ok {
		respondMessage(c, http.StatusUnauthorized, "Old password is incorrect")
		return
	}
	encoded, err := h.Codec.Encode(strings.TrimSpace(req.NewPassword))
	if err != nil {
		respondError(c, "USER", err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if _, err := h.Users.UpdateByID(ctx, user.ID, bson.M{"Password": encoded}); err != nil {
		respondError(c, "USER", err)
		return
	}
	respondMessage(c, http.StatusOK, "Password changed successfully")
}
