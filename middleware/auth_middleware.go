package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

// UserFinder is the lookup the guard needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

var (
	errNoBasicHeader  = errors.New("authorization header missing or invalid")
	errBadBasicFormat = errors.New("invalid basic authorization format")
)

// ParseBasicAuth extracts the email and (trimmed) password from an
// Authorization header value.
func ParseBasicAuth(header string) (email, password string, err error) {
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", errNoBasicHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Basic "))
	if token == "" {
		return "", "", errBadBasicFormat
	}
	decoded, err := utils.DecodeCredential(token)
	if err != nil {
		return "", "", errBadBasicFormat
	}
	email, password, ok := strings.Cut(decoded, ":")
	if !ok {
		return "", "", errBadBasicFormat
	}
	return email, strings.TrimSpace(password), nil
}

// BasicAuth checks the caller's email and password on every request and
// stores the matching user in the context.
func BasicAuth(users UserFinder, codec utils.PasswordCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, err := ParseBasicAuth(c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, errNoBasicHeader):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header missing or invalid"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid Basic Authorization format"})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), email)
		if errors.Is(err, models.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] [ERROR] user lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		ok, err := codec.Verify(user.Password, password)
		if err != nil {
			log.Printf("[AUTH] [WARN] stored credential for %s could not be checked: %v", email, err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by BasicAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// SetCurrentUser stores user the way BasicAuth does.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userContextKey, user)
}
