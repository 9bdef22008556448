package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sinkedin/sinkedin/identity"
)

// Context keys set by Auth for downstream handlers.
const (
	ViewerKey      = "viewer"
	AccessTokenKey = "access_token"
)

// ErrorAuthRequired is the error code returned on missing or invalid
// credentials.
const ErrorAuthRequired = "AUTH_REQUIRED"

// Authenticator resolves an access token to an identity. Satisfied by
// *identity.Gateway, injected so no package-scoped client is needed.
type Authenticator interface {
	CurrentUser(ctx context.Context, accessToken string) (*identity.Identity, error)
}

// Auth fetches the bearer token from the request, resolves it through the
// gateway and stores the viewer identity on the gin context. With required
// set, requests without a valid viewer are rejected with 401. Without it,
// the request continues unauthenticated, handlers see no viewer.
func Auth(gateway Authenticator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)

		viewer, _ := gateway.CurrentUser(c.Request.Context(), token)
		if viewer == nil {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code": ErrorAuthRequired,
					"msg":  "authentication required",
				})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(ViewerKey, viewer)
		c.Set(AccessTokenKey, token)

		// Mirror the viewer id into the "sub" header so access logs carry it.
		c.Request.Header.Set("sub", viewer.ID)
		c.Next()
	}
}

// Viewer returns the authenticated identity on the context, or nil.
func Viewer(c *gin.Context) *identity.Identity {
	value, ok := c.Get(ViewerKey)
	if !ok {
		return nil
	}
	viewer, ok := value.(*identity.Identity)
	if !ok {
		return nil
	}
	return viewer
}

// AccessToken returns the validated bearer token on the context, or "".
func AccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

// bearerToken reads the token from the Authorization header, falling back
// to the "token" query parameter for clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}
