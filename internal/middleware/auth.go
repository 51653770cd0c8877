package middleware

import (
	"strings"

	"github.com/blooner/bloodlink/internal/authz"
	"github.com/blooner/bloodlink/internal/pkg/jwt"
	"github.com/blooner/bloodlink/internal/pkg/response"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	emailKey     = "email"
)

var errUnauthenticated = apperrors.Unauthenticated("unauthorized access")

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Auth rejects requests without a valid "Bearer <token>" header and stores
// the verified caller on the context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := strings.Fields(c.GetHeader("Authorization"))
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
			response.FromError(c, errUnauthenticated)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(fields[1])
		if err != nil {
			response.FromError(c, errUnauthenticated)
			c.Abort()
			return
		}

		SetPrincipal(c, authz.Principal{Email: claims.Email})
		c.Next()
	}
}

// SetPrincipal records the caller for later handlers.
func SetPrincipal(c *gin.Context, p authz.Principal) {
	c.Set(principalKey, p)
	c.Set(emailKey, p.Email)
}

// PrincipalFrom returns the caller stored by Auth.
func PrincipalFrom(c *gin.Context) (authz.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return authz.Principal{}, false
	}
	p, ok := v.(authz.Principal)
	return p, ok
}

// CurrentEmail is the verified caller's email, or "" outside Auth.
func CurrentEmail(c *gin.Context) string {
	return c.GetString(emailKey)
}
