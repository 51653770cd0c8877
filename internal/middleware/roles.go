package middleware

import (
	"github.com/blooner/bloodlink/internal/authz"
	"github.com/blooner/bloodlink/internal/pkg/response"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorize evaluates pl against the caller stored by Auth. It must run
// after Auth.
func Authorize(pl authz.Pipeline, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.FromError(c, errUnauthenticated)
			c.Abort()
			return
		}

		d := pl.Evaluate(c.Request.Context(), p)
		if !d.Allowed {
			if apperrors.KindOf(d.Err) == apperrors.KindInternal {
				logger.Error("role check failed", zap.String("email", p.Email), zap.Error(d.Err))
			}
			response.FromError(c, d.Err)
			c.Abort()
			return
		}

		SetPrincipal(c, d.Principal)
		c.Next()
	}
}

// Guards bundles the handler chains routes attach to gated endpoints.
type Guards struct {
	Session          gin.HandlerFunc
	Admin            []gin.HandlerFunc
	AdminOrVolunteer []gin.HandlerFunc
}

// NewGuards builds the session and role chains. Each role chain verifies
// the session first.
func NewGuards(verifier TokenVerifier, resolver authz.RoleResolver, logger *zap.Logger) Guards {
	session := Auth(verifier)
	return Guards{
		Session:          session,
		Admin:            []gin.HandlerFunc{session, Authorize(authz.AdminOnly(resolver), logger)},
		AdminOrVolunteer: []gin.HandlerFunc{session, Authorize(authz.AdminOrVolunteer(resolver), logger)},
	}
}

// With appends h to a guard chain for use in a route registration.
func With(chain []gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(chain)+len(h))
	out = append(out, chain...)
	return append(out, h...)
}
