package auth

import (
	"github.com/blooner/bloodlink/internal/pkg/response"
	"github.com/blooner/bloodlink/internal/pkg/validator"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errIdentityRejected = apperrors.Unauthenticated("unauthorized access")

// TokenIssuer mints session tokens. *jwt.Manager implements it.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Handler struct {
	issuer   TokenIssuer
	verifier IdentityVerifier
	logger   *zap.Logger
}

// NewHandler builds the credential handlers. With a nil verifier any
// well-formed email is issued a token.
func NewHandler(issuer TokenIssuer, verifier IdentityVerifier, logger *zap.Logger) *Handler {
	return &Handler{issuer: issuer, verifier: verifier, logger: logger}
}

// IssueToken godoc
// @Summary Issue a session token
// @Description Returns a signed token for the email. When identity verification is enabled the idToken must belong to the same email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Identity"
// @Success 200 {object} response.SuccessResponse{data=TokenResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /jwt [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	email, err := validator.Email(req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if h.verifier != nil {
		if req.IDToken == "" {
			response.ValidationFailed(c, "idToken is required")
			return
		}
		verified, err := h.verifier.VerifyIdentity(c.Request.Context(), req.IDToken)
		if err != nil {
			h.logger.Warn("identity verification failed", zap.String("email", email), zap.Error(err))
			response.FromError(c, errIdentityRejected)
			return
		}
		if validator.NormalizeEmail(verified) != email {
			h.logger.Warn("identity email mismatch", zap.String("email", email), zap.String("verified", verified))
			response.FromError(c, errIdentityRejected)
			return
		}
	}

	token, err := h.issuer.Issue(email)
	if err != nil {
		h.logger.Error("issue token", zap.String("email", email), zap.Error(err))
		response.InternalServerError(c, "Internal server error", "INTERNAL_ERROR")
		return
	}
	response.Success(c, TokenResponse{Token: token})
}
