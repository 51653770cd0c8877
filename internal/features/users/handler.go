package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/blooner/bloodlink/internal/authz"
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/blooner/bloodlink/internal/pkg/pagination"
	"github.com/blooner/bloodlink/internal/pkg/response"
	"github.com/blooner/bloodlink/internal/pkg/validator"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the user handlers need. *Repository implements it.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter, page pagination.Request) ([]User, int64, error)
	ListDonors(ctx context.Context) ([]User, error)
	FindDonors(ctx context.Context, q DonorQuery) ([]User, error)
	UpdateProfile(ctx context.Context, email string, fields map[string]string) (*User, error)
	ToggleStatus(ctx context.Context, id primitive.ObjectID) (*User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role authz.Role) (*User, error)
}

type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// GetUserByEmail godoc
// @Summary Get user by email
// @Description Returns {"user": ...} with null when no user has the email. The body is not wrapped in the success envelope, as existing clients read it directly.
// @Tags users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} UserLookupResponse
// @Router /users/{email} [get]
func (h *Handler) GetUserByEmail(c *gin.Context) {
	email := validator.NormalizeEmail(c.Param("email"))

	user, err := h.store.FindByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.fail(c, err, "find user by email", zap.String("email", email))
		return
	}

	c.JSON(http.StatusOK, UserLookupResponse{User: user})
}

// ListUsers godoc
// @Summary List users
// @Description Paginated user list filtered by status
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param options query string false "all, active or blocked"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	filter := ListFilter(c.DefaultQuery("options", string(FilterAll)))
	if !filter.IsValid() {
		response.BadRequest(c, "options must be one of: all active blocked", "INVALID_FILTER")
		return
	}
	page := pagination.FromRequest(c.Query("page"), c.Query("pageSize"))

	users, total, err := h.store.List(c.Request.Context(), filter, page)
	if err != nil {
		h.fail(c, err, "list users")
		return
	}

	response.Paginated(c, users, pagination.New(page.Page, page.Limit, total))
}

// ListDonors godoc
// @Summary List donors
// @Tags users
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /donors [get]
func (h *Handler) ListDonors(c *gin.Context) {
	donors, err := h.store.ListDonors(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list donors")
		return
	}
	response.Success(c, donors)
}

// FindDonors godoc
// @Summary Search active donors
// @Description Matches active donors by blood group, district and upazila. Omitted fields match anything.
// @Tags users
// @Accept json
// @Produce json
// @Param request body DonorQuery true "Search"
// @Success 200 {object} response.SuccessResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /find-donors [post]
func (h *Handler) FindDonors(c *gin.Context) {
	var q DonorQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BindJSONError(c, err)
		return
	}

	donors, err := h.store.FindDonors(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "find donors")
		return
	}
	response.Success(c, donors)
}

// CreateUser godoc
// @Summary Register a user
// @Description Creates the user unless the email is taken, in which case insertedId is null and message explains why. Both outcomes answer 200 with an unwrapped body, as existing clients read insertedId directly.
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User"
// @Success 200 {object} CreateUserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	email, err := validator.Email(req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	user := &User{
		Email:      email,
		Name:       req.Name,
		Avatar:     req.Avatar,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
	}

	if err := h.store.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusOK, CreateUserResponse{Message: ErrEmailTaken.Message})
			return
		}
		h.fail(c, err, "create user", zap.String("email", user.Email))
		return
	}

	c.JSON(http.StatusOK, CreateUserResponse{InsertedID: &user.ID})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=User}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	fields := req.Fields()
	if len(fields) == 0 {
		response.ValidationFailed(c, "at least one field is required")
		return
	}

	email := middleware.CurrentEmail(c)
	user, err := h.store.UpdateProfile(c.Request.Context(), email, fields)
	if err != nil {
		h.fail(c, err, "update profile", zap.String("email", email))
		return
	}
	response.Success(c, user)
}

// ToggleStatus godoc
// @Summary Block or unblock a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse{data=ToggleStatusResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id}/toggle-status [put]
func (h *Handler) ToggleStatus(c *gin.Context) {
	id, err := validator.ObjectID(c.Param("id"), "user")
	if err != nil {
		response.FromError(c, err)
		return
	}

	user, err := h.store.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "toggle user status", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, ToggleStatusResponse{ID: user.ID, Status: user.Status})
}

// ToggleRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} response.SuccessResponse{data=User}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users/{id}/toggle-role [put]
func (h *Handler) ToggleRole(c *gin.Context) {
	id, err := validator.ObjectID(c.Param("id"), "user")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	user, err := h.store.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.fail(c, err, "set user role", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, user)
}

func (h *Handler) fail(c *gin.Context, err error, msg string, fields ...zap.Field) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	response.FromError(c, err)
}
