package donations

import (
	"context"

	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/blooner/bloodlink/internal/pkg/pagination"
	"github.com/blooner/bloodlink/internal/pkg/response"
	"github.com/blooner/bloodlink/internal/pkg/validator"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the donation handlers need. *Repository implements it.
type Store interface {
	Create(ctx context.Context, dr *DonationRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error)
	ListAll(ctx context.Context) ([]DonationRequest, error)
	ListPending(ctx context.Context) ([]DonationRequest, error)
	List(ctx context.Context, filter ListFilter, page pagination.Request) ([]DonationRequest, int64, error)
	Assign(ctx context.Context, id primitive.ObjectID, donorName, donorEmail string) (*DonationRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, next Status) (*DonationRequest, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*DonationRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// CreateDonationRequest godoc
// @Summary Create a donation request
// @Description The caller becomes the requester and the request starts as pending
// @Tags donation-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Donation request"
// @Success 201 {object} response.SuccessResponse{data=DonationRequest}
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /donationRequests [post]
func (h *Handler) CreateDonationRequest(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	dr := &DonationRequest{
		RequesterName:     req.RequesterName,
		RequesterEmail:    middleware.CurrentEmail(c),
		RecipientName:     req.RecipientName,
		RecipientDistrict: req.RecipientDistrict,
		RecipientUpazila:  req.RecipientUpazila,
		HospitalName:      req.HospitalName,
		FullAddress:       req.FullAddress,
		BloodGroup:        req.BloodGroup,
		DonationDate:      req.DonationDate,
		DonationTime:      req.DonationTime,
		RequestMessage:    req.RequestMessage,
	}

	if err := h.store.Create(c.Request.Context(), dr); err != nil {
		h.fail(c, err, "create donation request", zap.String("requester", dr.RequesterEmail))
		return
	}
	response.Created(c, dr)
}

// ListAllDonationRequests godoc
// @Summary List every donation request
// @Tags donation-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /donationRequests [get]
func (h *Handler) ListAllDonationRequests(c *gin.Context) {
	items, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list donation requests")
		return
	}
	response.Success(c, items)
}

// GetDonationRequest godoc
// @Summary Get a donation request
// @Tags donation-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation request ID"
// @Success 200 {object} response.SuccessResponse{data=DonationRequest}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /donationRequests/{id} [get]
func (h *Handler) GetDonationRequest(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	dr, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get donation request", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, dr)
}

// AssignDonor godoc
// @Summary Take a pending donation request
// @Description Records the donor and moves the request to inprogress. Fails with 409 unless the request is pending.
// @Tags donation-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation request ID"
// @Param request body AssignRequest true "Donor"
// @Success 200 {object} response.SuccessResponse{data=DonationRequest}
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /donationRequests/{id} [put]
func (h *Handler) AssignDonor(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	dr, err := h.store.Assign(c.Request.Context(), id, req.DonorName, validator.NormalizeEmail(req.DonorEmail))
	if err != nil {
		h.fail(c, err, "assign donor", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, dr)
}

// ListMyDonationRequests godoc
// @Summary List the caller's donation requests
// @Tags donation-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, inprogress, done or canceled"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /donation-requests [get]
func (h *Handler) ListMyDonationRequests(c *gin.Context) {
	h.list(c, middleware.CurrentEmail(c))
}

// ListAdminDonationRequests godoc
// @Summary List all donation requests, paginated
// @Tags donation-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, inprogress, done or canceled"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/donation-requests [get]
func (h *Handler) ListAdminDonationRequests(c *gin.Context) {
	h.list(c, "")
}

func (h *Handler) list(c *gin.Context, requester string) {
	status := Status(c.Query("status"))
	if status != "" && !status.IsValid() {
		response.BadRequest(c, "status must be one of: pending inprogress done canceled", "INVALID_STATUS")
		return
	}
	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))

	items, total, err := h.store.List(c.Request.Context(), ListFilter{RequesterEmail: requester, Status: status}, page)
	if err != nil {
		h.fail(c, err, "list donation requests", zap.String("requester", requester))
		return
	}
	response.Paginated(c, items, pagination.New(page.Page, page.Limit, total))
}

// ListPendingRequests godoc
// @Summary List pending donation requests
// @Tags donation-requests
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /pending-requests [get]
func (h *Handler) ListPendingRequests(c *gin.Context) {
	items, err := h.store.ListPending(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list pending requests")
		return
	}
	response.Success(c, items)
}

// UpdateStatus godoc
// @Summary Change a donation request's status
// @Description pending→inprogress|canceled, inprogress→done|canceled|pending. done and canceled are final.
// @Tags donation-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation request ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.SuccessResponse{data=DonationRequest}
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /donation-requests/{id}/update-status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	dr, err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err, "update donation status", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, dr)
}

// UpdateDonationRequest godoc
// @Summary Edit a donation request
// @Tags donation-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation request ID"
// @Param request body UpdateFieldsRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=DonationRequest}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /donation-requests/{id}/update [put]
func (h *Handler) UpdateDonationRequest(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	fields := req.Fields()
	if len(fields) == 0 {
		response.ValidationFailed(c, "at least one field is required")
		return
	}

	dr, err := h.store.UpdateFields(c.Request.Context(), id, fields)
	if err != nil {
		h.fail(c, err, "update donation request", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, dr)
}

// DeleteDonationRequest godoc
// @Summary Delete a donation request
// @Tags donation-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation request ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /donation-requests/{id}/delete [delete]
func (h *Handler) DeleteDonationRequest(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "delete donation request", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, gin.H{"deletedCount": 1})
}

func (h *Handler) pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := validator.ObjectID(c.Param("id"), "donation request")
	if err != nil {
		response.FromError(c, err)
		return id, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error, msg string, fields ...zap.Field) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	response.FromError(c, err)
}
