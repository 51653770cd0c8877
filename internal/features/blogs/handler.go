package blogs

import (
	"context"
	"io"
	"net/http"

	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/blooner/bloodlink/internal/pkg/cloudinary"
	"github.com/blooner/bloodlink/internal/pkg/response"
	"github.com/blooner/bloodlink/internal/pkg/validator"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the blog handlers need. *Repository implements it.
type Store interface {
	Create(ctx context.Context, b *Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error)
	List(ctx context.Context, status Status) ([]Blog, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status Status) (*Blog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ImageUploader stores cover images. *cloudinary.Service implements it.
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (*cloudinary.UploadResult, error)
}

type Handler struct {
	store    Store
	uploader ImageUploader
	logger   *zap.Logger
}

// NewHandler builds the blog handlers. uploader may be nil, in which case
// image uploads answer 503.
func NewHandler(store Store, uploader ImageUploader, logger *zap.Logger) *Handler {
	return &Handler{store: store, uploader: uploader, logger: logger}
}

// ListAllBlogs godoc
// @Summary List every blog post
// @Tags blogs
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /blogs/all [get]
func (h *Handler) ListAllBlogs(c *gin.Context) {
	blogs, err := h.store.List(c.Request.Context(), "")
	if err != nil {
		h.fail(c, err, "list blogs")
		return
	}
	response.Success(c, blogs)
}

// GetBlog godoc
// @Summary Get a blog post
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} response.SuccessResponse{data=Blog}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /blogs/{id} [get]
func (h *Handler) GetBlog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	blog, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get blog", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, blog)
}

// ListBlogs godoc
// @Summary List blog posts by status
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param option query string false "draft or published; omit for all"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /blogs [get]
func (h *Handler) ListBlogs(c *gin.Context) {
	status, err := ParseFilter(c.Query("option"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	blogs, err := h.store.List(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err, "list blogs", zap.String("status", string(status)))
		return
	}
	response.Success(c, blogs)
}

// CreateBlog godoc
// @Summary Create a draft blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBlogRequest true "Post"
// @Success 201 {object} response.SuccessResponse{data=Blog}
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /blogs [post]
func (h *Handler) CreateBlog(c *gin.Context) {
	var req CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	blog := &Blog{
		Title:       req.Title,
		Thumbnail:   req.Thumbnail,
		Content:     req.Content,
		AuthorEmail: middleware.CurrentEmail(c),
	}
	if err := h.store.Create(c.Request.Context(), blog); err != nil {
		h.fail(c, err, "create blog", zap.String("author", blog.AuthorEmail))
		return
	}
	response.Created(c, blog)
}

// SetPublishState godoc
// @Summary Publish or unpublish a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blogId path string true "Blog ID"
// @Param request body PublishRequest true "publish or draft"
// @Success 200 {object} response.SuccessResponse{data=Blog}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /blogs/{blogId} [put]
func (h *Handler) SetPublishState(c *gin.Context) {
	id, ok := pathID(c, "blogId")
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	status, err := ValidatePublishAction(req.Action)
	if err != nil {
		response.FromError(c, err)
		return
	}

	blog, err := h.store.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		h.fail(c, err, "set blog status", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, blog)
}

// DeleteBlog godoc
// @Summary Delete a blog post
// @Description Unauthenticated, as existing clients expect.
// @Tags blogs
// @Produce json
// @Param blogId path string true "Blog ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /blogs/{blogId} [delete]
func (h *Handler) DeleteBlog(c *gin.Context) {
	id, ok := pathID(c, "blogId")
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "delete blog", zap.String("id", id.Hex()))
		return
	}
	response.Success(c, gin.H{"deletedCount": 1})
}

// UploadImage godoc
// @Summary Upload a blog cover image
// @Tags blogs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (jpg, png, gif or webp, max 5MB)"
// @Success 201 {object} response.SuccessResponse{data=cloudinary.UploadResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /blogs/images [post]
func (h *Handler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		response.ServiceUnavailable(c, "Image uploads are not configured", "UPLOADS_DISABLED")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required", "MISSING_FILE")
		return
	}
	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "could not read image", "INVALID_FILE")
		return
	}
	defer file.Close()

	result, err := h.uploader.UploadImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.logger.Error("upload blog image", zap.String("filename", header.Filename), zap.Error(err))
		response.Error(c, http.StatusBadGateway, "Image upload failed", "UPLOAD_FAILED")
		return
	}
	response.Created(c, result)
}

func pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := validator.ObjectID(c.Param(param), "blog")
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
