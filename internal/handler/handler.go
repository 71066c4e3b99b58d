package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/config"
	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/service"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgInvalidImage   = "Invalid image data"
	msgInvalidType    = "Invalid file type, only image files are allowed"
	msgUploadFailed   = "Failed to upload image"
	msgListFailed     = "Failed to fetch images"
	msgDeleteFailed   = "Failed to delete image"
	msgImageNotFound  = "Image not found"
	msgImageDeleted   = "Image deleted successfully"
	msgMissingImageID = "Image ID is required"
)

type Handler struct {
	service       service.ImageService
	maxUploadSize int64
	log           *zap.Logger
}

func NewHandler(service service.ImageService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service:       service,
		maxUploadSize: cfg.App.MaxUploadSize,
		log:           log,
	}
}

// TooLargeMessage is the wording clients match against to recognise an
// oversized upload.
func TooLargeMessage(limit int64) string {
	return fmt.Sprintf("File size exceeds the %s limit", humanize.IBytes(uint64(limit)))
}

func (h *Handler) UploadImage(c *gin.Context) {
	// base64 inflates by 4/3; leave headroom for the JSON envelope.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, (h.maxUploadSize/3)*4+(1<<20))

	var req domain.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, domain.ErrorResponse{Message: TooLargeMessage(h.maxUploadSize)})
			return
		}
		h.log.Warn("Failed to bind upload request", zap.Error(err))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: msgInvalidBody})
		return
	}

	result, err := h.service.UploadImage(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: msgInvalidType})
		case errors.Is(err, service.ErrImageTooLarge):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: TooLargeMessage(h.maxUploadSize)})
		case errors.Is(err, service.ErrMalformedImage):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: msgInvalidImage})
		default:
			h.log.Error("Failed to upload image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Message: msgUploadFailed})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.service.ListImages(c.Request.Context(), page, limit)
	if err != nil {
		h.log.Error("Failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Message: msgListFailed})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id := c.Param("imageId")
	if id == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: msgMissingImageID})
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Message: msgImageNotFound})
			return
		}
		h.log.Error("Failed to delete image", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Message: msgDeleteFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgImageDeleted})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Register mounts the order image API on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/upload-image", h.UploadImage)
		api.GET("/order-images", h.ListImages)
		api.DELETE("/order-images/:imageId", h.DeleteImage)
	}
}
