package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/s3"
	"github.com/windoze95/recipefinder-api/internal/service"
	"go.uber.org/zap"
)

// maxImageSize is the largest accepted upload (10MB).
const maxImageSize = 10 << 20

// ImageHandler handles image upload requests.
type ImageHandler struct {
	Images service.ImageStore
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images service.ImageStore) *ImageHandler {
	return &ImageHandler{Images: images}
}

// allowedImageTypes maps accepted file extensions to their content type.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadImage handles POST /v1/images/upload
func (h *ImageHandler) UploadImage(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, allowed := allowedImageTypes[ext]
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type. Allowed: jpg, png, webp"})
		return
	}

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum size of 10MB"})
		return
	}

	// The declared size can lie; never read past the limit.
	imgBytes, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	if len(imgBytes) > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum size of 10MB"})
		return
	}

	if sniffed := http.DetectContentType(imgBytes); sniffed != contentType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image content does not match its extension"})
		return
	}

	key := s3.ImageKey(principal.ID, uuid.New().String(), ext)
	imageURL, err := h.Images.UploadImage(c.Request.Context(), key, imgBytes, contentType)
	if err != nil {
		logger.FromGin(c).Error("failed to upload image to S3", zap.String("user_id", principal.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}
