package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/logger"
)

// ImageHandler serves /images/<filename>: from the local image directory in
// development, as a redirect to the asset host in production.
type ImageHandler struct {
	assets   service.AssetLocator
	notFound gin.HandlerFunc
}

// NewImageHandler builds the handler. notFound renders the response for
// unknown or rejected names.
func NewImageHandler(assets service.AssetLocator, notFound gin.HandlerFunc) *ImageHandler {
	if notFound == nil {
		notFound = func(c *gin.Context) { c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound)) }
	}
	return &ImageHandler{assets: assets, notFound: notFound}
}

func (h *ImageHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")

	if h.assets.Production() {
		target, err := h.assets.RemoteURL(filename)
		if err != nil {
			h.reject(c, filename, err)
			return
		}
		logger.Info("Image redirected to asset host", map[string]interface{}{"filename": filename})
		c.Redirect(http.StatusFound, target)
		return
	}

	path, err := h.assets.LocalPath(filename)
	if err != nil {
		h.reject(c, filename, err)
		return
	}

	logger.Info("Image served", map[string]interface{}{"filename": filename})
	c.File(path)
}

func (h *ImageHandler) reject(c *gin.Context, filename string, err error) {
	fields := map[string]interface{}{"filename": filename}
	switch {
	case errors.Is(err, service.ErrInvalidAssetName):
		logger.Warn("Rejected image name", fields)
	case errors.Is(err, service.ErrAssetNotFound):
		logger.Warn("Image not found", fields)
	default:
		logger.Error(err, "Failed to resolve image", fields)
	}
	// misses must not inherit the long-lived asset cache policy
	c.Header("Cache-Control", "no-cache")
	h.notFound(c)
}
