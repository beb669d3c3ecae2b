package v1

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"seaview-backend/internal/delivery/http/response"
	"seaview-backend/internal/domain"
	"seaview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	defaultThumbnailSize = 480
	minThumbnailSize     = 32
	maxThumbnailSize     = 1600
)

type GalleryHandler struct {
	galleryUC domain.GalleryUsecase
}

func NewGalleryHandler(r *gin.RouterGroup, uc domain.GalleryUsecase) {
	handler := &GalleryHandler{
		galleryUC: uc,
	}

	r.GET("/gallery", handler.ListImages)
	r.GET("/gallery/:name/thumbnail", handler.Thumbnail)
	r.GET("/hero", handler.Hero)
}

// ListImages godoc
// @Summary      List gallery images
// @Tags         gallery
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.GalleryImage}
// @Router       /v1/gallery [get]
func (h *GalleryHandler) ListImages(c *gin.Context) {
	response.Success(c, http.StatusOK, "Gallery images", h.galleryUC.List(c.Request.Context()))
}

// Thumbnail godoc
// @Summary      Gallery thumbnail
// @Description  JPEG thumbnail whose longest side is at most size pixels.
// @Tags         gallery
// @Produce      jpeg
// @Param        name  path   string  true   "Image file name"
// @Param        size  query  int     false  "Longest side in pixels (32-1600)"
// @Success      200
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /v1/gallery/{name}/thumbnail [get]
func (h *GalleryHandler) Thumbnail(c *gin.Context) {
	size := defaultThumbnailSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(apperror.BadRequest("size must be a number"))
			return
		}
		size = min(max(parsed, minThumbnailSize), maxThumbnailSize)
	}

	var buf bytes.Buffer
	err := h.galleryUC.WriteThumbnail(c.Request.Context(), &buf, c.Param("name"), size)
	switch {
	case errors.Is(err, domain.ErrImageNotFound):
		c.Error(apperror.NotFound("Image not found"))
		return
	case errors.Is(err, domain.ErrInvalidImageName):
		c.Error(apperror.BadRequest("Invalid image name"))
		return
	case err != nil:
		c.Error(apperror.Internal(err))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

// Hero godoc
// @Summary      Hero background rotation
// @Tags         gallery
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HeroState}
// @Failure      500  {object}  response.Response
// @Router       /v1/hero [get]
func (h *GalleryHandler) Hero(c *gin.Context) {
	state, err := h.galleryUC.Hero(c.Request.Context(), time.Now())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Hero rotation", state)
}
