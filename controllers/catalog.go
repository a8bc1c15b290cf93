package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

const maxImageBytes = 5 << 20

// Catalog is the cached read side plus invalidation.
type Catalog interface {
	Brands(ctx context.Context) ([]models.Brand, error)
	Parts(ctx context.Context, keyword string, filter bson.M) ([]models.Part, error)
	Invalidate(ctx context.Context)
}

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error)
}

type CatalogController struct {
	Catalog Catalog
	Brands  *Resource[models.Brand, *models.Brand]
	Parts   *Resource[models.Part, *models.Part]
	Images  ImageUploader // nil when storage is not configured
	Timeout time.Duration
}

func NewCatalogController(catalog Catalog, brands Store[models.Brand], parts Store[models.Part], images ImageUploader, timeout time.Duration) *CatalogController {
	h := &CatalogController{
		Catalog: catalog,
		Brands:  NewResource[models.Brand](brands, models.BrandSchema, timeout),
		Parts:   NewResource[models.Part](parts, models.PartSchema, timeout),
		Images:  images,
		Timeout: timeout,
	}
	h.Brands.AfterWrite = catalog.Invalidate
	h.Parts.AfterWrite = catalog.Invalidate
	h.Parts.Summary = func(p *models.Part) gin.H {
		return gin.H{"ProductID": p.ProductID, "Part": p.Part, "Brand": p.Brand}
	}
	return h
}

func (h *CatalogController) ListBrands(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	brands, err := h.Catalog.Brands(ctx)
	if err != nil {
		respondError(c, "CATALOG", err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

// ListParts serves GET /parts. ?q searches part and brand names.
func (h *CatalogController) ListParts(c *gin.Context) {
	filter, err := models.PartSchema.Filter(c.Request.URL.Query())
	if err != nil {
		respondError(c, "CATALOG", err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	parts, err := h.Catalog.Parts(ctx, strings.TrimSpace(c.Query("q")), filter)
	if err != nil {
		respondError(c, "CATALOG", err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

// UploadPartImage stores a multipart "image" file and points the part at it.
func (h *CatalogController) UploadPartImage(c *gin.Context) {
	if h.Images == nil {
		respondMessage(c, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondMessage(c, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	ctx, cancel := requestContext(c, 4*h.Parts.Timeout)
	defer cancel()

	if _, err := h.Parts.Store.FindByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Part not found")
			return
		}
		respondError(c, "CATALOG", err)
		return
	}

	url, err := h.Images.Upload(ctx, file, contentType, "parts")
	if err != nil {
		log.Printf("[CATALOG] [ERROR] image upload for part %s failed: %v", id.Hex(), err)
		respondMessage(c, http.StatusBadGateway, "Failed to upload image")
		return
	}

	part, err := h.Parts.Store.UpdateByID(ctx, id, bson.M{"Image": url})
	if err != nil {
		respondError(c, "CATALOG", err)
		return
	}
	h.Catalog.Invalidate(ctx)

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully", "Image": url, "data": part})
}
