package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"
	"RealEstateAPI/utils"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

const listCacheTTL = 60 * time.Second

type PropertyController struct {
	repo      *repository.PropertyRepository
	uploadDir string
}

func NewPropertyController(db *sqlx.DB, uploadDir string) *PropertyController {
	return &PropertyController{
		repo:      repository.NewPropertyRepository(db),
		uploadDir: uploadDir,
	}
}

// ListProperties is the public listing endpoint with optional filters.
func (pc *PropertyController) ListProperties(c echo.Context) error {
	filter := models.PropertyFilter{
		Type:        c.QueryParam("type"),
		ListingType: c.QueryParam("listing_type"),
		Status:      c.QueryParam("status"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = min
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = max
		}
	}

	cacheKey := utils.GenerateQueryCacheKey("properties", map[string]string{
		"type":         filter.Type,
		"listing_type": filter.ListingType,
		"status":       filter.Status,
		"min_price":    c.QueryParam("min_price"),
		"max_price":    c.QueryParam("max_price"),
	})

	var cached []models.Property
	if hit, err := utils.GetCached(c.Request().Context(), cacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	properties, err := pc.repo.List(c.Request().Context(), filter)
	if err != nil {
		log.Printf("Failed to list properties: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}
	if properties == nil {
		properties = []models.Property{}
	}

	if err := utils.SetCached(c.Request().Context(), cacheKey, properties, listCacheTTL); err != nil {
		log.Printf("Failed to cache property list: %v", err)
	}

	return c.JSON(http.StatusOK, properties)
}

func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	property, err := pc.repo.Get(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	if err != nil {
		log.Printf("Failed to fetch property %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}
	return c.JSON(http.StatusOK, property)
}

// CreateProperty accepts a multipart form with the property fields and
// optional image files. Validation runs before any file or row is
// written.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	input, err := bindPropertyForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := utils.ValidateProperty(input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var imageURLs []string
	var imagePaths []string
	discardImages := func() {
		for _, path := range imagePaths {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove image %s: %v", path, err)
			}
		}
	}
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, file := range form.File["images"] {
			url, path, err := pc.saveImage(file)
			if err != nil {
				log.Printf("Failed to store image: %v", err)
				discardImages()
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store image"})
			}
			imageURLs = append(imageURLs, url)
			imagePaths = append(imagePaths, path)
		}
	}

	property, err := pc.repo.Create(c.Request().Context(), *input, imageURLs)
	if err != nil {
		log.Printf("Failed to create property: %v", err)
		discardImages()
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create property"})
	}

	pc.invalidateCaches(c)

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Property created",
		"id":       property.ID,
		"property": property,
	})
}

func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	var patch models.PropertyPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	existing, err := pc.repo.Get(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	if err != nil {
		log.Printf("Failed to fetch property %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update property"})
	}

	input := existing.Input()
	patch.Apply(&input)

	if err := utils.ValidatePropertyUpdate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	property, err := pc.repo.Update(c.Request().Context(), id, input)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	if err != nil {
		log.Printf("Failed to update property %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update property"})
	}

	pc.invalidateCaches(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Property updated",
		"property": property,
	})
}

func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}

	err = pc.repo.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	if err != nil {
		log.Printf("Failed to delete property %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete property"})
	}

	pc.invalidateCaches(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Property deleted",
		"id":      id,
	})
}

// invalidateCaches drops the cached listings and stats report after a
// property mutation so readers never see them stale.
func (pc *PropertyController) invalidateCaches(c echo.Context) {
	ctx := c.Request().Context()
	if err := utils.InvalidateCachePrefix(ctx, "properties"); err != nil {
		log.Printf("Failed to invalidate property list cache: %v", err)
	}
	if err := utils.InvalidateCacheKey(ctx, statsCacheKey); err != nil {
		log.Printf("Failed to invalidate stats cache: %v", err)
	}
}

// bindPropertyForm reads the multipart form fields of a create request.
// Numeric fields are rejected individually so the client sees which one
// failed to parse.
func bindPropertyForm(c echo.Context) (*models.PropertyInput, error) {
	input := &models.PropertyInput{
		Type:         c.FormValue("type"),
		ListingType:  c.FormValue("listing_type"),
		Name:         c.FormValue("name"),
		Location:     c.FormValue("location"),
		PropertyType: c.FormValue("property_type"),
		LocalSize:    c.FormValue("local_size"),
		Description:  c.FormValue("description"),
		Status:       c.FormValue("status"),
	}

	var err error
	if input.Price, err = parseFormFloat(c, "price"); err != nil {
		return nil, err
	}
	if input.Surface, err = parseFormFloat(c, "surface"); err != nil {
		return nil, err
	}
	if v := c.FormValue("construction"); v != "" {
		construction, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("construction: must be a number")
		}
		input.Construction = &construction
	}
	if v := c.FormValue("technical_sheet"); v != "" {
		input.TechnicalSheet = &v
	}
	if v := c.FormValue("latitude"); v != "" {
		if input.Latitude, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("latitude: must be a number")
		}
	}
	if v := c.FormValue("longitude"); v != "" {
		if input.Longitude, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("longitude: must be a number")
		}
	}

	return input, nil
}

func parseFormFloat(c echo.Context, field string) (float64, error) {
	v := c.FormValue(field)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: must be a number", field)
	}
	return f, nil
}

// saveImage stores an uploaded file under the upload directory and
// returns its public URL path plus the path on disk, so the caller can
// remove the file again if the property row never lands.
func (pc *PropertyController) saveImage(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	path := filepath.Join(pc.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}
	return "/uploads/" + name, path, nil
}
