package handlers

import (
	"errors"
	"log"
	"net/http"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

type SettingsController struct {
	repo *repository.SettingRepository
}

func NewSettingsController(db *sqlx.DB) *SettingsController {
	return &SettingsController{repo: repository.NewSettingRepository(db)}
}

func (sc *SettingsController) ListSettings(c echo.Context) error {
	settings, err := sc.repo.List(c.Request().Context())
	if err != nil {
		log.Printf("Failed to list settings: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}
	if settings == nil {
		settings = []models.Setting{}
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSetting changes the value of an existing key. Unknown keys are
// 404, never created.
func (sc *SettingsController) UpdateSetting(c echo.Context) error {
	key := c.Param("key")

	var req models.UpdateSettingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	setting, err := sc.repo.UpdateValue(c.Request().Context(), key, req.Value)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Setting not found"})
	}
	if err != nil {
		log.Printf("Failed to update setting %q: %v", key, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update setting"})
	}
	return c.JSON(http.StatusOK, setting)
}
