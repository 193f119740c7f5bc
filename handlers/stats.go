package handlers

import (
	"log"
	"net/http"
	"time"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"
	"RealEstateAPI/utils"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

const statsCacheKey = "stats:report"
const statsCacheTTL = 60 * time.Second

type StatsController struct {
	repo *repository.StatsRepository
}

func NewStatsController(db *sqlx.DB) *StatsController {
	return &StatsController{repo: repository.NewStatsRepository(db)}
}

// GetStats returns the dashboard report, computed from live property
// rows and cached briefly.
func (sc *StatsController) GetStats(c echo.Context) error {
	var cached models.StatsReport
	if hit, err := utils.GetCached(c.Request().Context(), statsCacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	report, err := sc.repo.Aggregate(c.Request().Context())
	if err != nil {
		log.Printf("Failed to aggregate stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch statistics"})
	}

	if err := utils.SetCached(c.Request().Context(), statsCacheKey, report, statsCacheTTL); err != nil {
		log.Printf("Failed to cache stats report: %v", err)
	}

	return c.JSON(http.StatusOK, report)
}
