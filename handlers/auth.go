package handlers

import (
	"errors"
	"log"
	"net/http"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"
	"RealEstateAPI/utils"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	admins *repository.AdminRepository
}

func NewAuthController(db *sqlx.DB) *AuthController {
	return &AuthController{admins: repository.NewAdminRepository(db)}
}

// Login exchanges admin credentials for a bearer token. Unknown username
// and wrong password are indistinguishable to the caller.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	admin, err := ac.admins.GetByUsername(c.Request().Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}
	if err != nil {
		log.Printf("Login lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := utils.CheckPassword(admin.Password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	if err := ac.admins.TouchLastLogin(c.Request().Context(), admin.ID); err != nil {
		log.Printf("Failed to refresh admin last_login: %v", err)
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Username)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}
