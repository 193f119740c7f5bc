package middleware

import (
	"log"
	"net/http"
	"strings"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"
	"RealEstateAPI/utils"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware rejects requests without a valid bearer token and puts
// the decoded admin identity into the request context.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Authorization header is required",
				})
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid authorization header format",
				})
			}

			claims, err := utils.ValidateJWT(tokenParts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid token",
				})
			}

			c.Set("admin_id", claims.ID)
			c.Set("admin_username", claims.Username)

			return next(c)
		}
	}
}

// AdminRequired additionally loads the user row for the token identity
// and rejects anyone without the admin role. Refreshes the row's
// last_login as a side effect.
func AdminRequired(users *repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get("admin_id").(int64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid token",
				})
			}

			user, err := users.Get(c.Request().Context(), id)
			if err != nil || user.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Admin access required",
				})
			}

			if err := users.TouchLastLogin(c.Request().Context(), id); err != nil {
				log.Printf("Failed to refresh last_login for user %d: %v", id, err)
			}

			return next(c)
		}
	}
}
