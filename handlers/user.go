package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"RealEstateAPI/models"
	"RealEstateAPI/repository"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

type UserController struct {
	repo *repository.UserRepository
}

func NewUserController(db *sqlx.DB) *UserController {
	return &UserController{repo: repository.NewUserRepository(db)}
}

func (uc *UserController) ListUsers(c echo.Context) error {
	users, err := uc.repo.List(c.Request().Context())
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch users"})
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (uc *UserController) CreateUser(c echo.Context) error {
	var input models.UserInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if input.Name == "" || input.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name and email are required"})
	}
	if err := validateUserInput(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := uc.repo.Create(c.Request().Context(), input)
	if errors.Is(err, repository.ErrDuplicate) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is already registered"})
	}
	if err != nil {
		log.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}
	return c.JSON(http.StatusCreated, user)
}

func (uc *UserController) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	var patch models.UserPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	existing, err := uc.repo.Get(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	if err != nil {
		log.Printf("Failed to fetch user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
	}

	input := existing.Input()
	patch.Apply(&input)

	if input.Name == "" || input.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name and email are required"})
	}
	if err := validateUserInput(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := uc.repo.Update(c.Request().Context(), id, input)
	if errors.Is(err, repository.ErrDuplicate) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is already registered by another user"})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	if err != nil {
		log.Printf("Failed to update user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
	}
	return c.JSON(http.StatusOK, user)
}

// validateUserInput checks the role and status enums. Empty values are
// allowed on create, where the repository fills the defaults.
func validateUserInput(in *models.UserInput) error {
	switch in.Role {
	case "", models.RoleUser, models.RoleAdmin:
	default:
		return fmt.Errorf("role: must be user or admin")
	}
	switch in.Status {
	case "", models.UserActive, models.UserInactive:
	default:
		return fmt.Errorf("status: must be active or inactive")
	}
	return nil
}

func (uc *UserController) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	err = uc.repo.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	if err != nil {
		log.Printf("Failed to delete user %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete user"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
