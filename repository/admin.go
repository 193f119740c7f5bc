package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"RealEstateAPI/models"

	"github.com/jmoiron/sqlx"
)

type AdminRepository struct {
	DB *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := r.DB.GetContext(ctx, &a, `SELECT * FROM admins WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("AdminRepository.GetByUsername: %w", err)
	}
	return &a, nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE admins SET last_login = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
