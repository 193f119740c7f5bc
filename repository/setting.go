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

type SettingRepository struct {
	DB *sqlx.DB
}

func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	err := r.DB.SelectContext(ctx, &settings, `SELECT * FROM settings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("SettingRepository.List: %w", err)
	}
	return settings, nil
}

// UpdateValue sets the value of an existing key and refreshes
// updated_at. A missing key is ErrNotFound; keys are never created here.
func (r *SettingRepository) UpdateValue(ctx context.Context, key, value string) (*models.Setting, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE settings SET value = ?, updated_at = ? WHERE key = ?`,
		value, time.Now().Unix(), key,
	)
	if err != nil {
		return nil, fmt.Errorf("SettingRepository.UpdateValue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var s models.Setting
	err = r.DB.GetContext(ctx, &s, `SELECT * FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("SettingRepository.UpdateValue reload: %w", err)
	}
	return &s, nil
}
