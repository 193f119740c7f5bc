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

type PropertyRepository struct {
	DB *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

// List returns properties matching the filter, images attached, in
// insertion order.
func (r *PropertyRepository) List(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	query := `SELECT * FROM properties WHERE 1=1`
	args := []interface{}{}

	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.ListingType != "" {
		query += ` AND listing_type = ?`
		args = append(args, f.ListingType)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.MinPrice > 0 {
		query += ` AND price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query += ` AND price <= ?`
		args = append(args, f.MaxPrice)
	}
	query += ` ORDER BY id`

	var properties []models.Property
	if err := r.DB.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("PropertyRepository.List: %w", err)
	}
	if err := r.attachImages(ctx, properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// Get returns a single property with its images, or ErrNotFound.
func (r *PropertyRepository) Get(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM properties WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.Get: %w", err)
	}

	props := []models.Property{p}
	if err := r.attachImages(ctx, props); err != nil {
		return nil, err
	}
	return &props[0], nil
}

// Create inserts the property and its image rows in one transaction so a
// failed image write never leaves an orphaned property. The first image
// becomes the main one. Timestamps are server-assigned.
func (r *PropertyRepository) Create(ctx context.Context, in models.PropertyInput, imageURLs []string) (*models.Property, error) {
	now := time.Now().Unix()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO properties
			(type, listing_type, name, location, property_type, price, surface,
			 construction, description, technical_sheet, latitude, longitude,
			 status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Type, in.ListingType, in.Name, in.Location, in.PropertyType,
		in.Price, in.Surface, in.Construction, in.Description, in.TechnicalSheet,
		in.Latitude, in.Longitude, in.Status, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i, url := range imageURLs {
		isMain := 0
		if i == 0 {
			isMain = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO property_images (property_id, url, is_main, created_at)
			VALUES (?, ?, ?, ?)`,
			id, url, isMain, now,
		)
		if err != nil {
			return nil, fmt.Errorf("PropertyRepository.Create images: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update overwrites the supplied fields and refreshes updated_at,
// returning the merged record or ErrNotFound.
func (r *PropertyRepository) Update(ctx context.Context, id int64, in models.PropertyInput) (*models.Property, error) {
	now := time.Now().Unix()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE properties SET
			type = ?, listing_type = ?, name = ?, location = ?, property_type = ?,
			price = ?, surface = ?, construction = ?, description = ?,
			technical_sheet = ?, latitude = ?, longitude = ?, status = ?,
			updated_at = ?
		WHERE id = ?`,
		in.Type, in.ListingType, in.Name, in.Location, in.PropertyType,
		in.Price, in.Surface, in.Construction, in.Description, in.TechnicalSheet,
		in.Latitude, in.Longitude, in.Status, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the property and cascades its image rows in the same
// transaction. Returns ErrNotFound if the property does not exist.
func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM property_images WHERE property_id = ?`, id); err != nil {
		return fmt.Errorf("PropertyRepository.Delete images: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// attachImages loads image rows for the given properties in one query.
func (r *PropertyRepository) attachImages(ctx context.Context, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	ids := make([]int64, len(properties))
	for i := range properties {
		properties[i].Images = []models.PropertyImage{}
		ids[i] = properties[i].ID
	}

	query, args, err := sqlx.In(
		`SELECT * FROM property_images WHERE property_id IN (?) ORDER BY is_main DESC, id`, ids)
	if err != nil {
		return err
	}

	var images []models.PropertyImage
	if err := r.DB.SelectContext(ctx, &images, r.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("PropertyRepository.attachImages: %w", err)
	}

	byProperty := make(map[int64][]models.PropertyImage, len(properties))
	for _, img := range images {
		byProperty[img.PropertyID] = append(byProperty[img.PropertyID], img)
	}
	for i := range properties {
		if imgs, ok := byProperty[properties[i].ID]; ok {
			properties[i].Images = imgs
		}
	}
	return nil
}
