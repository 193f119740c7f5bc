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

type UserRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// List returns all users ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.List: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Get: %w", err)
	}
	return &u, nil
}

// EmailTaken reports whether email belongs to a user other than
// excludeID. Pass excludeID 0 for create checks.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeID)
	if err != nil {
		return false, fmt.Errorf("UserRepository.EmailTaken: %w", err)
	}
	return count > 0, nil
}

// Create inserts a user after an explicit email uniqueness pre-check,
// returning ErrDuplicate on collision.
func (r *UserRepository) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	taken, err := r.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicate
	}

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.Status == "" {
		in.Status = models.UserActive
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Phone, in.Role, in.Status, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update overwrites the user's fields. The email pre-check excludes the
// row itself so a user can keep their current address. Returns
// ErrDuplicate on collision and ErrNotFound for a missing row.
func (r *UserRepository) Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	taken, err := r.EmailTaken(ctx, in.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicate
	}

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.Status == "" {
		in.Status = models.UserActive
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, phone = ?, role = ?, status = ?
		WHERE id = ?`,
		in.Name, in.Email, in.Phone, in.Role, in.Status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Update: %w", err)
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

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("UserRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin refreshes the user's last_login timestamp. Best-effort
// side effect of admin validation; errors are returned for the caller to
// log, not to fail the request.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
