package config

import (
	"time"

	"RealEstateAPI/utils"

	"github.com/jmoiron/sqlx"
)

// Seed inserts the default admin account, site settings and demo
// properties when their tables are empty. Safe to call on every start.
func Seed(db *sqlx.DB) error {
	now := time.Now().Unix()

	var admins int
	if err := db.Get(&admins, `SELECT COUNT(*) FROM admins`); err != nil {
		return err
	}
	if admins == 0 {
		hash, err := utils.HashPassword("admin123")
		if err != nil {
			return err
		}
		_, err = db.Exec(
			`INSERT INTO admins (username, password, created_at) VALUES (?, ?, ?)`,
			"admin", hash, now,
		)
		if err != nil {
			return err
		}
	}

	var users int
	if err := db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if users == 0 {
		// Mirrors the default admin account so role re-checks on admin
		// routes resolve against the users table.
		_, err := db.Exec(
			`INSERT INTO users (name, email, role, status, created_at) VALUES (?, ?, 'admin', 'active', ?)`,
			"Administrator", "admin@modernestate.com", now,
		)
		if err != nil {
			return err
		}
	}

	var settings int
	if err := db.Get(&settings, `SELECT COUNT(*) FROM settings`); err != nil {
		return err
	}
	if settings == 0 {
		defaults := []struct {
			key, value, category, description string
		}{
			{"site_name", "Modern Real Estate", "general", "Website name"},
			{"contact_email", "contact@modernestate.com", "contact", "Primary contact email"},
			{"contact_phone", "+1234567890", "contact", "Primary contact phone"},
		}
		for _, s := range defaults {
			_, err := db.Exec(
				`INSERT INTO settings (key, value, category, description, updated_at) VALUES (?, ?, ?, ?, ?)`,
				s.key, s.value, s.category, s.description, now,
			)
			if err != nil {
				return err
			}
		}
	}

	var properties int
	if err := db.Get(&properties, `SELECT COUNT(*) FROM properties`); err != nil {
		return err
	}
	if properties == 0 {
		demo := []struct {
			ptype, listing, name, location, subtype string
			price, surface                          float64
			construction                            *float64
			description                             string
			technicalSheet                          *string
		}{
			{
				"industrial", "sale", "Nave Industrial Moderna", "Parque Industrial Norte",
				"warehouse", 2500000, 5000, f64(4500),
				"Moderna nave industrial con excelente ubicacion",
				str("Altura: 12m, Andenes: 4, Oficinas: 500m2"),
			},
			{
				"commercial", "rent", "Local Comercial Centro", "Av. Principal 123",
				"retail", 25000, 150, f64(150),
				"Local comercial en ubicacion privilegiada", nil,
			},
			{
				"residential", "sale", "Casa Moderna Valle Real", "Valle Real 456",
				"house", 850000, 300, f64(250),
				"Hermosa casa moderna con acabados de lujo", nil,
			},
		}
		for _, p := range demo {
			_, err := db.Exec(
				`INSERT INTO properties
					(type, listing_type, name, location, property_type, price, surface,
					 construction, description, technical_sheet, latitude, longitude,
					 status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)`,
				p.ptype, p.listing, p.name, p.location, p.subtype, p.price, p.surface,
				p.construction, p.description, p.technicalSheet, 19.4326, -99.1332,
				now, now,
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
