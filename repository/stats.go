package repository

import (
	"context"
	"fmt"
	"time"

	"RealEstateAPI/models"

	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	DB *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// priceBuckets is the fixed histogram used by the dashboard. The upper
// bound of the last bucket is open-ended.
var priceBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{"0-100k", 0, 100000},
	{"100k-200k", 100000, 200000},
	{"200k-300k", 200000, 300000},
	{"300k-500k", 300000, 500000},
	{"500k+", 500000, 0},
}

// Aggregate builds the full dashboard report from the properties table.
func (r *StatsRepository) Aggregate(ctx context.Context) (*models.StatsReport, error) {
	report := &models.StatsReport{
		PropertiesByType:   []models.TypeCount{},
		PropertiesByStatus: []models.StatusCount{},
		RecentActivity:     []models.ActivityEntry{},
		MonthlyStats:       []models.MonthlyStat{},
		PriceRanges:        []models.PriceRangeStat{},
		TopAreas:           []models.AreaStat{},
	}

	var totals struct {
		Total  int64   `db:"total"`
		Active int64   `db:"active"`
		Sold   int64   `db:"sold"`
		Value  float64 `db:"value"`
		Avg    float64 `db:"avg"`
	}
	err := r.DB.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active,
		       COALESCE(SUM(CASE WHEN status IN ('sold', 'rented') THEN 1 ELSE 0 END), 0) AS sold,
		       COALESCE(SUM(price), 0) AS value,
		       COALESCE(AVG(price), 0) AS avg
		FROM properties`)
	if err != nil {
		return nil, fmt.Errorf("StatsRepository.Aggregate totals: %w", err)
	}
	report.TotalProperties = totals.Total
	report.ActiveProperties = totals.Active
	report.SoldProperties = totals.Sold
	report.TotalValue = totals.Value
	report.AveragePrice = totals.Avg

	err = r.DB.SelectContext(ctx, &report.PropertiesByType, `
		SELECT property_type AS type, COUNT(*) AS count
		FROM properties GROUP BY property_type ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("StatsRepository.Aggregate by type: %w", err)
	}

	err = r.DB.SelectContext(ctx, &report.PropertiesByStatus, `
		SELECT status, COUNT(*) AS count
		FROM properties GROUP BY status ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("StatsRepository.Aggregate by status: %w", err)
	}

	if err := r.monthlyStats(ctx, report); err != nil {
		return nil, err
	}
	if err := r.priceRanges(ctx, report); err != nil {
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &report.TopAreas, `
		SELECT location AS area, COUNT(*) AS count, COALESCE(SUM(price), 0) AS value
		FROM properties GROUP BY location ORDER BY count DESC, value DESC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("StatsRepository.Aggregate top areas: %w", err)
	}

	if err := r.recentActivity(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// monthlyStats builds a six-month sales-versus-listings trend. Listings
// count new rows by created_at; sales count sold or rented rows by
// updated_at, the closest available marker for when the deal closed.
func (r *StatsRepository) monthlyStats(ctx context.Context, report *models.StatsReport) error {
	type monthCount struct {
		Month string `db:"month"`
		Count int64  `db:"count"`
	}

	var listings []monthCount
	err := r.DB.SelectContext(ctx, &listings, `
		SELECT strftime('%Y-%m', created_at, 'unixepoch') AS month, COUNT(*) AS count
		FROM properties GROUP BY month`)
	if err != nil {
		return fmt.Errorf("StatsRepository.monthlyStats listings: %w", err)
	}

	var sales []monthCount
	err = r.DB.SelectContext(ctx, &sales, `
		SELECT strftime('%Y-%m', updated_at, 'unixepoch') AS month, COUNT(*) AS count
		FROM properties WHERE status IN ('sold', 'rented') GROUP BY month`)
	if err != nil {
		return fmt.Errorf("StatsRepository.monthlyStats sales: %w", err)
	}

	listingsByMonth := make(map[string]int64, len(listings))
	for _, m := range listings {
		listingsByMonth[m.Month] = m.Count
	}
	salesByMonth := make(map[string]int64, len(sales))
	for _, m := range sales {
		salesByMonth[m.Month] = m.Count
	}

	now := time.Now().UTC()
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		key := month.Format("2006-01")
		report.MonthlyStats = append(report.MonthlyStats, models.MonthlyStat{
			Month:    month.Format("Jan"),
			Sales:    salesByMonth[key],
			Listings: listingsByMonth[key],
		})
	}
	return nil
}

func (r *StatsRepository) priceRanges(ctx context.Context, report *models.StatsReport) error {
	for _, b := range priceBuckets {
		query := `SELECT COUNT(*) FROM properties WHERE price >= ?`
		args := []interface{}{b.min}
		if b.max > 0 {
			query += ` AND price < ?`
			args = append(args, b.max)
		}

		var count int64
		if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
			return fmt.Errorf("StatsRepository.priceRanges: %w", err)
		}
		report.PriceRanges = append(report.PriceRanges, models.PriceRangeStat{
			Range: b.label,
			Count: count,
		})
	}
	return nil
}

func (r *StatsRepository) recentActivity(ctx context.Context, report *models.StatsReport) error {
	var rows []struct {
		Name      string `db:"name"`
		Status    string `db:"status"`
		UpdatedAt int64  `db:"updated_at"`
	}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT name, status, updated_at
		FROM properties ORDER BY updated_at DESC, id DESC LIMIT 5`)
	if err != nil {
		return fmt.Errorf("StatsRepository.recentActivity: %w", err)
	}

	actions := map[string]string{
		models.StatusActive:   "Activated",
		models.StatusInactive: "Deactivated",
		models.StatusSold:     "Sold",
		models.StatusRented:   "Rented",
	}
	for _, row := range rows {
		action, ok := actions[row.Status]
		if !ok {
			action = "Updated"
		}
		report.RecentActivity = append(report.RecentActivity, models.ActivityEntry{
			Date:     time.Unix(row.UpdatedAt, 0).UTC().Format(time.RFC3339),
			Property: row.Name,
			Action:   action,
		})
	}
	return nil
}
