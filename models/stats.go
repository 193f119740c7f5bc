package models

// StatsReport is the aggregate dashboard payload, computed from the live
// properties table. JSON keys match what the admin dashboard expects.
type StatsReport struct {
	TotalProperties    int64            `json:"totalProperties"`
	ActiveProperties   int64            `json:"activeProperties"`
	SoldProperties     int64            `json:"soldProperties"`
	TotalValue         float64          `json:"totalValue"`
	AveragePrice       float64          `json:"averagePrice"`
	PropertiesByType   []TypeCount      `json:"propertiesByType"`
	PropertiesByStatus []StatusCount    `json:"propertiesByStatus"`
	RecentActivity     []ActivityEntry  `json:"recentActivity"`
	MonthlyStats       []MonthlyStat    `json:"monthlyStats"`
	PriceRanges        []PriceRangeStat `json:"priceRanges"`
	TopAreas           []AreaStat       `json:"topAreas"`
}

type TypeCount struct {
	Type  string `db:"type" json:"type"`
	Count int64  `db:"count" json:"count"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

type ActivityEntry struct {
	Date     string `json:"date"`
	Property string `json:"property"`
	Action   string `json:"action"`
}

type MonthlyStat struct {
	Month    string `json:"month"`
	Sales    int64  `json:"sales"`
	Listings int64  `json:"listings"`
}

type PriceRangeStat struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type AreaStat struct {
	Area  string  `db:"area" json:"area"`
	Count int64   `db:"count" json:"count"`
	Value float64 `db:"value" json:"value"`
}
