package models

// Setting is a key-value site configuration row. Settings are created by
// seeding only; the API exposes bulk read and per-key value updates.
type Setting struct {
	ID          int64   `db:"id" json:"id"`
	Key         string  `db:"key" json:"key"`
	Value       string  `db:"value" json:"value"`
	Category    string  `db:"category" json:"category"`
	Description *string `db:"description" json:"description"`
	UpdatedAt   int64   `db:"updated_at" json:"updated_at"`
}

type UpdateSettingRequest struct {
	Value string `json:"value"`
}
