package models

// Admin is the back-office login identity, separate from the User records
// managed through the admin panel.
type Admin struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"-"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	LastLogin *int64 `db:"last_login" json:"last_login"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
