package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserActive   = "active"
	UserInactive = "inactive"
)

type User struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Email     string  `db:"email" json:"email"`
	Phone     *string `db:"phone" json:"phone"`
	Role      string  `db:"role" json:"role"`
	Status    string  `db:"status" json:"status"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
	LastLogin *int64  `db:"last_login" json:"last_login"`
}

type UserInput struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
}

// UserPatch is the update payload. Fields left out of the request stay
// nil and keep their stored value, so dropping role from a patch never
// strips an admin.
type UserPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// Apply overwrites in with the patch's supplied fields.
func (patch *UserPatch) Apply(in *UserInput) {
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Email != nil {
		in.Email = *patch.Email
	}
	if patch.Phone != nil {
		in.Phone = patch.Phone
	}
	if patch.Role != nil {
		in.Role = *patch.Role
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
}

// Input converts a stored row back into a write payload, the base the
// patch is merged over.
func (u *User) Input() UserInput {
	return UserInput{
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
		Status: u.Status,
	}
}
