package models

// ContactRequest is a visitor inquiry. It is forwarded by email and never
// persisted.
type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
	Message  string `json:"message"`
}
