package models

// UserType distinguishes players from court owners.
type UserType string

const (
	UserTypeUser       UserType = "USER"
	UserTypeHouseOwner UserType = "HOUSE_OWNER"
)

// User is the session profile returned by GET /auth/me. It is held in
// memory only.
type User struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	UserType  UserType `json:"userType"`
}

// IsOwner reports whether the user manages courts.
func (u *User) IsOwner() bool {
	return u != nil && u.UserType == UserTypeHouseOwner
}

// DisplayName prefers Name and falls back to "First Last", then Email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	full := u.FirstName
	if u.LastName != "" {
		if full != "" {
			full += " "
		}
		full += u.LastName
	}
	if full != "" {
		return full
	}
	return u.Email
}
