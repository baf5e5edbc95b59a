package entities

// Profile roles
const (
	RoleAdmin   = "admin"
	RoleAgent   = "agent"
	RoleCitizen = "citizen"
)

// Profile is the application-side record attached to an authenticated user.
type Profile struct {
	ID       string `json:"id" db:"id"`
	Role     string `json:"role" db:"role"`
	IsActive bool   `json:"is_active" db:"is_active"`
	FullName string `json:"full_name,omitempty" db:"full_name"`
}
