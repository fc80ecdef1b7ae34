package model

// User represents an account that can report items and submit claims.
// Users are seeded from fixtures and never deleted; only the display
// name and avatar are mutable (via profile update).
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	AvatarURL  string `json:"avatarUrl"`
	AvatarHint string `json:"avatarHint,omitempty"`
}

// Roles.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:   3,
		RoleStaff:   2,
		RoleStudent: 1,
	}
	return levels[role] >= levels[minimum]
}
