// internal/users/domain.go
package users

// Role tags an account with its capability level. Role-driven behavior is
// expressed through predicates over this tag, not subtyping.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleMember        Role = "MEMBER"
)

// User represents a library account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // opaque, stored and compared verbatim
	Role     Role   `json:"role"`
}
