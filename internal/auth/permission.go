// internal/auth/permission.go
package auth

// Permission is a named capability that the session layer can be asked about.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Names of the seeded permissions. Members hold all four; administrators
// are implicitly granted everything.
const (
	PermViewOwnLoans = "VIEW_OWN_LOANS"
	PermViewAllBooks = "VIEW_ALL_BOOKS"
	PermLoanBooks    = "LOAN_BOOKS"
	PermReturnBooks  = "RETURN_BOOKS"
)

// PermissionRegistry holds the named permissions known to the system and
// the set granted to Member-role accounts.
type PermissionRegistry struct {
	permissions  []Permission
	memberGrants map[string]bool
}

// NewPermissionRegistry seeds the default permission set.
func NewPermissionRegistry() *PermissionRegistry {
	permissions := []Permission{
		{ID: "0", Name: PermViewOwnLoans, Description: "Allows members to view their own loan history."},
		{ID: "1", Name: PermViewAllBooks, Description: "Allows members to view all books in the library."},
		{ID: "2", Name: PermLoanBooks, Description: "Allows members to loan books from the library."},
		{ID: "3", Name: PermReturnBooks, Description: "Allows members to return loaned books to the library."},
	}

	grants := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		grants[p.Name] = true
	}

	return &PermissionRegistry{permissions: permissions, memberGrants: grants}
}

// MemberHolds reports whether Member-role accounts hold the named permission.
func (r *PermissionRegistry) MemberHolds(name string) bool {
	return r.memberGrants[name]
}

// All returns the registered permissions.
func (r *PermissionRegistry) All() []Permission {
	out := make([]Permission, len(r.permissions))
	copy(out, r.permissions)
	return out
}
