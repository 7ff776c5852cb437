package user

type Role string

const (
	RoleAdmin      Role = "admin"      // Full access
	RoleHR         Role = "hr"         // Maintains employees and runs payroll
	RoleAccountant Role = "accountant" // Approves and pays salaries
	RoleViewer     Role = "viewer"     // Read only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}
