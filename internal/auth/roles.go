package auth

// Role is the access tier attached to a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// CanManageRecords reports whether the role may mutate departments,
// employees, payroll and attendance.
func (r Role) CanManageRecords() bool {
	switch r {
	case RoleAdmin, RoleHR:
		return true
	case RoleEmployee:
		return false
	}
	return false
}

// CanManageUsers reports whether the role may administer user accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}
