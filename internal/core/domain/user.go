package domain

// Role distinguishes administrators from shoppers.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Status marks an account as enabled or disabled. Accounts are never deleted.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Default administrator seeded into an empty directory.
const (
	DefaultAdminEmail    = "admin@local.com"
	DefaultAdminPassword = "Admin123!"
)

// User is the identity and credential record kept in the directory.
// Email is the only stable identifier and never changes after creation.
type User struct {
	FullName  string  `json:"fullName"`
	Handle    string  `json:"handle"`
	Email     string  `json:"email"`
	BirthDate string  `json:"birthDate"`
	Address   *string `json:"address,omitempty"`
	Password  string  `json:"password"`
	Role      Role    `json:"role"`
	Status    Status  `json:"status,omitempty"`
}

// IsActive reports whether the account is enabled. A missing status counts as active.
func (u User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}

// Clone returns a deep copy so snapshots never share the Address pointer.
func (u User) Clone() User {
	if u.Address != nil {
		addr := *u.Address
		u.Address = &addr
	}
	return u
}

// DefaultAdmin returns the canonical administrator record with the given stored password.
func DefaultAdmin(password string) User {
	empty := ""
	return User{
		FullName:  "Administrador",
		Handle:    "admin",
		Email:     DefaultAdminEmail,
		BirthDate: "1990-01-01",
		Address:   &empty,
		Password:  password,
		Role:      RoleAdmin,
		Status:    StatusActive,
	}
}

// StringPtr is a helper for building optional fields.
func StringPtr(s string) *string {
	return &s
}
