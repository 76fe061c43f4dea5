package model

// UserRole represents the role of a user within a tenant.
type UserRole string

const (
	// RoleAdmin manages the users of its own company.
	RoleAdmin UserRole = "admin"
	// RoleUser is a regular company member.
	RoleUser UserRole = "usuario"
	// RoleMaster is reserved for the synthetic master identity.
	RoleMaster UserRole = "master"
)

// UserStatus is the activation status of a user or company.
type UserStatus string

const (
	StatusActive   UserStatus = "ativo"
	StatusInactive UserStatus = "inativo"
)

// Toggle returns the opposite status.
func (s UserStatus) Toggle() UserStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// ParseRole validates a tenant role string.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// User is a tenant user as returned by the backend.
type User struct {
	ID        string     `json:"id"`
	CompanyID *string    `json:"empresa_id,omitempty"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Phone     string     `json:"telefone,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
	LastLogin string     `json:"last_login,omitempty"`
}

// IsAdmin returns true if the user has the tenant admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Name      string   `json:"nome"`
	Email     string   `json:"email"`
	Password  string   `json:"password,omitempty"`
	CompanyID string   `json:"empresa_id"`
	Role      UserRole `json:"role"`
	Phone     string   `json:"telefone,omitempty"`
}

// Validate checks the fields the backend requires.
func (r *CreateUserRequest) Validate() error {
	var details []FieldError
	if r.Name == "" {
		details = append(details, FieldError{Field: "nome", Message: "required"})
	}
	if r.Email == "" {
		details = append(details, FieldError{Field: "email", Message: "required"})
	}
	if r.CompanyID == "" {
		details = append(details, FieldError{Field: "empresa_id", Message: "required"})
	}
	if _, ok := ParseRole(string(r.Role)); !ok {
		details = append(details, FieldError{Field: "role", Message: "must be admin or usuario"})
	}
	if len(details) > 0 {
		return NewValidationError("invalid user", details...)
	}
	return nil
}

// UpdateUserRequest is the payload for editing a user. Empty fields are omitted.
type UpdateUserRequest struct {
	Name     string   `json:"nome,omitempty"`
	Email    string   `json:"email,omitempty"`
	Role     UserRole `json:"role,omitempty"`
	Phone    string   `json:"telefone,omitempty"`
	Password string   `json:"password,omitempty"`
}
