package model

import "time"

// Company is a tenant company as returned by the backend.
type Company struct {
	ID         string     `json:"id"`
	Name       string     `json:"nome"`
	Document   string     `json:"documento"`
	Email      string     `json:"email"`
	Phone      string     `json:"telefone,omitempty"`
	Status     UserStatus `json:"status"`
	CreatedAt  *time.Time `json:"data_cadastro,omitempty"`
	TotalUsers int        `json:"total_usuarios,omitempty"`
}

// IsActive reports whether the company is active.
func (c *Company) IsActive() bool {
	return c.Status == StatusActive
}

// CompanySummary is the company attached to a login response.
type CompanySummary struct {
	ID     string     `json:"id"`
	Name   string     `json:"nome"`
	Status UserStatus `json:"status,omitempty"`
}

// CreateCompanyRequest creates a company together with its initial admin.
type CreateCompanyRequest struct {
	Name          string `json:"nome"`
	Document      string `json:"documento"`
	Email         string `json:"email"`
	Phone         string `json:"telefone,omitempty"`
	AdminName     string `json:"admin_nome"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"password"`
	AdminPhone    string `json:"admin_telefone,omitempty"`
}

// Validate checks the fields the backend requires.
func (r *CreateCompanyRequest) Validate() error {
	var details []FieldError
	required := []struct{ field, value string }{
		{"nome", r.Name},
		{"documento", r.Document},
		{"email", r.Email},
		{"admin_nome", r.AdminName},
		{"admin_email", r.AdminEmail},
		{"password", r.AdminPassword},
	}
	for _, f := range required {
		if f.value == "" {
			details = append(details, FieldError{Field: f.field, Message: "required"})
		}
	}
	if len(details) > 0 {
		return NewValidationError("invalid company", details...)
	}
	return nil
}

// CreateCompanyResponse is returned after a company is provisioned.
type CreateCompanyResponse struct {
	CompanyID  string `json:"empresaId"`
	Name       string `json:"nome"`
	Document   string `json:"documento"`
	Email      string `json:"email"`
	AdminEmail string `json:"adminEmail"`
	Message    string `json:"message"`
}

// UpdateCompanyRequest edits the registration data of a company.
type UpdateCompanyRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Document string `json:"documento"`
	Phone    string `json:"telefone,omitempty"`
}

// Validate checks the fields the backend requires.
func (r *UpdateCompanyRequest) Validate() error {
	var details []FieldError
	if r.Name == "" {
		details = append(details, FieldError{Field: "nome", Message: "required"})
	}
	if r.Email == "" {
		details = append(details, FieldError{Field: "email", Message: "required"})
	}
	if r.Document == "" {
		details = append(details, FieldError{Field: "documento", Message: "required"})
	}
	if len(details) > 0 {
		return NewValidationError("invalid company", details...)
	}
	return nil
}
