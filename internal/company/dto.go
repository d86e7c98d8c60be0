package company

// RegisterRequest carries the tenant registration payload.
type RegisterRequest struct {
	CompanyName  string `json:"company_name" validate:"required,min=2,max=120"`
	CompanyEmail string `json:"company_email" validate:"required,email"`
	Name         string `json:"name" validate:"required,min=1,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after registration or login.
type AuthResponse struct {
	User    User    `json:"user"`
	Company Company `json:"company"`
}
