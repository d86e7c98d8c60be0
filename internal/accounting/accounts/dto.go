package accounts

import "github.com/google/uuid"

// CreateAccountRequest carries the fields needed to create an account.
type CreateAccountRequest struct {
	Code     string      `json:"code" validate:"required,max=20"`
	Name     string      `json:"name" validate:"required,max=120"`
	Type     AccountType `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentID *uuid.UUID  `json:"parent_id,omitempty"`
}

// UpdateAccountRequest patches name and active flag only. Code and type are
// immutable after creation.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	IsActive *bool   `json:"is_active,omitempty"`
}
