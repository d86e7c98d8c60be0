package company

import (
	"fmt"

	core "github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrCompanyExists indicates a company with the same slug or email is registered.
	ErrCompanyExists = fmt.Errorf("%w: company already exists", core.ErrConflict)
	// ErrEmailTaken indicates the user email is already registered.
	ErrEmailTaken = fmt.Errorf("%w: user email already exists", core.ErrConflict)
)
