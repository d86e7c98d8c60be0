// Package shared holds the accounting error vocabulary. Every sentinel wraps
// one of the three core kinds so collaborators can map with errors.Is.
package shared

import (
	"fmt"

	core "github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrUnbalanced indicates total debit != total credit.
	ErrUnbalanced = fmt.Errorf("%w: entry must be balanced to post", core.ErrValidation)
	// ErrAccountNotFound indicates a missing account in the tenant scope.
	ErrAccountNotFound = fmt.Errorf("%w: account", core.ErrNotFound)
	// ErrParentNotFound indicates the referenced parent account is missing.
	ErrParentNotFound = fmt.Errorf("%w: parent account", core.ErrNotFound)
	// ErrCodeTaken indicates the (company, code) pair already exists.
	ErrCodeTaken = fmt.Errorf("%w: account code already exists", core.ErrConflict)
	// ErrInvalidAccountType rejects a type outside the five account kinds.
	ErrInvalidAccountType = fmt.Errorf("%w: invalid account type", core.ErrValidation)
	// ErrParentTypeMismatch indicates parent and child types differ.
	ErrParentTypeMismatch = fmt.Errorf("%w: parent account must be of the same type", core.ErrConflict)
	// ErrHasChildren blocks deletion of an account with sub-accounts.
	ErrHasChildren = fmt.Errorf("%w: cannot delete account with sub-accounts", core.ErrConflict)
	// ErrJournalNotFound indicates a missing journal entry in the tenant scope.
	ErrJournalNotFound = fmt.Errorf("%w: journal entry", core.ErrNotFound)
	// ErrPostingAccountsMissing indicates a posting account the workflow
	// requires (AR, Sales, or Tax Payable on a taxed invoice) is absent.
	ErrPostingAccountsMissing = fmt.Errorf("%w: required accounts not found", core.ErrValidation)
)
