package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState is returned when a document is not in a state that
	// allows the requested transition
	ErrInvalidState = errors.New("invalid document state for this operation")

	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("invalid input")

	// ErrNumberConflict is returned when a document number is already taken
	// within its company and document type
	ErrNumberConflict = errors.New("document number already in use")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrScopeOfWorkNotFound is returned when a scope of work is not found
	ErrScopeOfWorkNotFound = errors.New("scope of work not found")

	// ErrWorkBreakdownNotFound is returned when a work breakdown plan is not found
	ErrWorkBreakdownNotFound = errors.New("work breakdown plan not found")

	// ErrInvoiceNotFound is returned when an invoice or quotation is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrCompanyNotFound is returned when a company is not found
	ErrCompanyNotFound = errors.New("company not found")

	// ErrFileNotFound is returned when a file is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrWBPNotDraft is returned when a quotation is requested from a work
	// breakdown that has already been approved
	ErrWBPNotDraft = errors.New("work breakdown plan is no longer in draft")

	// ErrQuoteAlreadyAccepted is returned on a second attempt to convert an
	// accepted quotation into an invoice
	ErrQuoteAlreadyAccepted = errors.New("quotation has already been accepted")

	// ErrInvoiceNotEditable is returned when line items are changed on a
	// document that is past editing
	ErrInvoiceNotEditable = errors.New("invoice is no longer editable")

	// ErrPricingUnavailable is returned when the pricing warehouse is not
	// configured or cannot be reached
	ErrPricingUnavailable = errors.New("pricing warehouse unavailable")
)
