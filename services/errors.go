package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingConfiguration = errors.New("google sheets credentials are not fully configured")
	ErrStudentNotFound      = errors.New("student not found")
	ErrInvalidCPF           = errors.New("cpf required")
	ErrUnauthenticated      = errors.New("unauthenticated")
)

// BlockedError means the student's status forbids issuing a declaration.
type BlockedError struct {
	Status string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("declaration blocked for status %q", e.Status)
}

// ConfirmationRequiredError means the status only allows issuance after the
// caller re-submits with force set.
type ConfirmationRequiredError struct {
	Status string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("declaration for status %q requires confirmation", e.Status)
}
