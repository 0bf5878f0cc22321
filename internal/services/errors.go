package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("name already exists")
	ErrParentNotFound = errors.New("parent folder not found")
	ErrInvalidMove    = errors.New("cannot move a folder into itself or its descendants")
	ErrValidation     = errors.New("validation failed")
)

// DuplicateNameError is returned when a live sibling folder already uses the
// requested name.
type DuplicateNameError struct {
	Parent     string
	Name       string
	ExistingID string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a folder named %q already exists in %s", e.Name, e.Parent)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
