package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable marks a temporary condition the caller may retry, such as a
// lock that stayed contended past its wait budget.
var ErrUnavailable = errors.New("service temporarily unavailable")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an id that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError blocks a safe category delete. The counts let the caller
// offer a forced retry.
type ConflictError struct {
	ItemsCount         int
	SubcategoriesCount int
}

func (e *ConflictError) Error() string {
	switch {
	case e.ItemsCount > 0 && e.SubcategoriesCount > 0:
		return fmt.Sprintf("cannot delete category with %d menu items and %d subcategories", e.ItemsCount, e.SubcategoriesCount)
	case e.SubcategoriesCount > 0:
		return fmt.Sprintf("cannot delete category with %d subcategories", e.SubcategoriesCount)
	default:
		return fmt.Sprintf("cannot delete category with %d menu items", e.ItemsCount)
	}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func AsConflict(err error) (*ConflictError, bool) {
	var c *ConflictError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// HTTPStatus maps a domain error to a response code. Anything unknown is internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	}
	if _, ok := AsConflict(err); ok {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
