package price

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbol — символ корректен по форме, но не зарегистрирован.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ValidationError — невалидное поле запроса set-price.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
