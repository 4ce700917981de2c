package service

// ValidationError is a user-correctable input problem. Handlers report it
// in-line on the originating form with the entered values preserved.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
