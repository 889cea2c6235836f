package service

// The domain functions fail with one of five distinguishable error kinds.
// Handlers match them with errors.As and render the message inline on the
// originating view.

// ValidationError reports missing or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a duplicate dessert name or a taken username.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthorizationError reports a mutation attempt by a non-owner.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// AuthenticationError reports bad login credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
