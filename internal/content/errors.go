package content

import "github.com/pkg/errors"

// Sentinel errors for the content domain. Handlers and resolvers match on
// these with errors.Is; everything else is treated as a server-side fault.
var (
	// ErrInvalidToken indicates a bearer token that failed signature or
	// structural verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound indicates a verified token whose subject no longer
	// resolves to a stored user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates a protected operation invoked without a
	// resolved identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrConflict indicates a store uniqueness violation.
	ErrConflict = errors.New("resource already exists")

	// ErrCategoryNotFound indicates an article referencing a category id
	// that does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)
