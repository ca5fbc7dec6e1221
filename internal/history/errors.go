package history

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = constError("not found")

	// ErrSchemaVersion is returned when the database was written by an
	// incompatible schema version.
	ErrSchemaVersion = constError("incompatible database schema version")

	// ErrInvalidUser is returned for a user without a name.
	ErrInvalidUser = constError("user name is required")
)
