package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNoHistory is returned when a user has no stored days.
	ErrNoHistory = constError("no footprint history")

	// ErrNoStore is returned by operations that need a history store.
	ErrNoStore = constError("history store not configured")
)
