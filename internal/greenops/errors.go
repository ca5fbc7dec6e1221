package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidUnit is returned for a unit NormalizeToKg does not know.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue is returned for negative emissions.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow is returned for Inf or NaN inputs and results.
	ErrCalculationOverflow = constError("calculation overflow")
)
