package predictor

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by training and inference.
var (
	// ErrEmptyDataset is returned when Train receives zero samples.
	ErrEmptyDataset = constError("dataset has no samples")

	// ErrNotTrained is returned when a bundle is missing its encoders,
	// scaler, feature list or models.
	ErrNotTrained = constError("model bundle is not trained")

	// ErrUnknownVariant is returned for a variant the bundle never trained.
	ErrUnknownVariant = constError("unknown model variant")

	// ErrUnseenCategory is returned for a categorical value outside the
	// training-time domain.
	ErrUnseenCategory = constError("unseen category value")
)

// UnseenCategoryError reports which categorical field held an unknown value.
type UnseenCategoryError struct {
	Field string
	Value string
	Known []string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("%s: %s=%q (known: %v)", ErrUnseenCategory, e.Field, e.Value, e.Known)
}

// Unwrap allows errors.Is(err, ErrUnseenCategory).
func (e *UnseenCategoryError) Unwrap() error { return ErrUnseenCategory }

func unknownVariant(v Variant) error {
	return fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}
