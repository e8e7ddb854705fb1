package mastering

import "errors"

// Sentinel errors for the failure kinds a run can surface. Stage failures
// are fatal to the run: no retry, no partial output.
var (
	// ErrInvalidInput covers empty buffers, ragged channel rows, and
	// non-finite samples. Checked before any stage runs.
	ErrInvalidInput = errors.New("invalid input signal")

	// ErrNumericOverflow is returned when a stage produces non-finite
	// samples. The run aborts rather than silently replacing them.
	ErrNumericOverflow = errors.New("numeric overflow during processing")
)
