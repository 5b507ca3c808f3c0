package coach

import "errors"

// ErrInvalidInput rejects a whole engine call before any computation runs:
// a non-positive timeframe, a record with no participants, or an unknown
// interaction action. Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
