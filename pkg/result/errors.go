package result

import "errors"

// ErrFrozen is returned when a finished result is modified.
var ErrFrozen = errors.New("result is frozen")
