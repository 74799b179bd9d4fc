package backpressure

import "errors"

// ErrInvalidDemand is returned by Validate when requested demand is zero or
// negative.
var ErrInvalidDemand = errors.New("requested demand must be positive")
