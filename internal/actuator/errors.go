package actuator

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by every validation failure returned from New.
var ErrInvalidParams = errors.New("actuator: invalid parameters")

// ParamError names the offending field of a rejected parameter set.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("actuator: %s = %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
