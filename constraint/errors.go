package constraint

import "errors"

// ErrUnknownConstraint indicates that no built-in constraint has the requested name.
var ErrUnknownConstraint = errors.New("unknown constraint")
