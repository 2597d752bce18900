package tuning

import (
	"fmt"

	"go.uber.org/multierr"
)

// ConfigParseError reports a parameter file that could not be read, decoded or validated
// The store keeps serving the previous snapshot when it returns one
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parameter file %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// Problems lists the individual causes aggregated in the error
func (e *ConfigParseError) Problems() []error {
	return multierr.Errors(e.Err)
}
