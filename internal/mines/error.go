package mines

import (
	"errors"
	"fmt"
)

var ErrBadParams = errors.New("bad game params")

type ParamsError struct {
	Params GameParams
	reason string
}

// [ParamsError] implements [error]
func (e *ParamsError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrBadParams, e.Params.Seed(), e.reason)
}

func (e *ParamsError) Unwrap() error {
	return ErrBadParams
}
