package records

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPoints = errors.New("missing points")
	ErrMissingBounds = errors.New("missing declared level bounds")
	ErrMissingLevel  = errors.New("missing level key")
	ErrNonFinite     = errors.New("non-finite coordinate")
	ErrInvalidJSON   = errors.New("invalid json")
)

// MalformedRecordError reports a record that cannot be rendered
type MalformedRecordError struct {
	Ref string
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: %v", e.Ref, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func malformed(ref string, err error) error {
	return &MalformedRecordError{Ref: ref, Err: err}
}
