package record

import "errors"

// Sentinel errors for normalization and validation failures. Callers are
// expected to skip the offending row and continue; none of these abort a
// batch. Use errors.Is to classify.
var (
	ErrUnknownCourse  = errors.New("unknown course")
	ErrUnknownGender  = errors.New("unknown gender")
	ErrUnparsableTime = errors.New("unparsable time")
	ErrInvalidRecord  = errors.New("invalid record")
)
