package shift

import "errors"

var (
	ErrInvalidID       = errors.New("shift: invalid id")
	ErrMissingTime     = errors.New("shift: start and end are required")
	ErrStartAfterEnd   = errors.New("shift: start must not be after end")
	ErrMultiDay        = errors.New("shift: start and end must be on the same day")
	ErrShiftNotFound   = errors.New("shift: not found")
	ErrAlreadyAssigned = errors.New("shift: already assigned to an employee")
	ErrOverlap         = errors.New("shift: employee already has an overlapping shift")
)
