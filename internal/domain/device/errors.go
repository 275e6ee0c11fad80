package device

import "errors"

var (
	// ErrDeviceNotFound indicates missing device for the calling user.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDeviceInvalid means device form payload failed validation.
	ErrDeviceInvalid = errors.New("device invalid")
	// ErrActivityInvalid means an activity signal could not be accepted.
	ErrActivityInvalid = errors.New("activity invalid")
)
