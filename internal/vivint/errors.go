package vivint

import "errors"

// Common errors
var (
	// ErrUnsupportedCapability is returned by command methods when the
	// panel's negotiated capability set does not include the operation.
	// The check happens before any network call.
	ErrUnsupportedCapability = errors.New("capability not supported by panel")

	ErrSystemNotFound = errors.New("system not found")
	ErrDeviceNotFound = errors.New("device not found")
	ErrInvalidLevel   = errors.New("level must be between 0 and 100")
	ErrNotMultilevel  = errors.New("switch is not multilevel")
	ErrNotAdmin       = errors.New("user is not an admin of this system")
)
