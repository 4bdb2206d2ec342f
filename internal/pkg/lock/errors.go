package lock

import "errors"

// ErrLockTimeout is returned when a lock cannot be acquired within the timeout.
var ErrLockTimeout = errors.New("timed out waiting for user lock")
