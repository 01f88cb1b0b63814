package reminder

import "errors"

// ErrPermissionDenied is returned by a Center that is not allowed to post notifications.
var ErrPermissionDenied = errors.New("notification permission denied")
