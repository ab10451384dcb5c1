package api

import "errors"

// ErrBadRequest marks an announcement body that is not valid JSON. It is only
// reported to callers allowed to post, after the role check has passed.
var ErrBadRequest = errors.New("bad request")
