package knowledge

import "errors"

// ErrStorageUnavailable indicates the backing store is unreachable or a
// write failed. It aborts the query; callers check with errors.Is().
var ErrStorageUnavailable = errors.New("knowledge storage unavailable")
