package repository

import "errors"

// Sentinel errors returned by every backend. Services compare against these
// instead of driver errors so SQLite and Postgres behave the same upstream.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrStaleRevision = errors.New("live state revision is stale")
	ErrInvalidTable  = errors.New("table is not resettable")
)
