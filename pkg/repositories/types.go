package repositories

// ErrNotFound reports that no checkpoint matched the query, such as
// loading the latest snapshot from an empty store.
type ErrNotFound struct{}

func (e *ErrNotFound) Error() string {
	return "not found"
}

// IsNotFound returns true if err is an ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
