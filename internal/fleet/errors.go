// internal/fleet/errors.go
package fleet

// RemoteStoreError wraps any failure returned by the remote record store.
// Error returns the backend message verbatim.
type RemoteStoreError struct {
	Op  string
	Err error
}

func (e *RemoteStoreError) Error() string {
	if e.Err == nil {
		return "remote store error"
	}
	return e.Err.Error()
}

func (e *RemoteStoreError) Unwrap() error {
	return e.Err
}
