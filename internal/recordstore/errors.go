package recordstore

import "errors"

var (
	// ErrInvalidNamespace is returned for a namespace outside the allow-list.
	ErrInvalidNamespace = errors.New("recordstore: invalid namespace")

	// ErrMissingID is returned when an operation is given an empty id.
	ErrMissingID = errors.New("recordstore: missing id")

	// ErrInvalidID is returned for ids that cannot name a file in the store directory.
	ErrInvalidID = errors.New("recordstore: invalid id")

	// ErrMissingValue is returned when Write is given a nil value.
	ErrMissingValue = errors.New("recordstore: missing value")
)
