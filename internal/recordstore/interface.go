package recordstore

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Reader is the read side of a record store.
type Reader interface {
	// IDs lists every id with a stored record.
	IDs() ([]string, error)
	// Read returns the raw value stored under ns for id. The bool is false
	// when either the record or the namespace slot does not exist.
	Read(ns Namespace, id string) (json.RawMessage, bool, error)
}

// Writer is the write side of a record store.
type Writer interface {
	// Write stores v under ns for id, preserving the other namespaces.
	Write(ns Namespace, id string, v any) error
}

// ReadWriter combines Reader and Writer.
type ReadWriter interface {
	Reader
	Writer
}

// Get reads the value under ns for id and decodes it into v.
// It returns false, without touching v, when nothing is stored.
func Get(r Reader, ns Namespace, id string, v any) (bool, error) {
	raw, ok, err := r.Read(ns, id)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &DecodeError{Namespace: ns, ID: id, Err: err}
	}
	return true, nil
}

// DecodeError reports a stored value that does not match its namespace schema.
type DecodeError struct {
	Namespace Namespace
	ID        string
	Err       error
}

func (e *DecodeError) Error() string {
	return "recordstore: decode " + string(e.Namespace) + " for " + e.ID + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// encodeValue validates and marshals a value for storage.
func encodeValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, ErrMissingValue
	}
	if raw, ok := v.(json.RawMessage); ok {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || isNull(raw) {
			return nil, ErrMissingValue
		}
		if !json.Valid(raw) {
			return nil, errors.New("recordstore: value is not valid JSON")
		}
		return raw, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, ErrMissingValue
	}
	return raw, nil
}

// isNull reports whether raw is the JSON literal null, ignoring surrounding
// whitespace. A null slot reads as absent.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
