package memos

/*
Result is the outcome of one request against a Memos instance. Exactly one
of Value or Failure is meaningful: a nil Failure means the call succeeded.
Faults that are not the backend's answer (network errors, encoding bugs)
never end up here; they travel on the error return next to the Result.
*/
type Result[T any] struct {
	Value   T
	Failure *APIError
}

// Success wraps a decoded payload.
func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Failed wraps a backend failure.
func Failed[T any](failure *APIError) Result[T] {
	return Result[T]{Failure: failure}
}

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}
