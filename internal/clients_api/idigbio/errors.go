package idigbio

import "fmt"

// RemoteFetchError is any transport-level failure talking to the iDigBio
// summary API: connection errors, timeouts, a non-2xx status that survived
// the retry budget, or an open circuit breaker.
type RemoteFetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote fetch failed: %s returned %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote fetch failed: %s: %v", e.Endpoint, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// DataFormatError is a successful response whose body does not match the
// expected summary-stats shape.
type DataFormatError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response format from %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected response format from %s: %s", e.Endpoint, e.Reason)
}

func (e *DataFormatError) Unwrap() error { return e.Err }
