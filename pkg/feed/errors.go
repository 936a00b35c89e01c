package feed

import "fmt"

// FetchError is a non-success feed response. Message carries the trimmed
// response body, which the engine surfaces as user-visible text.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("feed: remote error %d", e.StatusCode)
}
