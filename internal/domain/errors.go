package domain

import "fmt"

// FetchError reports that a page of upstream content could not be retrieved
// or did not have the expected shape.
type FetchError struct {
	Path string
	Msg  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Path, e.Msg)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
