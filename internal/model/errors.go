package model

import "fmt"

// ResourceNotFoundError means a required resource identifier could not be
// derived from an otherwise recognized event payload. Re-delivery of the
// same event would reproduce it, so the event is dropped, not retried.
type ResourceNotFoundError struct {
	Resource string
	PRNumber int
}

func (e *ResourceNotFoundError) Error() string {
	if e.PRNumber > 0 {
		return fmt.Sprintf("PR #%d: %s could not be found in the event payload", e.PRNumber, e.Resource)
	}
	return fmt.Sprintf("%s could not be found in the event payload", e.Resource)
}

// NewResourceNotFound builds a ResourceNotFoundError for the given resource.
func NewResourceNotFound(resource string, prNumber int) error {
	return &ResourceNotFoundError{Resource: resource, PRNumber: prNumber}
}
