package model

// ReviewRequest is the partition of resolved code owners into individual
// reviewers and team reviewers, as expected by the review-request API.
// Every resolved owner lands in exactly one of the two lists.
type ReviewRequest struct {
	Reviewers     []string
	TeamReviewers []string
}

// IsEmpty reports whether there is nobody to request a review from.
func (r ReviewRequest) IsEmpty() bool {
	return len(r.Reviewers) == 0 && len(r.TeamReviewers) == 0
}
