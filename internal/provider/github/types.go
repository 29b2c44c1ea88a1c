package github

// webhookPayload is the subset of the GitHub webhook payload the bot reads.
// PullRequest is a pointer so its presence is an explicit signal: it decides
// whether the event is a pull request event.
type webhookPayload struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	RefType     string `json:"ref_type"`
	Ref         string `json:"ref"`
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Base   struct {
			Ref string `json:"ref"`
		} `json:"base"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"pull_request"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}
