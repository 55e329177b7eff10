package model

// Mode tells the remote file changer how to land a change
type Mode string

const (
	ModePush        Mode = "push"
	ModePullRequest Mode = "pull_request"
)

// Action is the outcome of evaluating a version transition. It is either a
// Push or a PullRequest.
type Action interface {
	CommitMessage() string
	Mode() Mode

	isAction()
}

// Push commits directly to the target branch
type Push struct {
	Message string
}

func (x Push) CommitMessage() string { return x.Message }
func (x Push) Mode() Mode            { return ModePush }
func (Push) isAction()               {}

// PullRequest commits to a new branch and opens a pull request against the
// target branch. An empty Body means the pull request has no description.
type PullRequest struct {
	Message string
	Title   string
	Body    string
}

func (x PullRequest) CommitMessage() string { return x.Message }
func (x PullRequest) Mode() Mode            { return ModePullRequest }
func (PullRequest) isAction()               {}

// HasBody reports whether a description was rendered for the pull request
func (x PullRequest) HasBody() bool { return x.Body != "" }
