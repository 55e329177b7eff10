package model

// TransformFunc receives the current content of the remote file and returns
// the change to land
type TransformFunc func(content []byte) (*FileChange, error)

// ChangeRequest describes a single file mutation on a remote repository
type ChangeRequest struct {
	Owner     string
	Repo      string
	Branch    string
	Filename  string
	Transform TransformFunc
}

// FileChange is the result of a transform
type FileChange struct {
	Content []byte
	Action  Action
	// Head is the branch created for a pull request. Ignored for pushes.
	Head string
}

// ChangeResult holds the links produced by landing a change
type ChangeResult struct {
	Mode           Mode
	PullRequestURL string
	CommitURL      string
}
