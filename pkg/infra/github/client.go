package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/bundlebump/pkg/domain/interfaces"
	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
)

type client struct {
	githubClient *github.Client
}

type options struct {
	baseURL string
}

// Option is a functional option for the GitHub client
type Option func(*options)

// WithBaseURL points the client at a GitHub Enterprise API root such as
// https://ghe.example.com/api/v3
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// NewClient creates a new GitHub client authenticated with a personal access token
func NewClient(ctx context.Context, token string, opts ...Option) (interfaces.RemoteFileChanger, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	c, err := newClient(oauth2.NewClient(ctx, ts), opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewAppClient creates a new GitHub client with App authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.RemoteFileChanger, error) {
	o := buildOptions(opts)

	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if o.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(o.baseURL, "/")
	}

	c, err := newClient(&http.Client{Transport: itr}, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newClient(httpClient *http.Client, opts []Option) (*client, error) {
	o := buildOptions(opts)

	githubClient := github.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub base URL", goerr.V("base_url", o.baseURL))
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// ChangeFile fetches req.Filename from req.Branch, runs the transform and
// lands the result either as a commit on req.Branch or as a pull request
func (c *client) ChangeFile(ctx context.Context, req *model.ChangeRequest) (*model.ChangeResult, error) {
	fileContent, _, _, err := c.githubClient.Repositories.GetContents(ctx, req.Owner, req.Repo, req.Filename, &github.RepositoryContentGetOptions{
		Ref: req.Branch,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get file contents", fileValues(req)...)
	}
	if fileContent == nil {
		return nil, goerr.New("remote path is not a file", fileValues(req)...)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode file contents", fileValues(req)...)
	}

	change, err := req.Transform([]byte(content))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to transform file", fileValues(req)...)
	}

	switch action := change.Action.(type) {
	case model.Push:
		return c.push(ctx, req, fileContent.GetSHA(), change.Content, action)
	case model.PullRequest:
		return c.pullRequest(ctx, req, fileContent.GetSHA(), change, action)
	default:
		return nil, goerr.New("unsupported change action", goerr.V("action", fmt.Sprintf("%T", change.Action)))
	}
}

func (c *client) push(ctx context.Context, req *model.ChangeRequest, blobSHA string, content []byte, action model.Push) (*model.ChangeResult, error) {
	commit, err := c.commitFile(ctx, req, req.Branch, blobSHA, content, action.Message)
	if err != nil {
		return nil, err
	}

	return &model.ChangeResult{
		Mode:      model.ModePush,
		CommitURL: commitURL(commit),
	}, nil
}

func (c *client) pullRequest(ctx context.Context, req *model.ChangeRequest, blobSHA string, change *model.FileChange, action model.PullRequest) (*model.ChangeResult, error) {
	if change.Head == "" {
		return nil, goerr.New("pull request head branch is not set", fileValues(req)...)
	}

	base, _, err := c.githubClient.Git.GetRef(ctx, req.Owner, req.Repo, "heads/"+req.Branch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get base branch", fileValues(req)...)
	}

	if err := c.createBranch(ctx, req.Owner, req.Repo, change.Head, base.GetObject().GetSHA()); err != nil {
		return nil, err
	}

	commit, err := c.commitFile(ctx, req, change.Head, blobSHA, change.Content, action.Message)
	if err != nil {
		return nil, err
	}

	newPR := &github.NewPullRequest{
		Title: github.Ptr(action.Title),
		Head:  github.Ptr(change.Head),
		Base:  github.Ptr(req.Branch),
	}
	if action.HasBody() {
		newPR.Body = github.Ptr(action.Body)
	}

	pr, _, err := c.githubClient.PullRequests.Create(ctx, req.Owner, req.Repo, newPR)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create pull request",
			goerr.V("owner", req.Owner),
			goerr.V("repo", req.Repo),
			goerr.V("base", req.Branch),
			goerr.V("head", change.Head),
		)
	}

	return &model.ChangeResult{
		Mode:           model.ModePullRequest,
		PullRequestURL: pr.GetHTMLURL(),
		CommitURL:      commitURL(commit),
	}, nil
}

// createBranch creates refs/heads/<name> pointing at sha
func (c *client) createBranch(ctx context.Context, owner, repo, name, sha string) error {
	u := fmt.Sprintf("repos/%v/%v/git/refs", owner, repo)
	httpReq, err := c.githubClient.NewRequest(http.MethodPost, u, map[string]string{
		"ref": "refs/heads/" + name,
		"sha": sha,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to build create ref request")
	}

	ref := new(github.Reference)
	if _, err := c.githubClient.Do(ctx, httpReq, ref); err != nil {
		return goerr.Wrap(err, "failed to create branch",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("branch", name),
			goerr.V("sha", sha),
		)
	}
	return nil
}

func (c *client) commitFile(ctx context.Context, req *model.ChangeRequest, branch, blobSHA string, content []byte, message string) (*github.Commit, error) {
	resp, _, err := c.githubClient.Repositories.UpdateFile(ctx, req.Owner, req.Repo, req.Filename, &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
		SHA:     github.Ptr(blobSHA),
		Branch:  github.Ptr(branch),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit file",
			goerr.V("owner", req.Owner),
			goerr.V("repo", req.Repo),
			goerr.V("branch", branch),
			goerr.V("filename", req.Filename),
		)
	}
	return &resp.Commit, nil
}

func commitURL(commit *github.Commit) string {
	if u := commit.GetHTMLURL(); u != "" {
		return u
	}
	return commit.GetURL()
}

func fileValues(req *model.ChangeRequest) []goerr.Option {
	return []goerr.Option{
		goerr.V("owner", req.Owner),
		goerr.V("repo", req.Repo),
		goerr.V("branch", req.Branch),
		goerr.V("filename", req.Filename),
	}
}
