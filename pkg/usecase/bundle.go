package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/m-mizutani/bundlebump/pkg/domain/interfaces"
	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/bundlebump/pkg/utils/giturl"
	"github.com/m-mizutani/goerr/v2"
)

// ManifestFilename is the file updated in the bundle repository
const ManifestFilename = "package.json"

type bundleUseCase struct {
	changer    interfaces.RemoteFileChanger
	headBranch func(pkg *model.Package) string
}

// BundleOption configures the bundle use case
type BundleOption func(*bundleUseCase)

// WithHeadBranch overrides how pull request branches are named
func WithHeadBranch(f func(pkg *model.Package) string) BundleOption {
	return func(uc *bundleUseCase) {
		uc.headBranch = f
	}
}

// NewBundle creates a new instance of BundleUseCase
func NewBundle(changer interfaces.RemoteFileChanger, opts ...BundleOption) interfaces.BundleUseCase {
	uc := &bundleUseCase{
		changer:    changer,
		headBranch: defaultHeadBranch,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

var unsafeRefChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func defaultHeadBranch(pkg *model.Package) string {
	name := unsafeRefChars.ReplaceAllString(strings.TrimPrefix(pkg.Name, "@"), "-")
	version := unsafeRefChars.ReplaceAllString(pkg.Version, "-")
	return "bundlebump/" + name + "-" + version + "-" + uuid.NewString()[:8]
}

// UpdateBundle points the bundle's dependency entry at the released version
func (uc *bundleUseCase) UpdateBundle(ctx context.Context, input *model.BundleUpdate) (*model.ChangeResult, error) {
	logger := clog.FromContext(ctx)

	cfg := input.Config
	pkg := input.Package

	if pkg.Name == "" || pkg.Version == "" {
		return nil, goerr.New("package name and version are required",
			goerr.V("name", pkg.Name),
			goerr.V("version", pkg.Version),
		)
	}
	if !cfg.Type.IsValid() {
		return nil, goerr.New("unknown dependency type", goerr.V("type", cfg.Type))
	}

	// Links inserted into the pull request body
	url, err := giturl.WebURL(pkg.Repository.URL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve repository URL", goerr.V("package", pkg.Name))
	}

	policy := &Policy{
		PackageName:    pkg.Name,
		DependencyType: cfg.Type,
		Template:       input.Template,
		Data: model.TemplateData{
			Config:  cfg,
			Pkg:     pkg,
			URL:     url,
			Release: url + "/releases/tag/v" + pkg.Version,
		},
	}

	req := &model.ChangeRequest{
		Owner:    cfg.User,
		Repo:     cfg.Repo,
		Branch:   cfg.Branch,
		Filename: ManifestFilename,
		Transform: func(content []byte) (*model.FileChange, error) {
			oldVersion, updated, err := updateManifest(content, policy.DependencyType, pkg.Name, pkg.Version)
			if err != nil {
				return nil, err
			}

			action, err := policy.Evaluate(oldVersion, pkg.Version)
			if err != nil {
				return nil, err
			}

			logger.Info("Evaluated bundle update",
				"package", pkg.Name,
				"from", oldVersion,
				"to", pkg.Version,
				"mode", action.Mode(),
				"message", action.CommitMessage(),
			)

			change := &model.FileChange{
				Content: updated,
				Action:  action,
			}
			if action.Mode() == model.ModePullRequest {
				change.Head = uc.headBranch(&pkg)
			}
			return change, nil
		},
	}

	logger.Info("Updating bundle",
		"owner", cfg.User,
		"repo", cfg.Repo,
		"branch", cfg.Branch,
		"type", cfg.Type,
		"package", pkg.Name,
		"version", pkg.Version,
	)

	result, err := uc.changer.ChangeFile(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to change bundle manifest",
			goerr.V("owner", cfg.User),
			goerr.V("repo", cfg.Repo),
			goerr.V("branch", cfg.Branch),
		)
	}

	logger.Info("Bundle updated",
		"mode", result.Mode,
		"pull_request_url", result.PullRequestURL,
		"commit_url", result.CommitURL,
	)

	return result, nil
}
