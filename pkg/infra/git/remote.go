package git

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/m-mizutani/goerr/v2"
)

// OriginURL returns the first URL of the "origin" remote of the repository
// that contains dir
func OriginURL(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to open git repository", goerr.V("dir", dir))
	}

	remote, err := repo.Remote(gogit.DefaultRemoteName)
	if err != nil {
		return "", goerr.Wrap(err, "failed to find origin remote", goerr.V("dir", dir))
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", goerr.New("origin remote has no URL", goerr.V("dir", dir))
	}
	return urls[0], nil
}
