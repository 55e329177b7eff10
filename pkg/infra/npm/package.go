package npm

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/bundlebump/pkg/infra/git"
	"github.com/m-mizutani/goerr/v2"
)

// ManifestFilename is the name of the npm package manifest
const ManifestFilename = "package.json"

// ReadPackage reads the package.json in dir. When the manifest has no
// repository URL, the origin remote of the enclosing git repository is used.
func ReadPackage(ctx context.Context, dir string) (*model.Package, error) {
	path := filepath.Join(dir, ManifestFilename)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read package manifest", goerr.V("path", path))
	}

	var pkg model.Package
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse package manifest", goerr.V("path", path))
	}

	if pkg.Name == "" {
		return nil, goerr.New("package manifest has no name", goerr.V("path", path))
	}
	if _, ok := model.ParseVersion(pkg.Version); !ok {
		return nil, goerr.New("package manifest has no valid version",
			goerr.V("path", path),
			goerr.V("version", pkg.Version),
		)
	}

	if pkg.Repository.URL == "" {
		url, err := git.OriginURL(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "package manifest has no repository URL", goerr.V("path", path))
		}
		clog.FromContext(ctx).Debug("Using git origin as repository URL", "url", url)
		pkg.Repository.URL = url
	}

	return &pkg, nil
}
