package config

import (
	"context"
	"errors"
	"os"

	"github.com/m-mizutani/bundlebump/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/bundlebump/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ErrMissingToken is returned when neither a token nor GitHub App credentials are configured
var ErrMissingToken = errors.New("you need to specify a token")

// GitHub holds GitHub configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "token",
			Usage:       "GitHub access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GH_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("BUNDLEBUMP_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("BUNDLEBUMP_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or path to a PEM file)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("BUNDLEBUMP_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL for GitHub Enterprise",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("BUNDLEBUMP_GITHUB_BASE_URL"),
		},
	}
}

func (c *GitHub) useApp() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKey != ""
}

// Validate checks that some form of credentials is available
func (c *GitHub) Validate() error {
	if c.Token == "" && !c.useApp() {
		return ErrMissingToken
	}
	return nil
}

// NewClient builds the remote file changer for the configured credentials.
// GitHub App credentials take precedence over a token.
func (c *GitHub) NewClient(ctx context.Context) (interfaces.RemoteFileChanger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	if c.useApp() {
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		return githubinfra.NewAppClient(c.AppID, c.InstallationID, key, opts...)
	}

	return githubinfra.NewClient(ctx, c.Token, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if _, err := os.Stat(c.PrivateKey); err == nil {
		key, err := os.ReadFile(c.PrivateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKey))
		}
		return key, nil
	}
	return []byte(c.PrivateKey), nil
}
