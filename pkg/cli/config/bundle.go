package config

import (
	"errors"
	"os"
	"strings"
	"text/template"

	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/bundlebump/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// ErrNotOnCI is returned when the debug guard is set
var ErrNotOnCI = errors.New("you should run this on a CI server")

// Bundle holds the bundle repository configuration
type Bundle struct {
	Branch     string
	CI         bool
	User       string
	Repo       string
	Type       string
	PRBody     string
	ConfigFile string
	Dir        string
	Debug      bool
}

// Flags returns CLI flags for bundle configuration
func (c *Bundle) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "branch",
			Aliases:     []string{"b"},
			Usage:       "Branch of the bundle repository to update",
			Value:       "master",
			Destination: &c.Branch,
			Sources:     cli.EnvVars("BUNDLEBUMP_BRANCH"),
		},
		&cli.BoolFlag{
			Name:        "ci",
			Usage:       "Running on a CI server",
			Destination: &c.CI,
			Sources:     cli.EnvVars("CI"),
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Owner of the bundle repository",
			Value:       "hoodiehq",
			Destination: &c.User,
			Sources:     cli.EnvVars("BUNDLEBUMP_USER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Aliases:     []string{"r"},
			Usage:       "Name of the bundle repository",
			Value:       "hoodie",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("BUNDLEBUMP_REPO"),
		},
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Dependency section holding the package (dependencies, devDependencies, peerDependencies, optionalDependencies)",
			Value:       string(model.Dependencies),
			Destination: &c.Type,
			Sources:     cli.EnvVars("BUNDLEBUMP_TYPE"),
			Validator:   validateDependencyType,
		},
		&cli.StringFlag{
			Name:        "pr-body",
			Usage:       "Path to the pull request body template for major updates",
			Destination: &c.PRBody,
			Sources:     cli.EnvVars("BUNDLEBUMP_PR_BODY"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML file with bundle settings",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("BUNDLEBUMP_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "dir",
			Usage:       "Directory of the released package",
			Value:       ".",
			Destination: &c.Dir,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "Refuse to run; the tool is meant for CI",
			Destination: &c.Debug,
		},
	}
}

func validateDependencyType(v string) error {
	if !model.DependencyType(v).IsValid() {
		return goerr.New("invalid dependency type", goerr.V("type", v))
	}
	return nil
}

// bundleFile is the TOML representation of the bundle settings
type bundleFile struct {
	Branch *string `toml:"branch"`
	CI     *bool   `toml:"ci"`
	User   *string `toml:"user"`
	Repo   *string `toml:"repo"`
	Type   *string `toml:"type"`
	PRBody *string `toml:"pr_body"`
}

// LoadFile fills settings from ConfigFile that were not set explicitly. set
// reports whether a flag was given on the command line or through the
// environment.
func (c *Bundle) LoadFile(set func(name string) bool) error {
	if c.ConfigFile == "" {
		return nil
	}

	raw, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.ConfigFile))
	}

	var file bundleFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.ConfigFile))
	}

	apply := func(name string, v *string, dst *string) {
		if v != nil && !set(name) {
			*dst = *v
		}
	}
	apply("branch", file.Branch, &c.Branch)
	apply("user", file.User, &c.User)
	apply("repo", file.Repo, &c.Repo)
	apply("type", file.Type, &c.Type)
	apply("pr-body", file.PRBody, &c.PRBody)
	if file.CI != nil && !set("ci") {
		c.CI = *file.CI
	}

	return validateDependencyType(c.Type)
}

// Validate enforces the CI guard
func (c *Bundle) Validate() error {
	if c.Debug {
		return ErrNotOnCI
	}
	return nil
}

// Model converts the settings to the domain configuration
func (c *Bundle) Model() model.BundleConfig {
	return model.BundleConfig{
		Branch: c.Branch,
		CI:     c.CI,
		User:   c.User,
		Repo:   c.Repo,
		Type:   model.DependencyType(c.Type),
	}
}

// Template loads the pull request body template
func (c *Bundle) Template() (*template.Template, error) {
	if c.PRBody == "" {
		return usecase.DefaultTemplate(), nil
	}

	raw, err := os.ReadFile(c.PRBody)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pull request body template", goerr.V("path", c.PRBody))
	}
	return usecase.ParseTemplate(strings.TrimSuffix(c.PRBody, ".md"), string(raw))
}
