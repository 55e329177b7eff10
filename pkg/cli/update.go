package cli

import (
	"context"
	"io"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/fatih/color"
	"github.com/m-mizutani/bundlebump/pkg/cli/config"
	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/bundlebump/pkg/infra/npm"
	"github.com/m-mizutani/bundlebump/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func runUpdate(ctx context.Context, c *cli.Command, bundleCfg *config.Bundle, githubCfg *config.GitHub) error {
	logger := clog.FromContext(ctx)

	if err := githubCfg.Validate(); err != nil {
		return err
	}
	if err := bundleCfg.Validate(); err != nil {
		return err
	}
	if err := bundleCfg.LoadFile(c.IsSet); err != nil {
		return err
	}
	if !bundleCfg.CI {
		logger.Warn("Not running on a CI server")
	}

	dir := bundleCfg.Dir
	if dir == "" || dir == "." {
		wd, err := os.Getwd()
		if err != nil {
			return goerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}

	pkg, err := npm.ReadPackage(ctx, dir)
	if err != nil {
		return err
	}

	tmpl, err := bundleCfg.Template()
	if err != nil {
		return err
	}

	client, err := githubCfg.NewClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create GitHub client")
	}

	result, err := usecase.NewBundle(client).UpdateBundle(ctx, &model.BundleUpdate{
		Config:   bundleCfg.Model(),
		Package:  *pkg,
		Template: tmpl,
	})
	if err != nil {
		return err
	}

	return printResult(c.Root().Writer, result)
}

func printResult(w io.Writer, result *model.ChangeResult) error {
	link := color.New(color.FgCyan)
	if result.PullRequestURL != "" {
		if _, err := link.Fprintln(w, result.PullRequestURL); err != nil {
			return goerr.Wrap(err, "failed to print pull request URL")
		}
	}
	if result.Mode == model.ModePush && result.CommitURL != "" {
		if _, err := link.Fprintln(w, result.CommitURL); err != nil {
			return goerr.Wrap(err, "failed to print commit URL")
		}
	}
	return nil
}
