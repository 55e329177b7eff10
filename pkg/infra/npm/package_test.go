package npm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bundlebump/pkg/infra/npm"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0644))
}

func TestReadPackage(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "@hoodie/store",
		"version": "8.2.0",
		"description": "offline-first data store",
		"repository": {"type": "git", "url": "git+https://github.com/hoodiehq/hoodie-store.git"}
	}`)

	pkg, err := npm.ReadPackage(context.Background(), dir)
	gt.NoError(t, err)
	gt.Value(t, pkg.Name).Equal("@hoodie/store")
	gt.Value(t, pkg.Version).Equal("8.2.0")
	gt.Value(t, pkg.Description).Equal("offline-first data store")
	gt.Value(t, pkg.Repository.URL).Equal("git+https://github.com/hoodiehq/hoodie-store.git")
}

func TestReadPackage_GitOriginFallback(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	gt.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/hoodiehq/hoodie-store.git"},
	})
	gt.NoError(t, err)

	writeManifest(t, dir, `{"name": "@hoodie/store", "version": "8.2.0"}`)

	pkg, err := npm.ReadPackage(context.Background(), dir)
	gt.NoError(t, err)
	gt.Value(t, pkg.Repository.URL).Equal("https://github.com/hoodiehq/hoodie-store.git")
}

func TestReadPackage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{name: "invalid JSON", manifest: `{`, contains: "failed to parse package manifest"},
		{name: "missing name", manifest: `{"version": "1.0.0", "repository": "a/b"}`, contains: "no name"},
		{name: "missing version", manifest: `{"name": "foo", "repository": "a/b"}`, contains: "no valid version"},
		{name: "invalid version", manifest: `{"name": "foo", "version": "next", "repository": "a/b"}`, contains: "no valid version"},
		{name: "no repository", manifest: `{"name": "foo", "version": "1.0.0"}`, contains: "no repository URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.manifest)

			_, err := npm.ReadPackage(context.Background(), dir)
			gt.Error(t, err)
			gt.String(t, err.Error()).Contains(tt.contains)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := npm.ReadPackage(context.Background(), t.TempDir())
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("failed to read package manifest")
	})
}
