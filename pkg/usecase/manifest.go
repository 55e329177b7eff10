package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const defaultDependencyVersion = "0.0.0"

// dependencyPath builds a gjson/sjson path for section.name. Package names
// like "@scope/pkg" or "lodash.template" carry path metacharacters.
func dependencyPath(depType model.DependencyType, name string) string {
	return escapePathComponent(string(depType)) + "." + escapePathComponent(name)
}

func escapePathComponent(s string) string {
	var b strings.Builder
	for i, c := range s {
		switch c {
		case '.', '*', '?', '|', '#', '\\':
			b.WriteByte('\\')
		case '@':
			if i == 0 {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(c)
	}
	return b.String()
}

// dependencyVersion returns the version range recorded for name, or 0.0.0
// when the entry is missing or empty
func dependencyVersion(manifest []byte, depType model.DependencyType, name string) string {
	v := gjson.GetBytes(manifest, dependencyPath(depType, name)).String()
	if v == "" {
		return defaultDependencyVersion
	}
	return v
}

// setDependencyVersion writes version into the entry, keeping the key order
// of the rest of the document. The section is created when missing.
func setDependencyVersion(manifest []byte, depType model.DependencyType, name, version string) ([]byte, error) {
	out, err := sjson.SetBytes(manifest, dependencyPath(depType, name), version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set dependency version",
			goerr.V("type", depType),
			goerr.V("name", name),
			goerr.V("version", version),
		)
	}
	return out, nil
}

// formatManifest indents with two spaces and appends a trailing newline, the
// way npm writes package.json
func formatManifest(manifest []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(manifest), "", "  "); err != nil {
		return nil, goerr.Wrap(err, "failed to format manifest")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// updateManifest validates the remote document, swaps the dependency entry
// and returns the previous value together with the formatted document
func updateManifest(manifest []byte, depType model.DependencyType, name, version string) (string, []byte, error) {
	if !gjson.ValidBytes(manifest) {
		return "", nil, goerr.New("remote manifest is not valid JSON", goerr.V("type", depType))
	}
	if !gjson.ParseBytes(manifest).IsObject() {
		return "", nil, goerr.New("remote manifest is not a JSON object")
	}

	old := dependencyVersion(manifest, depType, name)

	updated, err := setDependencyVersion(manifest, depType, name, version)
	if err != nil {
		return "", nil, err
	}

	formatted, err := formatManifest(updated)
	if err != nil {
		return "", nil, err
	}
	return old, formatted, nil
}
