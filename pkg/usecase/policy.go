package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/m-mizutani/bundlebump/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/pr-body.md
var prBodyTemplate string

var defaultTemplate = template.Must(template.New("pr-body").Parse(prBodyTemplate))

// DefaultTemplate returns the bundled pull request body template
func DefaultTemplate() *template.Template {
	return defaultTemplate
}

// ParseTemplate parses a pull request body template
func ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse pull request body template", goerr.V("name", name))
	}
	return tmpl, nil
}

// Policy decides how a new version of a package lands in the bundle
type Policy struct {
	PackageName    string
	DependencyType model.DependencyType
	// Template renders the body of pull requests for major updates. The
	// bundled template is used when nil.
	Template *template.Template
	Data     model.TemplateData
}

// Evaluate maps the transition from oldVersionRaw to newVersion to an action.
// It never fails on malformed versions; the only error source is rendering
// the pull request body.
func (p *Policy) Evaluate(oldVersionRaw, newVersion string) (model.Action, error) {
	fragment := fmt.Sprintf("updated %s to version %s", p.PackageName, newVersion)
	chore := "chore(package): " + fragment

	from, okFrom := model.ParseVersion(oldVersionRaw)
	to, okTo := model.ParseVersion(newVersion)
	if !okFrom || !okTo {
		return model.PullRequest{Message: chore, Title: chore}, nil
	}

	switch model.Diff(from, to) {
	case model.DiffMajor:
		data := p.Data
		data.Type = model.ClassifyRelease(to)

		body, err := p.render(data)
		if err != nil {
			return nil, err
		}

		// A major bump needs a human to decide, so it is never pushed
		return model.PullRequest{
			Message: chore,
			Title:   "[Potentially Breaking] " + chore,
			Body:    body,
		}, nil

	case model.DiffMinor:
		return model.Push{Message: "feat(package): " + fragment}, nil

	case model.DiffPatch:
		return model.Push{Message: "fix(package): " + fragment}, nil

	default:
		return model.PullRequest{
			Message: chore,
			Title:   "[Pre-Release] " + chore,
		}, nil
	}
}

func (p *Policy) render(data model.TemplateData) (string, error) {
	tmpl := p.Template
	if tmpl == nil {
		tmpl = defaultTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render pull request body",
			goerr.V("template", tmpl.Name()),
			goerr.V("package", p.PackageName),
		)
	}
	return buf.String(), nil
}
