package model

import (
	"slices"
	"text/template"
)

// DependencyType is a dependency section of package.json
type DependencyType string

const (
	Dependencies         DependencyType = "dependencies"
	DevDependencies      DependencyType = "devDependencies"
	PeerDependencies     DependencyType = "peerDependencies"
	OptionalDependencies DependencyType = "optionalDependencies"
)

// DependencyTypes lists every section the bundle entry may live in
var DependencyTypes = []DependencyType{
	Dependencies,
	DevDependencies,
	PeerDependencies,
	OptionalDependencies,
}

// IsValid reports whether t names a known dependency section
func (t DependencyType) IsValid() bool {
	return slices.Contains(DependencyTypes, t)
}

// BundleConfig identifies the bundle repository and where the package entry lives
type BundleConfig struct {
	Branch string         `json:"branch"`
	CI     bool           `json:"ci"`
	User   string         `json:"user"`
	Repo   string         `json:"repo"`
	Type   DependencyType `json:"type"`
}

// TemplateData is exposed to the pull request body template
type TemplateData struct {
	Config  BundleConfig
	Pkg     Package
	URL     string // web URL of the released package's repository
	Release string // release page of the released version
	Type    ReleaseType
}

// BundleUpdate is the input of a single bundle update run
type BundleUpdate struct {
	Config   BundleConfig
	Package  Package
	Template *template.Template
}
