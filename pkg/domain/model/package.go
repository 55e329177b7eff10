package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Package is the subset of an npm package.json that describes a release
type Package struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description,omitempty"`
	Repository  Repository `json:"repository"`
}

// Repository is the "repository" field of package.json. npm accepts both an
// object and a shorthand string such as "github:user/repo" or "user/repo".
type Repository struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

func (x *Repository) UnmarshalJSON(data []byte) error {
	var shorthand string
	if err := json.Unmarshal(data, &shorthand); err == nil {
		*x = Repository{URL: shorthand}
		return nil
	}

	type repository Repository
	var v repository
	if err := json.Unmarshal(data, &v); err != nil {
		return goerr.Wrap(err, "invalid repository field", goerr.V("data", string(data)))
	}
	*x = Repository(v)
	return nil
}
