// Package giturl turns the many spellings of a git remote into the web URL of
// the repository.
package giturl

import (
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/m-mizutani/goerr/v2"
)

// hosts for npm's "provider:user/repo" shorthand
var shorthandHosts = map[string]string{
	"github":    "github.com",
	"gitlab":    "gitlab.com",
	"bitbucket": "bitbucket.org",
}

// WebURL converts a git remote such as git+https://github.com/a/b.git,
// git@github.com:a/b.git, github:a/b or a/b into https://github.com/a/b
func WebURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", goerr.New("empty repository URL")
	}

	if host, path, ok := expandShorthand(s); ok {
		return "https://" + host + "/" + path, nil
	}

	s = strings.TrimPrefix(s, "git+")

	ep, err := transport.NewEndpoint(s)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse repository URL", goerr.V("url", raw))
	}

	path := strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	if ep.Host == "" || path == "" {
		return "", goerr.New("repository URL has no host or path", goerr.V("url", raw))
	}
	if ep.Protocol == "file" {
		return "", goerr.New("local repository has no web URL", goerr.V("url", raw))
	}

	host := ep.Host
	if (ep.Protocol == "http" || ep.Protocol == "https") && ep.Port != 0 && ep.Port != 80 && ep.Port != 443 {
		host += ":" + strconv.Itoa(ep.Port)
	}

	return "https://" + host + "/" + path, nil
}

func expandShorthand(s string) (string, string, bool) {
	if strings.Contains(s, "://") || strings.Contains(s, "@") {
		return "", "", false
	}

	host := "github.com"
	if provider, rest, found := strings.Cut(s, ":"); found {
		h, ok := shorthandHosts[provider]
		if !ok {
			return "", "", false
		}
		host, s = h, rest
	}

	parts := strings.Split(strings.TrimSuffix(s, ".git"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return host, parts[0] + "/" + parts[1], true
}
