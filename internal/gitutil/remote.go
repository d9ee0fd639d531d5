package gitutil

import (
	"net/url"
	"strings"
)

// RepoWebURL turns a remote URL into the https address of the repository
// page, e.g. git@github.com:owner/repo.git -> https://github.com/owner/repo.
// Unrecognized forms return "".
func RepoWebURL(remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return ""
	}

	var host, path string
	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil || u.Hostname() == "" {
			return ""
		}
		host = u.Hostname()
		if u.Scheme == "http" || u.Scheme == "https" {
			if port := u.Port(); port != "" {
				host += ":" + port
			}
		}
		path = u.Path
	case strings.Contains(remote, ":"):
		// scp-like syntax: [user@]host:path
		hostPart, pathPart, _ := strings.Cut(remote, ":")
		if i := strings.LastIndex(hostPart, "@"); i >= 0 {
			hostPart = hostPart[i+1:]
		}
		host, path = hostPart, pathPart
	default:
		return ""
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return ""
	}
	return "https://" + host + "/" + path
}
