package githubapi

import (
	"regexp"
	"strings"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
)

// GitHub login rules: 1-39 alphanumerics and hyphens, no leading or
// trailing hyphen, no doubled hyphens.
var validUsername = regexp.MustCompile(`^[a-zA-Z\d](?:-?[a-zA-Z\d]){0,38}$`)

// ParseUsername extracts and validates a GitHub login from raw input.
// It accepts bare usernames as well as profile URLs such as
// https://github.com/octocat or github.com/octocat/.
func ParseUsername(input string) (string, error) {
	candidate := strings.TrimSpace(input)
	if candidate == "" {
		return "", apperrors.NewValidationError("username is required")
	}

	candidate = strings.TrimPrefix(candidate, "https://")
	candidate = strings.TrimPrefix(candidate, "http://")
	candidate = strings.TrimPrefix(candidate, "www.")
	if rest, ok := strings.CutPrefix(candidate, "github.com/"); ok {
		candidate = rest
	}
	candidate = strings.TrimSuffix(candidate, "/")
	candidate = strings.TrimPrefix(candidate, "@")

	if strings.Contains(candidate, "/") {
		// A path beyond the login segment means the URL points at a repo
		// or some other resource, not a profile.
		candidate = strings.SplitN(candidate, "/", 2)[0]
	}

	if len(candidate) > 39 || !validUsername.MatchString(candidate) {
		return "", apperrors.NewValidationError("invalid GitHub username: " + input)
	}

	return candidate, nil
}
