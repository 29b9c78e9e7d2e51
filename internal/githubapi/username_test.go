package githubapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
)

func TestParseUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare username", "octocat", "octocat"},
		{"surrounding whitespace", "  octocat  ", "octocat"},
		{"with at sign", "@octocat", "octocat"},
		{"hyphenated", "tj-holowaychuk", "tj-holowaychuk"},
		{"profile url", "https://github.com/octocat", "octocat"},
		{"profile url with trailing slash", "https://github.com/octocat/", "octocat"},
		{"http url", "http://github.com/octocat", "octocat"},
		{"bare domain", "github.com/octocat", "octocat"},
		{"www prefix", "www.github.com/octocat", "octocat"},
		{"repo url keeps owner", "https://github.com/octocat/hello-world", "octocat"},
		{"single character", "a", "a"},
		{"digits", "4ndrew", "4ndrew"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUsername(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUsernameRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"leading hyphen", "-octocat"},
		{"trailing hyphen", "octocat-"},
		{"double hyphen", "octo--cat"},
		{"underscore", "octo_cat"},
		{"spaces inside", "octo cat"},
		{"too long", "a123456789a123456789a123456789a123456789"},
		{"unrelated url", "https://gitlab.com/octocat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUsername(tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.CategoryValidation, apperrors.ToAppError(err).Category)
		})
	}
}
