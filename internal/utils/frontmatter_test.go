package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderParseRoundtrip(t *testing.T) {
	fm := &Frontmatter{
		Title: "Getting Started",
		Icon:  "🚀",
		Tags:  []string{"guide", "intro"},
	}

	rendered, err := RenderFrontmatter(fm, "# Welcome\n\nHello.")
	require.NoError(t, err)

	parsed, body, err := ParseFrontmatter(rendered)
	require.NoError(t, err)
	assert.Equal(t, fm.Title, parsed.Title)
	assert.Equal(t, fm.Icon, parsed.Icon)
	assert.Equal(t, fm.Tags, parsed.Tags)
	assert.Equal(t, "# Welcome\n\nHello.", body)
}

func TestParseFrontmatter(t *testing.T) {
	input := []byte("---\ntitle: My Doc\ntags:\n  - api\n---\n\nBody text here.\n")

	fm, body, err := ParseFrontmatter(input)
	require.NoError(t, err)
	assert.Equal(t, "My Doc", fm.Title)
	assert.Equal(t, []string{"api"}, fm.Tags)
	assert.Equal(t, "Body text here.\n", body)
}

func TestParseFrontmatterMissingHeader(t *testing.T) {
	_, _, err := ParseFrontmatter([]byte("# Just markdown\n"))
	assert.Error(t, err)
}

func TestParseFrontmatterMissingClosingDelimiter(t *testing.T) {
	_, _, err := ParseFrontmatter([]byte("---\ntitle: Oops\n"))
	assert.Error(t, err)
}

func TestParseFrontmatterInvalidYAML(t *testing.T) {
	_, _, err := ParseFrontmatter([]byte("---\ntitle: [unclosed\n---\nbody"))
	assert.Error(t, err)
}

func TestRenderOmitsEmptyOptionalFields(t *testing.T) {
	rendered, err := RenderFrontmatter(&Frontmatter{Title: "Bare"}, "body")
	require.NoError(t, err)
	assert.NotContains(t, string(rendered), "icon:")
	assert.NotContains(t, string(rendered), "tags:")
}
