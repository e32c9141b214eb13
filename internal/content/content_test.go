package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "JAGADEESH DASARI", p.Profile.Name)
	assert.Len(t, p.Skills, 4)
	assert.Len(t, p.Experience, 2)
	require.NotEmpty(t, p.Projects)
	assert.Equal(t, "ChainSafe", p.Projects[0].Title)
	assert.NotEmpty(t, p.ChainSafe.Tagline)

	require.Len(t, p.AboutHTML, len(p.About))
	assert.Contains(t, string(p.AboutHTML[0]), "<strong>Axis Bank - BIU</strong>")
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  name: Someone\nabout:\n  - \"*hi*\"\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Someone", p.Profile.Name)
	assert.Equal(t, "<p><em>hi</em></p>", strings.TrimSpace(string(p.AboutHTML[0])))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("profile: ["))
	require.Error(t, err)

	_, err = Parse([]byte("quote: nobody"))
	require.ErrorContains(t, err, "profile.name")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
