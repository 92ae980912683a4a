package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_SectionOrder(t *testing.T) {
	tmpl := Template{System: "SYS", Task: "TASK", Schema: "SCHEMA"}

	got := tmpl.Assemble("File: a.txt\nhello\n\n")
	assert.Equal(t, "SYS\n\nTASK\n\nSCHEMA\n\nFile: a.txt\nhello\n\n", got)
}

func TestDefault_MentionsEveryField(t *testing.T) {
	schema := Default().Schema
	for _, key := range []string{"install_script", "start_script", "description", "requirements", "terminal_regex"} {
		assert.Contains(t, schema, `"`+key+`"`)
	}
}

func TestDefault_DocumentIsLast(t *testing.T) {
	got := Default().Assemble("REPO")
	assert.True(t, strings.HasSuffix(got, "\n\nREPO"))
	assert.True(t, strings.HasPrefix(got, Default().System))
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task: |\n  Only describe the app.\n"), 0o644))

	tmpl, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "Only describe the app.\n", tmpl.Task)
	assert.Equal(t, def.System, tmpl.System)
	assert.Equal(t, def.Schema, tmpl.Schema)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("system: [unterminated"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestOverrideDoesNotLeak(t *testing.T) {
	tmpl := Default()
	tmpl.System = "changed"
	assert.NotEqual(t, "changed", Default().System)
}
