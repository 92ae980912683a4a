package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kevinmichaelchen/gepeto/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel string, content []byte) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestDocument_SkipsNonUTF8(t *testing.T) {
	root := t.TempDir()
	readme := write(t, root, "README.md", []byte("# demo\nrun python app.py"))
	blob := write(t, root, "assets/logo.bin", []byte{0xff, 0xfe, 0x00, 0xc3, 0x28})

	doc, err := Document(root, Options{})
	require.NoError(t, err)

	assert.Contains(t, doc, "File: "+readme+"\n# demo\nrun python app.py\n\n")
	assert.NotContains(t, doc, blob)
}

func TestDocument_LexicalOrder(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a.txt", []byte("first"))
	b := write(t, root, "dir/b.txt", []byte("second"))

	doc, err := Document(root, Options{})
	require.NoError(t, err)

	want := "File: " + a + "\nfirst\n\n" + "File: " + b + "\nsecond\n\n"
	assert.Equal(t, want, doc)
}

func TestDocument_NormalizesLineEndings(t *testing.T) {
	root := t.TempDir()
	write(t, root, "win.txt", []byte("one\r\ntwo\rthree"))

	doc, err := Document(root, Options{})
	require.NoError(t, err)
	assert.Contains(t, doc, "one\ntwo\nthree\n\n")
	assert.NotContains(t, doc, "\r")
}

func TestDocument_IgnoreDirs(t *testing.T) {
	root := t.TempDir()
	write(t, root, "app.py", []byte("print('hi')"))
	hidden := write(t, root, ".git/config", []byte("[core]"))

	doc, err := Document(root, Options{IgnoreDirs: []string{".git"}})
	require.NoError(t, err)
	assert.Contains(t, doc, "print('hi')")
	assert.NotContains(t, doc, hidden)
}

func TestDocument_EmptyRepository(t *testing.T) {
	doc, err := Document(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestDocument_MissingRoot(t *testing.T) {
	_, err := Document(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)

	var accessErr *models.RepositoryAccessError
	require.True(t, errors.As(err, &accessErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDocument_RootIsFile(t *testing.T) {
	file := write(t, t.TempDir(), "single.txt", []byte("x"))

	_, err := Document(file, Options{})
	var accessErr *models.RepositoryAccessError
	require.True(t, errors.As(err, &accessErr))
	assert.Equal(t, file, accessErr.Path)
}

func TestDocument_SymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	write(t, target, "app.py", []byte("print('hi')"))
	link := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, os.Symlink(target, link))

	doc, err := Document(link, Options{})
	require.NoError(t, err)
	assert.Equal(t, "File: "+filepath.Join(link, "app.py")+"\nprint('hi')\n\n", doc)
}

func TestDocument_SymlinkedEntries(t *testing.T) {
	root := t.TempDir()
	write(t, root, "shared.txt", []byte("shared content"))
	require.NoError(t, os.Symlink(filepath.Join(root, "shared.txt"), filepath.Join(root, "linked.txt")))

	outside := t.TempDir()
	write(t, outside, "deep.txt", []byte("outside dir"))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.txt"), filepath.Join(root, "dangling.txt")))

	doc, err := Document(root, Options{})
	require.NoError(t, err)

	assert.Contains(t, doc, "File: "+filepath.Join(root, "linked.txt")+"\nshared content\n\n")
	assert.Contains(t, doc, "File: "+filepath.Join(root, "shared.txt")+"\nshared content\n\n")
	assert.NotContains(t, doc, "outside dir")
	assert.NotContains(t, doc, "dangling.txt")
}
