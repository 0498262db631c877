package itemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func warningKinds(ws []Warning) []WarningKind {
	kinds := make([]WarningKind, len(ws))
	for i, w := range ws {
		kinds[i] = w.Kind
	}
	return kinds
}

func TestLoad(t *testing.T) {
	t.Run("plain file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "items.txt")
		writeFile(t, path, `# header comment

○ task1 1d "First" {}
◑ task2 2h "Second" {} >>> ⊢[task1]
`)

		f, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, f.Warnings)
		assert.Equal(t, []string{"task1", "task2"}, f.Store.IDs())

		src, ok := f.Store.Origin("task2")
		require.True(t, ok)
		assert.Equal(t, Source{Path: f.Path, Line: 4}, src)
	})

	t.Run("missing root file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})

	t.Run("invalid lines are skipped with a warning", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "items.txt")
		writeFile(t, path, `○ good 1d "Fine" {}
this line is not an item
`)

		f, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"good"}, f.Store.IDs())
		require.Len(t, f.Warnings, 1)
		assert.Equal(t, WarnParse, f.Warnings[0].Kind)
		assert.Equal(t, 2, f.Warnings[0].Source.Line)
	})

	t.Run("includes resolve against the including file's directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "sub", "inner.txt"), `○ inner 1d "Inner" {}`+"\n")
		writeFile(t, filepath.Join(dir, "sub", "mid.txt"), "#include inner.txt\n○ mid 1d \"Mid\" {}\n")
		root := filepath.Join(dir, "items.txt")
		writeFile(t, root, "#include sub/mid.txt\n○ top 1d \"Top\" {} >>> ⊢[inner]\n")

		prev, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(prev) })

		f, err := Load(root)
		require.NoError(t, err)
		assert.Empty(t, f.Warnings)
		assert.Equal(t, []string{"inner", "mid", "top"}, f.Store.IDs())
		assert.Equal(t, []string{"sub/mid.txt"}, f.Includes)
	})

	t.Run("diamond include merges once", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "z.txt"), `○ shared 1d "Shared" {}`+"\n")
		writeFile(t, filepath.Join(dir, "x.txt"), "#include z.txt\n○ x 1d \"X\" {}\n")
		writeFile(t, filepath.Join(dir, "y.txt"), "#include z.txt\n○ y 1d \"Y\" {}\n")
		root := filepath.Join(dir, "m.txt")
		writeFile(t, root, "#include x.txt\n#include y.txt\n○ m 1d \"M\" {}\n")

		f, err := Load(root)
		require.NoError(t, err)
		assert.Empty(t, f.Warnings)
		assert.Equal(t, []string{"shared", "x", "y", "m"}, f.Store.IDs())
	})

	t.Run("missing include is tolerated", func(t *testing.T) {
		dir := t.TempDir()
		root := filepath.Join(dir, "m.txt")
		writeFile(t, root, "#include gone.txt\n○ m 1d \"M\" {}\n")

		f, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"m"}, f.Store.IDs())
		require.Len(t, f.Warnings, 1)
		assert.Equal(t, WarnMissingInclude, f.Warnings[0].Kind)
		assert.Contains(t, f.Warnings[0].Detail, "gone.txt")
		assert.Equal(t, Source{Path: f.Path, Line: 1}, f.Warnings[0].Source)
	})

	t.Run("include cycle is tolerated", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "#include b.txt\n○ a 1d \"A\" {}\n")
		writeFile(t, filepath.Join(dir, "b.txt"), "#include a.txt\n○ b 1d \"B\" {}\n")

		f, err := Load(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, f.Store.IDs())
		assert.Equal(t, []WarningKind{WarnCircularInclude}, warningKinds(f.Warnings))
	})

	t.Run("duplicate id across includes is a hard error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "other.txt"), `○ dup 1d "Theirs" {}`+"\n")
		root := filepath.Join(dir, "m.txt")
		writeFile(t, root, "#include other.txt\n○ dup 1d \"Mine\" {}\n")

		_, err := Load(root)
		var dup *DuplicateIDError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "dup", dup.ID)
		assert.Equal(t, filepath.Join(dir, "other.txt"), dup.First.Path)
		assert.Equal(t, root, dup.Second.Path)
	})

	t.Run("include after items is ignored with a warning", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "late.txt"), `○ late 1d "Late" {}`+"\n")
		root := filepath.Join(dir, "m.txt")
		writeFile(t, root, "○ m 1d \"M\" {}\n#include late.txt\n")

		f, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"m"}, f.Store.IDs())
		assert.Equal(t, []WarningKind{WarnMisplacedInclude}, warningKinds(f.Warnings))
		assert.Empty(t, f.Includes)
	})

	t.Run("unresolved requires warn", func(t *testing.T) {
		dir := t.TempDir()
		root := filepath.Join(dir, "m.txt")
		writeFile(t, root, "○ m 1d \"M\" {} >>> ⊢[ghost]\n")

		f, err := Load(root)
		require.NoError(t, err)
		require.Len(t, f.Warnings, 1)
		assert.Equal(t, WarnUnresolvedRequires, f.Warnings[0].Kind)
		assert.Contains(t, f.Warnings[0].Detail, "ghost")
	})
}
