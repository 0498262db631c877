package itemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gianttproject/giantt/internal/core/graph"
	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(contents)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giantt", "items.txt")
	require.NoError(t, Init(path))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, f.Store.Len())

	assert.Error(t, Init(path), "second init must not clobber the file")
}

func TestSave(t *testing.T) {
	t.Run("writes items in dependency order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.txt")
		require.NoError(t, Init(path))

		f, err := Load(path)
		require.NoError(t, err)

		top := item.New("top", "Top")
		top.Relations[item.RelationRequires] = []string{"base"}
		require.NoError(t, f.Store.Add(top, Source{}))
		require.NoError(t, f.Store.Add(item.New("base", "Base"), Source{}))
		require.NoError(t, Save(f))

		reloaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"base", "top"}, reloaded.Store.IDs())
	})

	t.Run("saving an already sorted file is byte identical", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.txt")
		require.NoError(t, Init(path))

		f, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("base", "Base"), Source{}))
		mid := item.New("mid", "Mid")
		mid.Relations[item.RelationRequires] = []string{"base"}
		require.NoError(t, f.Store.Add(mid, Source{}))
		require.NoError(t, f.Store.Add(item.New("loose", "Loose"), Source{}))
		require.NoError(t, Save(f))

		first := readFile(t, path)

		f, err = Load(path)
		require.NoError(t, err)
		require.NoError(t, Save(f))

		assert.Equal(t, first, readFile(t, path))
	})

	t.Run("dependency cycle aborts and leaves the file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.txt")
		require.NoError(t, Init(path))

		f, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("a", "A"), Source{}))
		require.NoError(t, f.Store.Add(item.New("b", "B"), Source{}))
		require.NoError(t, Save(f))
		before := readFile(t, path)

		require.NoError(t, f.Store.Update("a", func(it *item.Item) error {
			it.Relations[item.RelationRequires] = []string{"b"}
			return nil
		}))
		require.NoError(t, f.Store.Update("b", func(it *item.Item) error {
			it.Relations[item.RelationRequires] = []string{"a"}
			return nil
		}))

		err = Save(f)
		var cerr *graph.CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, before, readFile(t, path))
	})

	t.Run("included items stay in their own file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "shared.txt"), `○ shared 1d "Shared" {}`+"\n")
		root := filepath.Join(dir, "items.txt")
		writeFile(t, root, "#include shared.txt\n○ mine 1d \"Mine\" {} >>> ⊢[shared]\n")

		f, err := Load(root)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("added", "Added"), Source{}))
		require.NoError(t, Save(f))

		saved := readFile(t, root)
		assert.Contains(t, saved, "#include shared.txt")
		assert.Contains(t, saved, "mine")
		assert.Contains(t, saved, "added")
		assert.NotContains(t, saved, `"Shared"`)

		reloaded, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"shared", "mine", "added"}, reloaded.Store.IDs())
	})

	t.Run("edits to included items are written back to their file", func(t *testing.T) {
		dir := t.TempDir()
		shared := filepath.Join(dir, "shared.txt")
		writeFile(t, shared, `○ shared 1d "Shared" {}`+"\n")
		root := filepath.Join(dir, "items.txt")
		writeFile(t, root, "#include shared.txt\n○ mine 1d \"Mine\" {}\n")

		f, err := Load(root)
		require.NoError(t, err)
		require.NoError(t, f.Store.Update("shared", func(it *item.Item) error {
			it.Status = item.StatusCompleted
			return nil
		}))
		require.NoError(t, Save(f))

		assert.Contains(t, readFile(t, shared), `● shared 1d "Shared" {}`)
		assert.NotContains(t, readFile(t, root), `"Shared"`)

		reloaded, err := Load(root)
		require.NoError(t, err)
		it, ok := reloaded.Store.Get("shared")
		require.True(t, ok)
		assert.Equal(t, item.StatusCompleted, it.Status)
	})

	t.Run("previous contents are kept as a numbered backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.txt")
		require.NoError(t, Init(path))

		f, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("a", "A"), Source{}))
		require.NoError(t, Save(f))

		backup1 := readFile(t, path+".1.backup")
		assert.NotContains(t, backup1, `"A"`)

		f, err = Load(path)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("b", "B"), Source{}))
		require.NoError(t, Save(f))

		backup2 := readFile(t, path+".2.backup")
		assert.Contains(t, backup2, `"A"`)
		assert.NotContains(t, backup2, `"B"`)
	})

	t.Run("a no-op save does not stack identical backups", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.txt")
		require.NoError(t, Init(path))

		f, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, f.Store.Add(item.New("a", "A"), Source{}))
		require.NoError(t, Save(f))

		f, err = Load(path)
		require.NoError(t, err)
		require.NoError(t, Save(f))

		_, err = os.Stat(path + ".2.backup")
		assert.True(t, os.IsNotExist(err))
	})
}

func TestOcclude(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.txt")
	writeFile(t, path, "○ keep 1d \"Keep\" {}\n○ archive 1d \"Archive\" {} >>> ⊢[keep]\n")

	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, f.Occlude("archive"))
	require.NoError(t, Save(f))

	assert.NotContains(t, readFile(t, path), `"Archive"`)
	occluded := readFile(t, OccludePathFor(path))
	assert.Contains(t, occluded, "Giantt Occluded Items")
	assert.Contains(t, occluded, `"Archive"`)

	// the archive is merged back on load so relations never dangle
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep", "archive"}, reloaded.Store.IDs())
	assert.True(t, reloaded.Occluded("archive"))
	assert.False(t, reloaded.Occluded("keep"))
	assert.Empty(t, reloaded.Warnings)
}

func TestAddInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "extra.txt"), `○ extra 1d "Extra" {}`+"\n")
	path := filepath.Join(dir, "items.txt")
	require.NoError(t, Init(path))

	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, AddInclude(f, "extra.txt"))

	f, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra.txt"}, f.Includes)
	assert.Equal(t, []string{"extra"}, f.Store.IDs())

	assert.Error(t, AddInclude(f, "extra.txt"))
}
