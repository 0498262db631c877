package itemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanClean(t *testing.T) {
	t.Run("keeps the newest and renumbers from one", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "GIANTT_ITEMS.txt")
		for _, n := range []string{"1", "2", "3", "5", "9"} {
			writeFile(t, base+"."+n+".backup", "backup "+n)
		}

		plan, err := PlanClean(dir, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{base + ".1.backup", base + ".2.backup"}, plan.Delete)
		assert.Equal(t, map[string]string{
			base + ".3.backup": base + ".1.backup",
			base + ".5.backup": base + ".2.backup",
			base + ".9.backup": base + ".3.backup",
		}, plan.Rename)
		assert.False(t, plan.Empty())

		require.NoError(t, plan.Apply())

		assert.Equal(t, "backup 3", readFile(t, base+".1.backup"))
		assert.Equal(t, "backup 5", readFile(t, base+".2.backup"))
		assert.Equal(t, "backup 9", readFile(t, base+".3.backup"))
		_, err = os.Stat(base + ".5.backup")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("groups are independent and subdirectories are scanned", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "GIANTT_ITEMS.txt.1.backup"), "a")
		writeFile(t, filepath.Join(dir, "sub", "extra.txt.7.backup"), "b")

		plan, err := PlanClean(dir, 3)
		require.NoError(t, err)
		assert.Empty(t, plan.Delete)
		assert.Equal(t, filepath.Join(dir, "sub", "extra.txt.1.backup"),
			plan.Rename[filepath.Join(dir, "sub", "extra.txt.7.backup")])

		require.NoError(t, plan.Apply())
		assert.Equal(t, "b", readFile(t, filepath.Join(dir, "sub", "extra.txt.1.backup")))
	})

	t.Run("already compact plan is empty", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "GIANTT_ITEMS.txt.1.backup"), "a")
		writeFile(t, filepath.Join(dir, "GIANTT_ITEMS.txt.2.backup"), "b")

		plan, err := PlanClean(dir, 3)
		require.NoError(t, err)
		assert.True(t, plan.Empty())
	})

	t.Run("ignores files that are not numbered backups", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "notes.backup"), "x")
		writeFile(t, filepath.Join(dir, "GIANTT_ITEMS.txt"), "y")

		plan, err := PlanClean(dir, 3)
		require.NoError(t, err)
		assert.True(t, plan.Empty())
	})

	t.Run("keep must be positive", func(t *testing.T) {
		_, err := PlanClean(t.TempDir(), 0)
		assert.Error(t, err)
	})
}
