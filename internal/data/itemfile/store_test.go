package itemfile

import (
	"errors"
	"testing"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAdd(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(item.New("a", "First"), Source{Path: "/x/items.txt", Line: 3}))
	require.NoError(t, s.Add(item.New("b", "Second"), Source{Path: "/x/items.txt", Line: 4}))
	assert.Equal(t, 2, s.Len())

	t.Run("duplicate id reports both locations", func(t *testing.T) {
		err := s.Add(item.New("a", "Impostor"), Source{Path: "/x/other.txt", Line: 9})
		require.Error(t, err)

		var dup *DuplicateIDError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "a", dup.ID)
		assert.Equal(t, Source{Path: "/x/items.txt", Line: 3}, dup.First)
		assert.Equal(t, Source{Path: "/x/other.txt", Line: 9}, dup.Second)
		assert.Contains(t, err.Error(), "/x/items.txt:3")
		assert.Contains(t, err.Error(), "/x/other.txt:9")
	})

	t.Run("reads are clones", func(t *testing.T) {
		got, ok := s.Get("a")
		require.True(t, ok)
		got.Title = "mutated"

		again, _ := s.Get("a")
		assert.Equal(t, "First", again.Title)
	})
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(item.New("a", "First"), Source{}))
	require.NoError(t, s.Add(item.New("b", "Second"), Source{}))

	t.Run("mutates in place", func(t *testing.T) {
		err := s.Update("a", func(it *item.Item) error {
			it.Status = item.StatusCompleted
			return nil
		})
		require.NoError(t, err)

		got, _ := s.Get("a")
		assert.Equal(t, item.StatusCompleted, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := s.Update("ghost", func(*item.Item) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rename reindexes and rewrites references", func(t *testing.T) {
		require.NoError(t, s.Update("b", func(it *item.Item) error {
			it.Relations[item.RelationRequires] = []string{"a"}
			return nil
		}))
		require.NoError(t, s.Update("a", func(it *item.Item) error {
			it.ID = "a2"
			return nil
		}))

		_, ok := s.Get("a")
		assert.False(t, ok)
		got, ok := s.Get("a2")
		require.True(t, ok)
		assert.Equal(t, "First", got.Title)

		b, _ := s.Get("b")
		assert.Equal(t, []string{"a2"}, b.Requires())
		assert.Equal(t, []string{"a2", "b"}, s.IDs())
	})

	t.Run("rename onto an existing id fails", func(t *testing.T) {
		err := s.Update("a2", func(it *item.Item) error {
			it.ID = "b"
			return nil
		})
		var dup *DuplicateIDError
		assert.ErrorAs(t, err, &dup)
	})
}

func TestStoreRemove(t *testing.T) {
	newStore := func(t *testing.T) *Store {
		s := NewStore()
		require.NoError(t, s.Add(item.New("base", "Base"), Source{}))
		top := item.New("top", "Top")
		top.Relations[item.RelationRequires] = []string{"base"}
		top.Relations[item.RelationTogether] = []string{"base", "side"}
		require.NoError(t, s.Add(top, Source{}))
		require.NoError(t, s.Add(item.New("side", "Side"), Source{}))
		return s
	}

	t.Run("strips references by default", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Remove("base", false))

		_, ok := s.Get("base")
		assert.False(t, ok)
		top, _ := s.Get("top")
		assert.Empty(t, top.Requires())
		assert.Equal(t, []string{"side"}, top.Relations[item.RelationTogether])
	})

	t.Run("keepRelations leaves danglers", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Remove("base", true))

		top, _ := s.Get("top")
		assert.Equal(t, []string{"base"}, top.Requires())
		assert.Equal(t, map[string][]string{"top": {"base"}}, s.Graph().Unresolved())
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t)
		err := s.Remove("ghost", false)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStoreFindAndResolve(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(item.New("deploy_api", "Deploy the API"), Source{}))
	require.NoError(t, s.Add(item.New("deploy_web", "Deploy the web app"), Source{}))
	require.NoError(t, s.Add(item.New("docs", "Write deploy notes"), Source{}))

	t.Run("find matches id and title", func(t *testing.T) {
		matches := s.Find("deploy")
		require.Len(t, matches, 3)
		assert.Equal(t, "deploy_api", matches[0].ID)
	})

	t.Run("exact id wins over substring matches", func(t *testing.T) {
		it, err := s.Resolve("docs")
		require.NoError(t, err)
		assert.Equal(t, "docs", it.ID)
	})

	t.Run("unique substring resolves", func(t *testing.T) {
		it, err := s.Resolve("web")
		require.NoError(t, err)
		assert.Equal(t, "deploy_web", it.ID)
	})

	t.Run("ambiguous query lists candidates", func(t *testing.T) {
		_, err := s.Resolve("deploy")
		var amb *AmbiguousError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, []string{"deploy_api", "deploy_web", "docs"}, amb.Matches)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := s.Resolve("nothing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreInsertBetween(t *testing.T) {
	newChain := func(t *testing.T) *Store {
		s := NewStore()
		first := item.New("first", "First")
		first.Relations[item.RelationBlocks] = []string{"last"}
		require.NoError(t, s.Add(first, Source{}))
		last := item.New("last", "Last")
		last.Relations[item.RelationRequires] = []string{"first"}
		require.NoError(t, s.Add(last, Source{}))
		return s
	}

	t.Run("splices into the chain", func(t *testing.T) {
		s := newChain(t)
		require.NoError(t, s.InsertBetween(item.New("middle", "Middle"), "first", "last"))

		middle, _ := s.Get("middle")
		assert.Equal(t, []string{"first"}, middle.Requires())
		assert.Equal(t, []string{"last"}, middle.Relations[item.RelationBlocks])

		first, _ := s.Get("first")
		assert.Equal(t, []string{"middle"}, first.Relations[item.RelationBlocks])
		last, _ := s.Get("last")
		assert.Equal(t, []string{"middle"}, last.Requires())

		sorted, err := s.Sorted()
		require.NoError(t, err)
		assert.Equal(t, "first", sorted[0].ID)
		assert.Equal(t, "middle", sorted[1].ID)
		assert.Equal(t, "last", sorted[2].ID)
	})

	t.Run("endpoints must exist", func(t *testing.T) {
		s := newChain(t)
		assert.ErrorIs(t, s.InsertBetween(item.New("x", "X"), "first", "ghost"), ErrNotFound)
		assert.ErrorIs(t, s.InsertBetween(item.New("x", "X"), "ghost", "last"), ErrNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := newChain(t)
		var dup *DuplicateIDError
		assert.ErrorAs(t, s.InsertBetween(item.New("first", "Copy"), "first", "last"), &dup)
	})
}

func TestStoreSorted(t *testing.T) {
	s := NewStore()
	top := item.New("top", "Top")
	top.Relations[item.RelationRequires] = []string{"base"}
	require.NoError(t, s.Add(top, Source{}))
	require.NoError(t, s.Add(item.New("base", "Base"), Source{}))

	sorted, err := s.Sorted()
	require.NoError(t, err)
	assert.Equal(t, "base", sorted[0].ID)
	assert.Equal(t, "top", sorted[1].ID)
}
