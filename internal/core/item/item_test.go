package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("paused")
	assert.Error(t, err)

	for _, name := range StatusNames() {
		s, err := ParseStatus(name)
		require.NoError(t, err)
		got, ok := StatusFromGlyph(s.Glyph())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("Critical")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	_, err = ParsePriority("mega")
	assert.Error(t, err)
}

func TestParseRelation(t *testing.T) {
	r, err := ParseRelation("requires")
	require.NoError(t, err)
	assert.Equal(t, RelationRequires, r)

	_, err = ParseRelation("needs")
	assert.Error(t, err)
}

func TestItemRelated(t *testing.T) {
	it := New("a", "A")
	it.Relations[RelationRequires] = []string{"b"}
	it.Relations[RelationBlocks] = []string{"c"}

	assert.True(t, it.Related("b"))
	assert.True(t, it.Related("c"))
	assert.False(t, it.Related("a"))
	assert.Equal(t, []string{"b"}, it.Requires())
}

func TestItemClone(t *testing.T) {
	it := New("a", "A")
	it.Tags = []string{"x"}
	it.Charts = []string{"Main"}
	it.Relations[RelationRequires] = []string{"b"}
	it.Constraint = &Constraint{Kind: ConstraintDeadline, DueDate: "2026-01-01", Consequence: ConsequenceWarn}

	clone := it.Clone()
	clone.Tags[0] = "y"
	clone.Relations[RelationRequires][0] = "z"
	clone.Constraint.DueDate = "2030-12-31"

	assert.Equal(t, []string{"x"}, it.Tags)
	assert.Equal(t, []string{"b"}, it.Relations[RelationRequires])
	assert.Equal(t, "2026-01-01", it.Constraint.DueDate)
}
