package chart

import (
	"strings"
	"testing"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartItem(t *testing.T, id, dur string, charts ...string) item.Item {
	t.Helper()
	it := item.New(id, id)
	d, err := item.ParseDuration(dur)
	require.NoError(t, err)
	it.Duration = d
	it.Charts = charts
	return it
}

func TestRender(t *testing.T) {
	items := []item.Item{
		chartItem(t, "plan", "1d", "Launch"),
		chartItem(t, "build", "4d", "Launch"),
		chartItem(t, "misc", "2h", "Side"),
	}

	t.Run("groups by chart", func(t *testing.T) {
		out := Render(items, "", 80)
		assert.Contains(t, out, "Launch")
		assert.Contains(t, out, "Side")
		assert.Contains(t, out, "plan")
		assert.Contains(t, out, "build")
	})

	t.Run("query filters chart names", func(t *testing.T) {
		out := Render(items, "launch", 80)
		assert.Contains(t, out, "plan")
		assert.NotContains(t, out, "misc")
	})

	t.Run("longest duration gets the longest bar", func(t *testing.T) {
		out := Render(items, "launch", 80)
		lines := strings.Split(out, "\n")

		var planBar, buildBar int
		for _, line := range lines {
			if strings.Contains(line, "plan") {
				planBar = strings.Count(line, "█")
			}
			if strings.Contains(line, "build") {
				buildBar = strings.Count(line, "█")
			}
		}
		assert.Greater(t, buildBar, planBar)
		assert.GreaterOrEqual(t, planBar, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Contains(t, Render(items, "nope", 80), "No items found")
		assert.Contains(t, Render(nil, "", 80), "No charted items")
	})
}

func TestSummary(t *testing.T) {
	items := []item.Item{
		chartItem(t, "plan", "1d", "Launch"),
	}

	out := Summary(items, "lau")
	assert.Contains(t, out, `Chart "Launch":`)
	assert.Contains(t, out, "- plan")

	assert.Contains(t, Summary(items, "x"), "No items found")
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 120, Width(120, 60))
	assert.Equal(t, 60, Width(0, 60))
	assert.Equal(t, DefaultWidth, Width(0, 0))
}
