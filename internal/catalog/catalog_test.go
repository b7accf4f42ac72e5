// internal/catalog/catalog_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesFor(t *testing.T) {
	rules := []DependencyRule{
		{Domain: "weather", Intent: "query", Slots: map[string][]string{"city": {"北京"}}},
		{Domain: "music", Intent: "play", Slots: map[string][]string{"song": {"a"}}},
		{Domain: "weather", Intent: "query", Slots: map[string][]string{"region": {"华北"}}},
	}
	cat := New(rules, nil)

	got := cat.RulesFor("weather", "query")

	// Catalog order must survive the index round trip.
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Slots, "city")
	assert.Contains(t, got[1].Slots, "region")

	assert.Nil(t, cat.RulesFor("weather", "forecast"))
	assert.Nil(t, cat.RulesFor("", ""))
}

func TestEmpty(t *testing.T) {
	cat := Empty()

	assert.Zero(t, cat.RuleCount())
	assert.Zero(t, cat.TemplateCount())
	assert.Nil(t, cat.RulesFor("weather", "query"))
	assert.Empty(t, cat.Templates())
}

func TestCounts(t *testing.T) {
	cat := New(
		[]DependencyRule{{Domain: "a", Intent: "b"}},
		[]Template{{Name: "t1"}, {Name: "t2"}},
	)

	assert.Equal(t, 1, cat.RuleCount())
	assert.Equal(t, 2, cat.TemplateCount())
}
