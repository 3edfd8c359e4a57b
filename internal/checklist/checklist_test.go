package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	live := c.Sections(false)
	demo := c.Sections(true)

	require.NotEmpty(t, live)
	require.NotEmpty(t, demo)
	assert.Equal(t, "Kitchen", live[0].Title)
	assert.NotEqual(t, live[0].Items[0], demo[0].Items[0], "visitors get the joke list")
	assert.Greater(t, ItemCount(live), ItemCount(demo))
}

func TestParse_DemoFallsBackToLive(t *testing.T) {
	c, err := Parse([]byte(`
live:
  - title: Outdoors
    items: [Lock the shed]
`))
	require.NoError(t, err)
	assert.Equal(t, c.Sections(false), c.Sections(true))
}

func TestParse_RequiresLiveSections(t *testing.T) {
	_, err := Parse([]byte(`demo: []`))
	assert.Error(t, err)
}

func TestSections_ReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	s := c.Sections(false)
	s[0].Items[0] = "changed"

	assert.NotEqual(t, "changed", c.Sections(false)[0].Items[0])
}
