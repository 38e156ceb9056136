package snake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceAppleFullBoard(t *testing.T) {
	g, err := New(5, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < g.width*g.height; i++ {
		if !g.occupied.Has(i) {
			g.push(i)
		}
	}
	g.PlaceApple()

	assert.True(t, g.Over())
	assert.True(t, g.Won())
	_, _, ok := g.Apple()
	assert.False(t, ok)
}

func TestOccupancyTracksBody(t *testing.T) {
	g, err := New(8, 4)
	if err != nil {
		t.Fatal(err)
	}

	g.Tick()
	g.Tick()

	assert.Equal(t, len(g.body), g.occupied.Len())
	for _, idx := range g.body {
		assert.True(t, g.occupied.Has(idx))
	}
	assert.False(t, g.occupied.Has(g.index(1, 1)))
}
