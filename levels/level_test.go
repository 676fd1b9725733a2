package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLevelsParse(t *testing.T) {
	for _, name := range []string{"start", "cavern.json", "levels/start.json"} {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			require.NoError(t, err)
			assert.NotEmpty(t, lvl.Layers)
			assert.Equal(t, 32, lvl.Tile())
		})
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "start.json", CleanName("start"))
	assert.Equal(t, "start.json", CleanName("levels/start.json"))
	assert.Equal(t, "a/b.json", CleanName("a/b.json"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		json string
		ok   bool
	}{
		{"minimal", `{"width":2,"height":1,"layers":[[1,0]]}`, true},
		{"zero size", `{"width":0,"height":1}`, false},
		{"short layer", `{"width":2,"height":2,"layers":[[1,0,0]]}`, false},
		{"meta without layer", `{"width":1,"height":1,"layers":[[0]],"layer_meta":[{},{}]}`, false},
		{"warp without target", `{"width":1,"height":1,"edges":{"right":{"type":"warp"}}}`, false},
		{"untyped entity", `{"width":1,"height":1,"entities":[{"x":1}]}`, false},
		{"bad json", `{"width":`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.json))
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte(`{"width":0,"height":1}`))
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestPixelSize(t *testing.T) {
	lvl := &Level{Width: 3, Height: 2, TileSize: 16}
	w, h := lvl.PixelSize()
	assert.Equal(t, 48.0, w)
	assert.Equal(t, 32.0, h)
}
