package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

const DefaultTileSize = 32

type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  int         `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Edges     Edges       `json:"edges"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta describes what a layer's tiles present to bodies. Layers without
// Physics are decorative.
type LayerMeta struct {
	Physics bool `json:"physics"`
	// Surface is wall, platform or danger; empty means wall.
	Surface string `json:"surface,omitempty"`
}

type Edges struct {
	Left  Edge `json:"left"`
	Right Edge `json:"right"`
	Up    Edge `json:"up"`
	Down  Edge `json:"down"`
}

// Edge is a map edge: wall, wrap, warp (to Target) or reverse.
type Edge struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Tile returns the tile size in pixels.
func (l *Level) Tile() int {
	if l.TileSize > 0 {
		return l.TileSize
	}
	return DefaultTileSize
}

// PixelSize returns the map size in pixels.
func (l *Level) PixelSize() (float64, float64) {
	ts := float64(l.Tile())
	return float64(l.Width) * ts, float64(l.Height) * ts
}

// Validate reports structural problems. Surface and edge names are checked
// by the loader that interprets them.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	if l.TileSize < 0 {
		return fmt.Errorf("%w: tile_size %d", ErrInvalidLevel, l.TileSize)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	if len(l.LayerMeta) > len(l.Layers) {
		return fmt.Errorf("%w: %d layer_meta entries for %d layers", ErrInvalidLevel, len(l.LayerMeta), len(l.Layers))
	}
	for name, e := range map[string]Edge{"left": l.Edges.Left, "right": l.Edges.Right, "up": l.Edges.Up, "down": l.Edges.Down} {
		if strings.EqualFold(e.Type, "warp") && e.Target == "" {
			return fmt.Errorf("%w: %s edge warps without a target", ErrInvalidLevel, name)
		}
	}
	for i, ent := range l.Entities {
		if ent.Type == "" {
			return fmt.Errorf("%w: entity %d has no type", ErrInvalidLevel, i)
		}
	}
	return nil
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// CleanName normalizes a level name to the file name under levels/.
func CleanName(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if filepath.Ext(s) == "" {
		s += ".json"
	}
	return s
}

// LoadLevelFromFS loads an embedded level.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, CleanName(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Load prefers levels/<name> on disk, so edits are picked up without a
// rebuild, and falls back to the embedded copy.
func Load(name string) (*Level, error) {
	clean := CleanName(name)
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		lvl, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", clean, err)
		}
		return lvl, nil
	}
	lvl, err := LoadLevelFromFS(clean)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", clean, err)
	}
	return lvl, nil
}
