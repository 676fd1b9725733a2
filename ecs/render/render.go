package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/ecs/system"
)

var (
	backgroundColor = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x26, A: 0xff}
	defaultTint     = color.NRGBA{R: 0xcf, G: 0xd8, B: 0xdc, A: 0xff}

	surfaceColors = map[component.SurfaceType]color.NRGBA{
		component.SurfaceWall:      {R: 0x90, G: 0xa4, B: 0xae, A: 0xff},
		component.SurfacePlatform:  {R: 0x81, G: 0xc7, B: 0x84, A: 0xff},
		component.SurfaceDanger:    {R: 0xef, G: 0x53, B: 0x50, A: 0xff},
		component.SurfaceEvent:     {R: 0xff, G: 0xd5, B: 0x4f, A: 0xff},
		component.SurfaceAdjacency: {R: 0x42, G: 0xa5, B: 0xf5, A: 0xff},
	}
)

// RenderSystem draws the map's boundary faces and every body as a tinted box.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(backgroundColor)
	camX, camY, zoom := system.CameraView(w)

	if geoEnt, ok := ecs.First(w, component.MapGeometryComponent.Kind()); ok {
		geo, _ := ecs.Get(w, geoEnt, component.MapGeometryComponent.Kind())
		drawBoundaries(screen, geo, camX, camY, zoom)
	}

	for _, e := range ecs.Query(w, component.TransformComponent.Kind(), component.TintComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		tint, _ := ecs.Get(w, e, component.TintComponent.Kind())
		c := tint.Color
		if c == nil {
			c = defaultTint
		}
		x := float32((t.X - camX) * zoom)
		y := float32((t.Y - camY) * zoom)
		vector.FillRect(screen, x, y, float32(float64(t.Width)*zoom), float32(float64(t.Height)*zoom), c, false)
	}
}

// drawBoundaries strokes every finite boundary in the index. The map edges
// span an infinite extent and are drawn as the map frame instead.
func drawBoundaries(screen *ebiten.Image, geo *component.MapGeometry, camX, camY, zoom float64) {
	sx := func(x float64) float32 { return float32((x - camX) * zoom) }
	sy := func(y float64) float32 { return float32((y - camY) * zoom) }

	frame := surfaceColors[component.SurfaceAdjacency]
	vector.StrokeRect(screen, sx(0), sy(0), float32(geo.Width*zoom), float32(geo.Height*zoom), 1, frame, false)

	for _, d := range component.Directions {
		for _, b := range geo.Boundaries[d] {
			if b.Surface == component.SurfaceAdjacency {
				continue
			}
			c := surfaceColors[b.Surface]
			if d.Horizontal() {
				vector.StrokeLine(screen, sx(b.Axis), sy(b.Lower), sx(b.Axis), sy(b.Upper), 2, c, false)
			} else {
				vector.StrokeLine(screen, sx(b.Lower), sy(b.Axis), sx(b.Upper), sy(b.Axis), 2, c, false)
			}
		}
	}
}
