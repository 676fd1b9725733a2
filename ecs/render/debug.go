package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/ecs/system"
)

const debugFontSize = 13

var (
	debugGrounded = color.NRGBA{R: 0x66, G: 0xff, B: 0x66, A: 0xe0}
	debugAirborne = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xa0}
	debugFerry    = color.NRGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xe0}
	debugVelocity = color.NRGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xe0}
)

// DebugOverlay draws body outlines, velocities and passenger links over the
// scene, plus a text panel with the last tick's numbers.
type DebugOverlay struct {
	face      text.Face
	pondering *system.PonderingSystem
}

func NewDebugOverlay(ps *system.PonderingSystem) (*DebugOverlay, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("debug overlay: load font: %w", err)
	}
	return &DebugOverlay{
		face:      &text.GoTextFace{Source: src, Size: debugFontSize},
		pondering: ps,
	}, nil
}

func (d *DebugOverlay) Draw(w *ecs.World, screen *ebiten.Image) {
	if d == nil || w == nil || screen == nil {
		return
	}
	camX, camY, zoom := system.CameraView(w)
	toScreen := func(x, y float64) (float32, float32) {
		return float32((x - camX) * zoom), float32((y - camY) * zoom)
	}

	ecs.ForEach2(w, component.PonderableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Ponderable, t *component.Transform) {
		b := t.Bounds()
		x, y := toScreen(b.L, b.B)
		c := debugAirborne
		if p.Grounded {
			c = debugGrounded
		}
		vector.StrokeRect(screen, x, y, float32(float64(t.Width)*zoom), float32(float64(t.Height)*zoom), 1, c, false)

		cx, cy := toScreen((b.L+b.R)/2, (b.B+b.T)/2)
		vx, vy := toScreen((b.L+b.R)/2+p.Velocity.X*0.1, (b.B+b.T)/2+p.Velocity.Y*0.1)
		vector.StrokeLine(screen, cx, cy, vx, vy, 1, debugVelocity, false)

		if !p.Ferried {
			return
		}
		if ft, ok := ecs.Get(w, ecs.Entity(p.Ferry), component.TransformComponent.Kind()); ok {
			fb := ft.Bounds()
			fx, fy := toScreen((fb.L+fb.R)/2, (fb.B+fb.T)/2)
			vector.StrokeLine(screen, cx, cy, fx, fy, 1, debugFerry, false)
		}
	})

	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.LineSpacing = debugFontSize * 1.4
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, system.DebugText(w, d.pondering, ebiten.ActualTPS()), d.face, op)
}
