package system

import (
	"github.com/milk9111/ponder/common"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// CameraSystem keeps the camera centered on the player and inside the map.
// It snaps instead of easing whenever a new level has loaded.
type CameraSystem struct {
	viewW      float64
	viewH      float64
	smoothness float64
	lastLoad   uint64
}

func NewCameraSystem(viewW, viewH, smoothness float64) *CameraSystem {
	return &CameraSystem{viewW: viewW, viewH: viewH, smoothness: smoothness}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	cam := cs.camera(w)

	target, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return
	}

	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	vw, vh := cs.viewW/zoom, cs.viewH/zoom

	b := t.Bounds()
	goalX := (b.L+b.R)/2 - vw/2
	goalY := (b.B+b.T)/2 - vh/2
	if geoEnt, ok := ecs.First(w, component.MapGeometryComponent.Kind()); ok {
		geo, _ := ecs.Get(w, geoEnt, component.MapGeometryComponent.Kind())
		goalX = clampView(goalX, vw, geo.Width)
		goalY = clampView(goalY, vh, geo.Height)
	}

	snap := cam.Smoothness <= 0
	if loadEnt, ok := ecs.First(w, component.LevelLoadedComponent.Kind()); ok {
		ll, _ := ecs.Get(w, loadEnt, component.LevelLoadedComponent.Kind())
		if ll.Sequence != cs.lastLoad {
			cs.lastLoad = ll.Sequence
			snap = true
		}
	}
	if snap {
		cam.X, cam.Y = goalX, goalY
		return
	}
	k := 1 - cam.Smoothness
	cam.X = common.Lerp(cam.X, goalX, k)
	cam.Y = common.Lerp(cam.Y, goalY, k)
}

// camera returns the camera component, creating the entity on first use.
func (cs *CameraSystem) camera(w *ecs.World) *component.Camera {
	if e, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
		return cam
	}
	cam := &component.Camera{Zoom: 1, Smoothness: cs.smoothness}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: "camera", KeepOnLevelChange: true, KeepOnReload: true})
	_ = ecs.Add(w, e, component.CameraComponent.Kind(), cam)
	return cam
}

// clampView keeps a view of size view inside [0, world]. Maps smaller than
// the view are centered.
func clampView(pos, view, world float64) float64 {
	if world <= view {
		return (world - view) / 2
	}
	return common.Clamp(pos, 0, world-view)
}

// CameraView returns the camera position and zoom, or the identity view when
// there is no camera.
func CameraView(w *ecs.World) (float64, float64, float64) {
	camX, camY, zoom := 0.0, 0.0, 1.0
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return camX, camY, zoom
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	if cam.Zoom > 0 {
		zoom = cam.Zoom
	}
	return cam.X, cam.Y, zoom
}
