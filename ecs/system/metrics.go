package system

import (
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/metrics"
)

// MetricsSystem forwards the pondering system's per-tick output to a
// Recorder. It must run after PonderingSystem and before the systems that
// consume death requests.
type MetricsSystem struct {
	rec       metrics.Recorder
	pondering *PonderingSystem
}

func NewMetricsSystem(rec metrics.Recorder, ps *PonderingSystem) *MetricsSystem {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &MetricsSystem{rec: rec, pondering: ps}
}

func (s *MetricsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	stats := s.pondering.Stats()
	s.rec.Tick(stats.Bodies, stats.Duration)

	w.Events().Each(func(evt ecs.Event) {
		if ce, ok := evt.Data.(ecs.CollisionEvent); ok {
			s.rec.Collision(string(ce.Kind))
		}
	})

	ecs.ForEach(w, component.DeathRequestComponent.Kind(), func(ecs.Entity, *component.DeathRequest) {
		s.rec.Death()
	})
	ecs.ForEach(w, component.LevelChangeRequestComponent.Kind(), func(_ ecs.Entity, req *component.LevelChangeRequest) {
		s.rec.Warp(req.TargetLevel)
	})
}
