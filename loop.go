package orrery

import "github.com/tanema/gween/ease"

// Loop is the per-frame tick driver state. Once cancelled it stays
// cancelled; the engine creates a fresh Loop for every mount.
type Loop struct {
	elapsed   float64
	frames    uint64
	cancelled bool
}

// Cancel stops the loop. Calling it more than once is a no-op.
func (l *Loop) Cancel() {
	l.cancelled = true
}

// Cancelled reports whether Cancel has been called.
func (l *Loop) Cancelled() bool {
	return l.cancelled
}

// Elapsed returns the seconds simulated since the loop started.
func (l *Loop) Elapsed() float64 {
	return l.elapsed
}

// Frames returns the number of ticks run.
func (l *Loop) Frames() uint64 {
	return l.frames
}

func (l *Loop) advance(dt float64) bool {
	if l.cancelled {
		return false
	}
	l.elapsed += dt
	l.frames++
	return true
}

// animate poses every entity for elapsed time t, choosing its LOD tier from
// the camera distance. Far entities skip the camera-facing and light
// updates; near entities get both.
func (s *Scene) animate(t float64, cam *Camera, preset QualityPreset, skipEntrance bool) {
	for _, f := range s.fields {
		f.update(t)
	}

	for _, e := range s.entities {
		m := s.motions[e.Desc.ID]
		if m == nil || e.group.IsDisposed() {
			continue
		}

		if skipEntrance {
			e.entrance = 1
		} else {
			e.entrance = easeAt(ease.OutBack, (t-m.delay)/entranceDuration)
		}

		th := preset.MemberLOD
		if e.Desc.Category == CategoryPanel {
			th = preset.PanelLOD
		}
		e.LOD = lodFor(cam.Position.Dist(m.base), th)

		pos, rot := m.pose(t, e.LOD)
		e.group.Position = pos
		e.group.Rotation = rot

		if e.LOD == LODNear && e.Desc.Category == CategoryMember && e.surface != nil {
			wpos, grot, _ := e.group.World()
			want := facing(cam.Position.Sub(wpos))
			e.surface.Rotation = Rotation{
				Pitch: want.Pitch - grot.Pitch,
				Yaw:   want.Yaw - grot.Yaw,
			}
			e.FacingUpdates++
		}

		if e.light != nil && e.light.Light != nil {
			switch e.LOD {
			case LODNear:
				e.light.Position = e.group.WorldPosition()
				e.light.Visible = e.entrance > 0.1
				e.LightUpdates++
			case LODMedium:
				e.light.Visible = e.entrance > 0.1
			case LODFar:
				e.light.Visible = false
			}
		}
	}
}
