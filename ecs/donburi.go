package ecs

import (
	"github.com/phanxgames/orrery"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type carrying every forwarded scene
// event: hover, selection and drag.
var SceneEventType = events.NewEventType[orrery.SceneEvent]()

// SelectionEvent is published on SelectionEventType when the selected
// entity changes. Cleared is true for a deselection, which has no entity.
type SelectionEvent struct {
	EntityID string
	Category orrery.Category
	Cleared  bool
}

// SelectionEventType carries selection changes only, for systems that do
// not care about hover or drag traffic.
var SelectionEventType = events.NewEventType[SelectionEvent]()

type donburiSink struct {
	world donburi.World
	only  map[orrery.EventType]struct{}
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to SceneEventType, and selection changes also to
// SelectionEventType; both are delivered by ProcessEvents. When kinds are
// given, only events of those kinds are forwarded.
func NewDonburiSink(world donburi.World, kinds ...orrery.EventType) orrery.EventSink {
	s := &donburiSink{world: world}
	if len(kinds) > 0 {
		s.only = make(map[orrery.EventType]struct{}, len(kinds))
		for _, k := range kinds {
			s.only[k] = struct{}{}
		}
	}
	return s
}

func (s *donburiSink) EmitEvent(event orrery.SceneEvent) {
	if s.only != nil {
		if _, ok := s.only[event.Type]; !ok {
			return
		}
	}
	SceneEventType.Publish(s.world, event)

	switch event.Type {
	case orrery.EventSelect:
		SelectionEventType.Publish(s.world, SelectionEvent{EntityID: event.EntityID, Category: event.Category})
	case orrery.EventDeselect:
		SelectionEventType.Publish(s.world, SelectionEvent{Cleared: true})
	}
}
