// Package ecs provides ECS adapters for orrery's scene events.
//
// [NewDonburiSink] bridges hover, selection and drag events into a [Donburi]
// world as typed events. Subscribe to [SceneEventType] in your ECS systems
// to receive all of them, or to [SelectionEventType] for selection changes
// only. Passing event kinds to NewDonburiSink limits what is forwarded.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world, orrery.EventSelect, orrery.EventDeselect)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
