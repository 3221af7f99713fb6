// Package orrery is an interactive 3D scene engine for [Ebitengine].
//
// Orrery renders a starfield with two kinds of floating entities: members
// (portrait orbs) and panels (content cards). The user hovers, clicks and
// drags to orbit the camera. Clicking an entity flies the camera to it and
// hands the host an overlay cue through [Config.OnFlyProgress].
//
// # Quick start
//
// [Run] opens a window and drives the game loop:
//
//	eng, err := orrery.New(orrery.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if err := eng.Mount(descs); err != nil {
//		return err
//	}
//	return orrery.Run(eng, orrery.RunConfig{Title: "Who we are"})
//
// [Engine] implements [ebiten.Game], so it can also be embedded in a host
// game by forwarding Update, Draw and Layout.
//
// # Scene graph
//
// Every visual element is a [Node]. Each entity owns a group node holding
// its volume, content surface and optional point light. Entities are laid
// out deterministically from their descriptors, so the same input always
// produces the same scene.
//
// # Interaction
//
// Pointer input feeds [Interaction], which separates clicks from drags,
// debounces repeated clicks and keeps at most one selection. [Director]
// owns the camera: idle auto-orbit, user orbit and dolly, and the
// fly-to and fly-back tweens (via [gween]).
//
// # Lifecycle
//
// Every geometry, material, texture, light and callback handle is tracked.
// [Engine.Unmount] cancels the loop, discards pending image loads and
// releases everything; [Engine.Resources] reports what is still live.
// Scene events can be forwarded to a [Donburi] world with the adapter in
// orrery/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package orrery
