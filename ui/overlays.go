package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Overlay IDs.
const (
	OverlayPointerRay   OverlayID = "pointer_ray"
	OverlayReach        OverlayID = "reach"
	OverlayHomes        OverlayID = "homes"
	OverlaySwirlTargets OverlayID = "swirl_targets"
	OverlayPerf         OverlayID = "perf"
	OverlayTuning       OverlayID = "tuning"
	OverlayHelp         OverlayID = "help"
)

// Overlay groups, in display order.
const (
	GroupScene  = "scene"
	GroupPanels = "panels"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // 0 = no key
	KeyLabel  string // shown in the overlay list
	Group     string
	Exclusive []OverlayID // switched off when this one is switched on
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayPointerRay, Name: "Pointer Ray", Key: rl.KeyR, KeyLabel: "R", Group: GroupScene},
	{ID: OverlayReach, Name: "Pointer Reach", Key: rl.KeyE, KeyLabel: "E", Group: GroupScene},
	{ID: OverlayHomes, Name: "Homes", Key: rl.KeyH, KeyLabel: "H", Group: GroupScene,
		Exclusive: []OverlayID{OverlaySwirlTargets}},
	{ID: OverlaySwirlTargets, Name: "Swirl Targets", Key: rl.KeyG, KeyLabel: "G", Group: GroupScene,
		Exclusive: []OverlayID{OverlayHomes}},
	{ID: OverlayTuning, Name: "Tuning", Key: rl.KeyT, KeyLabel: "T", Group: GroupPanels},
	{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P", Group: GroupPanels},
	{ID: OverlayHelp, Name: "Overlays", Key: rl.KeyO, KeyLabel: "O", Group: GroupPanels},
}

// OverlayRegistry tracks which overlays are on.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry holding the default overlays, all off.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{
		descriptors: defaultOverlays,
		enabled:     make(map[OverlayID]bool, len(defaultOverlays)),
	}
}

func (r *OverlayRegistry) find(id OverlayID) (OverlayDescriptor, bool) {
	for _, d := range r.descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return OverlayDescriptor{}, false
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	desc, ok := r.find(id)
	if !ok {
		return false
	}
	on := !r.enabled[id]
	r.enabled[id] = on
	if on {
		for _, other := range desc.Exclusive {
			r.enabled[other] = false
		}
	}
	return on
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Group returns the overlays of one group in display order.
func (r *OverlayRegistry) Group(group string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Group == group {
			out = append(out, d)
		}
	}
	return out
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, on, ok bool) {
	for _, d := range r.descriptors {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}
